package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/playperu/sequence/internal/game"
	"github.com/playperu/sequence/internal/history"
	"github.com/playperu/sequence/internal/player"
)

type testApp struct {
	handler http.Handler
	svc     *game.Service
	players *player.Registry
	broker  *Broker
}

func newTestApp(t *testing.T, archive *history.Archive) *testApp {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	players := player.NewRegistry(rand.New(rand.NewPCG(1, 1)))
	broker := NewBroker(logger)
	cfg := game.Config{
		Players:  players,
		Notifier: broker,
		Logger:   logger,
		Rand:     func() *rand.Rand { return rand.New(rand.NewPCG(3, 4)) },
	}
	if archive != nil {
		cfg.Recorder = archive
	}
	svc := game.NewService(cfg)

	return &testApp{
		handler: NewHandler(logger, Deps{
			Game:    svc,
			Players: players,
			Tokens:  player.NewTokens("test-secret", time.Hour),
			Broker:  broker,
			History: archive,
		}),
		svc:     svc,
		players: players,
		broker:  broker,
	}
}

// do performs a request and decodes the JSON response into out when given.
func (a *testApp) do(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decoding response: %v", method, path, err)
		}
	}
	return w.Code
}

func (a *testApp) newPlayer(t *testing.T, nickname string) PlayerResponse {
	t.Helper()
	var p PlayerResponse
	if code := a.do(t, http.MethodPut, "/api/players", "", CreatePlayerRequest{Nickname: nickname}, &p); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	return p
}

func (a *testApp) newMatch(t *testing.T, owner PlayerResponse) game.MatchView {
	t.Helper()
	var v game.MatchView
	if code := a.do(t, http.MethodPut, "/api/matches", owner.Token, nil, &v); code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", code)
	}
	return v
}
