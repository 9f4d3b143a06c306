package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/playperu/sequence/internal/game"
	"github.com/playperu/sequence/internal/player"
	"github.com/playperu/sequence/internal/sequence"
)

// Inbound message types.
const (
	msgMovement     = "MOVEMENT"
	msgStartGame    = "START_GAME"
	msgMovePlayerTo = "MOVE_PLAYER_TO_TEAM"
	msgUpdateConfig = "UPDATE_CONFIG"
	msgAck          = "ACK"
)

const (
	writeTimeout      = 5 * time.Second
	maxConnectionSpan = 6 * time.Hour
	readLimit         = 16 << 10
)

// Envelope frames every realtime message in both directions.
type Envelope struct {
	Type    string          `json:"type" validate:"required,oneof=MOVEMENT START_GAME MOVE_PLAYER_TO_TEAM UPDATE_CONFIG"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type ack struct {
	Type    string     `json:"type"`
	ID      string     `json:"id"`
	Payload game.Reply `json:"payload"`
}

type MovementMessage struct {
	Row *int `json:"row" validate:"required"`
	Col *int `json:"col" validate:"required"`
}

type MovePlayerToTeamMessage struct {
	PlayerID string        `json:"playerId" validate:"required"`
	Team     sequence.Team `json:"team"`
}

type UpdateConfigMessage struct {
	TurnTimeLimitSeconds int `json:"turnTimeLimitSeconds" validate:"min=5,max=300"`
	MaxPlayers           int `json:"maxPlayers" validate:"min=2,max=12"`
}

type MatchJoinPayload struct {
	Status game.JoinStatus `json:"status"`
}

type realtime struct {
	svc            *game.Service
	players        *player.Registry
	tokens         *player.Tokens
	broker         *Broker
	originPatterns []string
	logger         *slog.Logger
}

// handleRealtime upgrades GET /ws?match=CODE&token=... and keeps the player
// connected to the match until the socket closes.
func handleRealtime(rt *realtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		playerID, ok := authenticate(rt.tokens, rt.players, r.URL.Query().Get("token"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "invalid player token")
			return
		}
		code := r.URL.Query().Get("match")
		if code == "" {
			writeError(w, http.StatusBadRequest, "match query parameter required")
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: rt.originPatterns,
		})
		if err != nil {
			rt.logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()
		conn.SetReadLimit(readLimit)

		ctx, cancel := context.WithTimeout(r.Context(), maxConnectionSpan)
		defer cancel()
		rt.serve(ctx, conn, code, playerID)
	}
}

func (rt *realtime) serve(ctx context.Context, conn *websocket.Conn, code, playerID string) {
	logger := rt.logger.With("match", code, "player", playerID)

	reply, err := rt.svc.Dispatch(ctx, code, game.Join{PlayerID: playerID})
	status := reply.JoinStatus
	if errors.Is(err, game.ErrMatchNotFound) {
		status = game.JoinNotFound
	} else if err != nil {
		logger.Error("joining match", "error", err)
		conn.Close(websocket.StatusInternalError, "internal error")
		return
	}
	if err := rt.write(ctx, conn, game.Event{Type: game.EventMatchJoin, Room: code, Payload: MatchJoinPayload{Status: status}}); err != nil {
		return
	}
	if status != game.JoinSuccess {
		conn.Close(websocket.StatusPolicyViolation, string(status))
		return
	}

	view, err := rt.svc.Match(code)
	if err != nil {
		conn.Close(websocket.StatusGoingAway, "match closed")
		return
	}
	rooms := []string{code}
	if view.PartyCode != "" {
		rooms = append(rooms, view.PartyCode)
	}
	events := rt.broker.Subscribe(playerID, rooms...)
	defer rt.broker.Unsubscribe(events)

	if _, err := rt.svc.Dispatch(ctx, code, game.Connect{PlayerID: playerID}); err != nil {
		conn.Close(websocket.StatusGoingAway, "match closed")
		return
	}
	defer func() {
		// The request context is already done here.
		if _, err := rt.svc.Dispatch(context.Background(), code, game.Disconnect{PlayerID: playerID}); err != nil && !errors.Is(err, game.ErrMatchNotFound) {
			logger.Error("disconnecting player", "error", err)
		}
	}()
	logger.Info("player connected")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go rt.forward(ctx, cancel, conn, events)

	for {
		var env Envelope
		if err := wsjson.Read(ctx, conn, &env); err != nil {
			logger.Debug("websocket read ended", "error", err)
			return
		}

		reply := rt.handle(ctx, code, playerID, env)
		if env.ID == "" {
			continue
		}
		wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(wctx, conn, ack{Type: msgAck, ID: env.ID, Payload: reply})
		wcancel()
		if err != nil {
			logger.Debug("websocket write failed", "error", err)
			return
		}
	}
}

// forward writes broker events to the socket until ctx is done or the broker
// cuts the subscriber off.
func (rt *realtime) forward(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, events <-chan []byte) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-events:
			if !ok {
				conn.Close(websocket.StatusTryAgainLater, "too slow")
				return
			}
			wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
			err := conn.Write(wctx, websocket.MessageText, data)
			wcancel()
			if err != nil {
				return
			}
		}
	}
}

// handle turns an inbound envelope into a command for the match.
func (rt *realtime) handle(ctx context.Context, code, playerID string, env Envelope) game.Reply {
	if err := validate.Struct(env); err != nil {
		return game.Reply{Reason: game.ReasonInvalidPayload}
	}

	var cmd game.Command
	switch env.Type {
	case msgMovement:
		var m MovementMessage
		if !decodeMessage(env.Payload, &m) {
			return game.Reply{Reason: game.ReasonInvalidPayload}
		}
		cmd = game.Move{PlayerID: playerID, Row: *m.Row, Col: *m.Col}
	case msgStartGame:
		cmd = game.Start{PlayerID: playerID}
	case msgMovePlayerTo:
		var m MovePlayerToTeamMessage
		if !decodeMessage(env.Payload, &m) {
			return game.Reply{Reason: game.ReasonInvalidPayload}
		}
		cmd = game.MoveToTeam{PlayerID: playerID, TargetID: m.PlayerID, Team: m.Team}
	case msgUpdateConfig:
		var m UpdateConfigMessage
		if !decodeMessage(env.Payload, &m) {
			return game.Reply{Reason: game.ReasonInvalidConfig}
		}
		cmd = game.UpdateConfig{PlayerID: playerID, Config: game.MatchConfig{
			TurnTimeLimitSeconds: m.TurnTimeLimitSeconds,
			MaxPlayers:           m.MaxPlayers,
		}}
	}

	reply, err := rt.svc.Dispatch(ctx, code, cmd)
	if errors.Is(err, game.ErrMatchNotFound) {
		return game.Reply{Reason: game.ReasonMatchNotFound}
	}
	if err != nil {
		rt.logger.Error("dispatching command", "match", code, "type", env.Type, "error", err)
	}
	return reply
}

func decodeMessage(raw json.RawMessage, v any) bool {
	if len(raw) == 0 || json.Unmarshal(raw, v) != nil {
		return false
	}
	return validate.Struct(v) == nil
}

func (rt *realtime) write(ctx context.Context, conn *websocket.Conn, ev game.Event) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, ev)
}
