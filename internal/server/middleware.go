package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/playperu/sequence/internal/player"
)

type ctxKey int

const ctxKeyPlayer ctxKey = iota

// playerAuth resolves the bearer token to a registered player.
func playerAuth(tokens *player.Tokens, players *player.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || token == "" {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}

			id, ok := authenticate(tokens, players, token)
			if !ok {
				writeError(w, http.StatusUnauthorized, "invalid player token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyPlayer, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(tokens *player.Tokens, players *player.Registry, token string) (string, bool) {
	id, err := tokens.Parse(token)
	if err != nil || !players.Exists(id) {
		return "", false
	}
	return id, true
}

func playerFrom(r *http.Request) string {
	return r.Context().Value(ctxKeyPlayer).(string)
}
