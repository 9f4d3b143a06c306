package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/sequence/internal/game"
)

type JoinResponse struct {
	Status    string `json:"status"`
	MatchCode string `json:"matchCode,omitempty"`
}

func handleCreateMatch(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.CreateMatch(r.Context(), playerFrom(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, v)
	}
}

func handleGetMatch(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Match(chi.URLParam(r, "code"))
		if errors.Is(err, game.ErrMatchNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleJoinMatch(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		reply, err := svc.Dispatch(r.Context(), code, game.Join{PlayerID: playerFrom(r)})
		if err != nil && !errors.Is(err, game.ErrMatchNotFound) {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		status := joinHTTPStatus(reply.JoinStatus)
		resp := JoinResponse{Status: string(reply.JoinStatus)}
		if status == http.StatusOK {
			resp.MatchCode = code
		}
		writeJSON(w, status, resp)
	}
}

func joinHTTPStatus(s game.JoinStatus) int {
	switch s {
	case game.JoinSuccess:
		return http.StatusOK
	case game.JoinFull:
		return http.StatusConflict
	case game.JoinStarted:
		return http.StatusForbidden
	}
	return http.StatusNotFound
}

// handleGetMatchState returns the caller's private view of a started match,
// used by clients to resynchronise without reconnecting the socket.
func handleGetMatchState(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state, ok := svc.MatchState(chi.URLParam(r, "code"), playerFrom(r))
		if !ok {
			writeError(w, http.StatusNotFound, "no started match with this player")
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}
