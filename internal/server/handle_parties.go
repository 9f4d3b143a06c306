package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/sequence/internal/game"
)

type NewPartyMatchRequest struct {
	Mode game.Mode `json:"mode" validate:"required,oneof=fast-rematch shuffle normal"`
}

func handleCreateParty(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.CreateParty(r.Context(), playerFrom(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, v)
	}
}

func handleGetParty(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Party(chi.URLParam(r, "code"))
		if errors.Is(err, game.ErrPartyNotFound) {
			writeError(w, http.StatusNotFound, "party not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func handleJoinParty(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, matchCode, err := svc.JoinParty(r.Context(), chi.URLParam(r, "code"), playerFrom(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpStatus := http.StatusNotFound
		switch status {
		case game.PartyJoinSuccess:
			httpStatus = http.StatusOK
		case game.PartyJoinFull:
			httpStatus = http.StatusConflict
		case game.PartyJoinBusy:
			httpStatus = http.StatusForbidden
		}

		resp := JoinResponse{Status: string(status)}
		if httpStatus == http.StatusOK {
			resp.MatchCode = matchCode
		}
		writeJSON(w, httpStatus, resp)
	}
}

func handleNewPartyMatch(svc *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req NewPartyMatchRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "mode must be one of fast-rematch, shuffle, normal")
			return
		}

		v, reason, err := svc.NewPartyMatch(r.Context(), chi.URLParam(r, "code"), playerFrom(r), req.Mode)
		switch {
		case errors.Is(err, game.ErrPartyNotFound):
			writeError(w, http.StatusNotFound, "party not found")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		switch reason {
		case "":
			writeJSON(w, http.StatusCreated, v)
		case game.ReasonNotOwner:
			writeError(w, http.StatusForbidden, string(reason))
		case game.ReasonInvalidMode:
			writeError(w, http.StatusBadRequest, string(reason))
		default:
			writeError(w, http.StatusConflict, string(reason))
		}
	}
}
