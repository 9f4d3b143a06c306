package server

import (
	"errors"
	"net/http"

	"github.com/playperu/sequence/internal/player"
)

type CreatePlayerRequest struct {
	Nickname string `json:"nickname" validate:"max=32"`
}

type RenamePlayerRequest struct {
	Nickname string `json:"nickname" validate:"required,max=32"`
}

type PlayerResponse struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Token    string `json:"token,omitempty"`
}

func handleCreatePlayer(players *player.Registry, tokens *player.Tokens) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreatePlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p, err := players.Create(req.Nickname)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid nickname")
			return
		}
		token, err := tokens.Issue(p.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusCreated, PlayerResponse{ID: p.ID, Nickname: p.Nickname, Token: token})
	}
}

func handleGetMe(players *player.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := players.Get(playerFrom(r))
		if err != nil {
			writeError(w, http.StatusNotFound, "player not found")
			return
		}
		writeJSON(w, http.StatusOK, PlayerResponse{ID: p.ID, Nickname: p.Nickname})
	}
}

func handleRenameMe(players *player.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RenamePlayerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "nickname is required")
			return
		}

		p, err := players.Rename(playerFrom(r), req.Nickname)
		switch {
		case errors.Is(err, player.ErrNotFound):
			writeError(w, http.StatusNotFound, "player not found")
			return
		case err != nil:
			writeError(w, http.StatusBadRequest, "invalid nickname")
			return
		}
		writeJSON(w, http.StatusOK, PlayerResponse{ID: p.ID, Nickname: p.Nickname})
	}
}
