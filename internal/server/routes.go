package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/sequence/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Sequence API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Get("/ws", handleRealtime(&realtime{
		svc:            deps.Game,
		players:        deps.Players,
		tokens:         deps.Tokens,
		broker:         deps.Broker,
		originPatterns: deps.OriginPatterns,
		logger:         logger.With("component", "realtime"),
	}))

	r.Put("/api/players", handleCreatePlayer(deps.Players, deps.Tokens))

	r.Group(func(r chi.Router) {
		r.Use(playerAuth(deps.Tokens, deps.Players))

		r.Get("/api/players/me", handleGetMe(deps.Players))
		r.Patch("/api/players/me", handleRenameMe(deps.Players))

		r.Put("/api/matches", handleCreateMatch(deps.Game))
		r.Get("/api/matches/{code}", handleGetMatch(deps.Game))
		r.Get("/api/matches/{code}/state", handleGetMatchState(deps.Game))
		r.Post("/api/matches/{code}/join", handleJoinMatch(deps.Game))

		r.Put("/api/parties", handleCreateParty(deps.Game))
		r.Get("/api/parties/{code}", handleGetParty(deps.Game))
		r.Post("/api/parties/{code}/join", handleJoinParty(deps.Game))
		r.Post("/api/parties/{code}/matches", handleNewPartyMatch(deps.Game))

		if deps.History != nil {
			r.Get("/api/history", handleRecentResults(deps.History))
			r.Get("/api/parties/{code}/history", handlePartyResults(deps.History))
		}
	})

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
