// Package health serves the readiness endpoint of the match server.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

const checkTimeout = 3 * time.Second

// Pinger verifies that an optional dependency (history database, event bus)
// is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Handler struct {
	checks map[string]Pinger
	logger *slog.Logger
}

// NewHandler checks every named dependency. Nil pingers are skipped so
// disabled dependencies do not appear in the report.
func NewHandler(logger *slog.Logger, checks map[string]Pinger) *Handler {
	live := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			live[name] = p
		}
	}
	return &Handler{checks: live, logger: logger}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

type result struct {
	Status string `json:"status"`
}

type report struct {
	Status string            `json:"status"`
	Checks map[string]result `json:"checks"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	rep := report{Status: "ok", Checks: make(map[string]result, len(h.checks))}
	status := http.StatusOK

	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			h.logger.Error("health check failed", "name", name, "error", err)
			rep.Checks[name] = result{Status: "error"}
			rep.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		rep.Checks[name] = result{Status: "ok"}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(rep)
}
