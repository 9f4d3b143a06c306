package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/sequence/internal/config"
	"github.com/playperu/sequence/internal/database"
	"github.com/playperu/sequence/internal/game"
	"github.com/playperu/sequence/internal/handler/health"
	"github.com/playperu/sequence/internal/history"
	"github.com/playperu/sequence/internal/migrations"
	"github.com/playperu/sequence/internal/natsbus"
	"github.com/playperu/sequence/internal/player"
	"github.com/playperu/sequence/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	broker := server.NewBroker(logger.With("component", "broker"))
	notifiers := game.Notifiers{broker}
	checks := map[string]health.Pinger{}

	// --- History (SQLite) ---
	var archive *history.Archive
	if cfg.HistoryEnabled {
		db, err := database.Open(ctx, cfg.HistoryDBPath)
		if err != nil {
			return fmt.Errorf("connecting to sqlite: %w", err)
		}
		defer db.Close()

		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		archive = history.NewArchive(db)
		checks["sqlite"] = archive
		logger.Info("connected to sqlite", "path", cfg.HistoryDBPath)
	}

	// --- NATS ---
	if cfg.NATSURL != "" {
		bus, err := natsbus.Connect(cfg.NATSURL, cfg.NATSSubjectPrefix, logger)
		if err != nil {
			return fmt.Errorf("connecting to nats: %w", err)
		}
		defer bus.Close()
		notifiers = append(notifiers, bus)
		checks["nats"] = bus
		logger.Info("connected to nats", "url", cfg.NATSURL, "prefix", cfg.NATSSubjectPrefix)
	}

	players := player.NewRegistry(nil)
	gameCfg := game.Config{
		Players:          players,
		Notifier:         notifiers,
		Logger:           logger,
		TurnTimeLimit:    cfg.TurnTimeLimit,
		MaxMatchDuration: cfg.MaxMatchDuration,
		IdleTimeout:      cfg.IdleTimeout,
	}
	if archive != nil {
		gameCfg.Recorder = archive
	}
	svc := game.NewService(gameCfg)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Game:           svc,
		Players:        players,
		Tokens:         player.NewTokens(cfg.TokenSecret, cfg.TokenTTL),
		Broker:         broker,
		History:        archive,
		Checks:         checks,
		OriginPatterns: cfg.WSOriginPatterns,
		SPADir:         cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		return svc.RunJanitor(gctx, cfg.JanitorInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
