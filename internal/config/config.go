package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	TokenSecret string        `env:"TOKEN_SECRET,required,notEmpty"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	TurnTimeLimit    time.Duration `env:"TURN_TIME_LIMIT" envDefault:"60s"`
	MaxMatchDuration time.Duration `env:"MAX_MATCH_DURATION" envDefault:"20m"`
	IdleTimeout      time.Duration `env:"IDLE_TIMEOUT" envDefault:"30m"`
	JanitorInterval  time.Duration `env:"JANITOR_INTERVAL" envDefault:"1m"`

	HistoryEnabled bool   `env:"HISTORY_ENABLED" envDefault:"true"`
	HistoryDBPath  string `env:"HISTORY_DB_PATH" envDefault:"data/history.db"`
	// Empty disables event fan-out to NATS.
	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"sequence.events"`

	WSOriginPatterns []string `env:"WS_ORIGIN_PATTERNS" envSeparator:","`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.JanitorInterval <= 0 {
		return nil, fmt.Errorf("JANITOR_INTERVAL must be positive, got %s", cfg.JanitorInterval)
	}
	return &cfg, nil
}
