// Package natsbus mirrors game events onto NATS so other processes can follow
// matches without holding a WebSocket.
package natsbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/playperu/sequence/internal/game"
)

var ErrDisconnected = errors.New("nats disconnected")

// Publisher implements game.Notifier on top of a NATS connection.
type Publisher struct {
	nc     *nats.Conn
	prefix string
	logger *slog.Logger
}

func Connect(url, prefix string, logger *slog.Logger) (*Publisher, error) {
	logger = logger.With("component", "natsbus")
	opts := []nats.Option{
		nats.Name("sequence"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("disconnected from nats", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected to nats", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("nats connection closed")
		}),
		nats.Timeout(10 * time.Second),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	return &Publisher{nc: nc, prefix: prefix, logger: logger}, nil
}

// Subject is <prefix>.<room> for room events and <prefix>.<room>.<player> for
// events addressed to a single player.
func Subject(prefix string, ev game.Event) string {
	parts := []string{prefix, ev.Room}
	if ev.PlayerID != "" {
		parts = append(parts, ev.PlayerID)
	}
	return strings.Join(parts, ".")
}

func (p *Publisher) Publish(_ context.Context, ev game.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		p.logger.Error("marshaling event", "type", ev.Type, "error", err)
		return
	}
	subject := Subject(p.prefix, ev)
	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Error("publishing event", "subject", subject, "error", err)
		return
	}
	p.logger.Debug("published event", "subject", subject, "type", ev.Type)
}

// Ping reports whether the connection is currently up.
func (p *Publisher) Ping(context.Context) error {
	if !p.nc.IsConnected() {
		return ErrDisconnected
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.nc.Drain()
}
