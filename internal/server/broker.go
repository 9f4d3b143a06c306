package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/playperu/sequence/internal/game"
)

const subscriberBuffer = 64

type subscriber struct {
	playerID string
	rooms    []string
}

// Broker is an in-process pub/sub keyed by room (match or party code). It
// implements game.Notifier.
type Broker struct {
	mu     sync.Mutex
	rooms  map[string]map[chan []byte]*subscriber
	logger *slog.Logger
}

func NewBroker(logger *slog.Logger) *Broker {
	return &Broker{
		rooms:  make(map[string]map[chan []byte]*subscriber),
		logger: logger.With("component", "broker"),
	}
}

// Subscribe returns a channel that receives JSON-encoded events of the given
// rooms, including those addressed to playerID alone. The channel is closed
// when the subscriber falls behind or unsubscribes.
func (b *Broker) Subscribe(playerID string, rooms ...string) chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	sub := &subscriber{playerID: playerID, rooms: rooms}

	b.mu.Lock()
	for _, room := range rooms {
		if b.rooms[room] == nil {
			b.rooms[room] = make(map[chan []byte]*subscriber)
		}
		b.rooms[room][ch] = sub
	}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.drop(ch)
}

// Publish delivers ev to the room. A subscriber whose buffer is full is cut
// off; it resynchronises on reconnect.
func (b *Broker) Publish(_ context.Context, ev game.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error("marshaling event", "type", ev.Type, "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch, sub := range b.rooms[ev.Room] {
		if ev.PlayerID != "" && ev.PlayerID != sub.playerID {
			continue
		}
		select {
		case ch <- data:
		default:
			b.logger.Warn("dropping slow subscriber", "room", ev.Room, "player", sub.playerID)
			b.drop(ch)
		}
	}
}

// Subscribers returns the number of subscriptions to room.
func (b *Broker) Subscribers(room string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rooms[room])
}

// drop must be called with b.mu held.
func (b *Broker) drop(ch chan []byte) {
	var sub *subscriber
	for _, subs := range b.rooms {
		if s, ok := subs[ch]; ok {
			sub = s
			break
		}
	}
	if sub == nil {
		return
	}
	for _, room := range sub.rooms {
		delete(b.rooms[room], ch)
		if len(b.rooms[room]) == 0 {
			delete(b.rooms, room)
		}
	}
	close(ch)
}
