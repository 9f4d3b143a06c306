package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/playperu/sequence/internal/game"
)

func receive(t *testing.T, ch chan []byte) (game.Event, bool) {
	t.Helper()
	select {
	case data, ok := <-ch:
		if !ok {
			return game.Event{}, false
		}
		var ev game.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		return ev, true
	default:
		return game.Event{}, false
	}
}

func TestBrokerRooms(t *testing.T) {
	b := NewBroker(slog.New(slog.DiscardHandler))
	ctx := context.Background()

	p1 := b.Subscribe("p1", "M-AAAA", "P-AAAA")
	p2 := b.Subscribe("p2", "M-AAAA")
	other := b.Subscribe("p3", "M-BBBB")

	b.Publish(ctx, game.Event{ID: "1", Type: game.EventPlayerMovement, Room: "M-AAAA"})
	for name, ch := range map[string]chan []byte{"p1": p1, "p2": p2} {
		if ev, ok := receive(t, ch); !ok || ev.Type != game.EventPlayerMovement {
			t.Errorf("%s: expected PLAYER_MOVEMENT, got %+v", name, ev)
		}
	}
	if _, ok := receive(t, other); ok {
		t.Error("expected no event in another room")
	}

	b.Publish(ctx, game.Event{Type: game.EventPartyMatchCreated, Room: "P-AAAA"})
	if ev, ok := receive(t, p1); !ok || ev.Type != game.EventPartyMatchCreated {
		t.Errorf("expected the party event, got %+v", ev)
	}
	if _, ok := receive(t, p2); ok {
		t.Error("expected p2 outside the party room")
	}
}

func TestBrokerPrivateEvents(t *testing.T) {
	b := NewBroker(slog.New(slog.DiscardHandler))
	p1 := b.Subscribe("p1", "M-AAAA")
	p2 := b.Subscribe("p2", "M-AAAA")

	b.Publish(context.Background(), game.Event{Type: game.EventMatchState, Room: "M-AAAA", PlayerID: "p2"})

	if _, ok := receive(t, p1); ok {
		t.Error("expected p1 not to see p2's state")
	}
	if ev, ok := receive(t, p2); !ok || ev.Type != game.EventMatchState {
		t.Errorf("expected MATCH_STATE for p2, got %+v", ev)
	}
}

func TestBrokerDropsSlowSubscriber(t *testing.T) {
	b := NewBroker(slog.New(slog.DiscardHandler))
	ch := b.Subscribe("p1", "M-AAAA", "P-AAAA")

	for range subscriberBuffer + 1 {
		b.Publish(context.Background(), game.Event{Type: game.EventTurnTimeout, Room: "M-AAAA"})
	}

	n := 0
	for range ch {
		n++
	}
	if n != subscriberBuffer {
		t.Errorf("expected %d buffered events before close, got %d", subscriberBuffer, n)
	}
	if b.Subscribers("M-AAAA") != 0 || b.Subscribers("P-AAAA") != 0 {
		t.Error("expected the subscriber removed from every room")
	}

	// Unsubscribing a dropped channel is a no-op.
	b.Unsubscribe(ch)
}

func TestBrokerUnsubscribe(t *testing.T) {
	b := NewBroker(slog.New(slog.DiscardHandler))
	ch := b.Subscribe("p1", "M-AAAA")
	b.Unsubscribe(ch)

	if _, open := <-ch; open {
		t.Error("expected the channel closed")
	}
	if b.Subscribers("M-AAAA") != 0 {
		t.Error("expected the room emptied")
	}
	b.Publish(context.Background(), game.Event{Type: game.EventTurnTimeout, Room: "M-AAAA"})
}
