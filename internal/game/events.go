package game

import (
	"context"
	"time"

	"github.com/playperu/sequence/internal/sequence"
)

// Outbound event types.
const (
	EventMatchJoin           = "MATCH_JOIN"
	EventMatchState          = "MATCH_STATE"
	EventMatchConfigUpdated  = "MATCH_CONFIG_UPDATED"
	EventMatchPlayersUpdated = "MATCH_PLAYERS_UPDATED"
	EventPlayerMovement      = "PLAYER_MOVEMENT"
	EventTurnTimeout         = "TURN_TIMEOUT"
	EventMatchFinished       = "MATCH_FINISHED"
	EventPartyMatchCreated   = "PARTY_MATCH_CREATED"
)

// Event is a message for the members of a room (a match or party code).
// A non-empty PlayerID restricts delivery to that player.
type Event struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Room     string `json:"room"`
	PlayerID string `json:"-"`
	Payload  any    `json:"payload,omitempty"`
}

// Notifier delivers events. Publish must not block on slow consumers.
type Notifier interface {
	Publish(ctx context.Context, ev Event)
}

// Notifiers fans an event out to several notifiers.
type Notifiers []Notifier

func (ns Notifiers) Publish(ctx context.Context, ev Event) {
	for _, n := range ns {
		n.Publish(ctx, ev)
	}
}

type nopNotifier struct{}

func (nopNotifier) Publish(context.Context, Event) {}

type MatchStatePayload struct {
	Code              string                  `json:"code"`
	Board             sequence.Board          `json:"boardState"`
	Hand              sequence.Hand           `json:"hand"`
	CurrentTurn       CurrentTurn             `json:"currentTurn"`
	TeamSequenceCount [sequence.TeamCount]int `json:"teamSequenceCount"`
	DeckSize          int                     `json:"deckSize"`
	Players           []MatchPlayer           `json:"players"`
	Winner            *sequence.Team          `json:"winner"`
	Finished          bool                    `json:"finished"`
}

type MovementPayload struct {
	PlayerID          string                  `json:"playerId"`
	Row               int                     `json:"row"`
	Col               int                     `json:"col"`
	Card              sequence.Card           `json:"card"`
	Team              sequence.Team           `json:"team"`
	Removed           bool                    `json:"removed"`
	NewSequences      []sequence.Bounds       `json:"newSequences"`
	CurrentTurn       *CurrentTurn            `json:"currentTurn"`
	TeamSequenceCount [sequence.TeamCount]int `json:"teamSequenceCount"`
}

type TurnTimeoutPayload struct {
	SkippedPlayerID string      `json:"skippedPlayerId"`
	CurrentTurn     CurrentTurn `json:"currentTurn"`
}

type MatchFinishedPayload struct {
	Winner            *sequence.Team          `json:"winner"`
	Reason            FinishReason            `json:"reason"`
	TeamSequenceCount [sequence.TeamCount]int `json:"teamSequenceCount"`
}

type PartyMatchCreatedPayload struct {
	PartyCode string    `json:"partyCode"`
	MatchCode string    `json:"matchCode"`
	Mode      Mode      `json:"mode"`
	CreatedAt time.Time `json:"createdAt"`
}

// Result is the archived summary of a finished match.
type Result struct {
	Code              string                  `json:"code"`
	PartyCode         string                  `json:"partyCode,omitempty"`
	Winner            *sequence.Team          `json:"winner"`
	Reason            FinishReason            `json:"reason"`
	Players           []MatchPlayer           `json:"players"`
	TeamSequenceCount [sequence.TeamCount]int `json:"teamSequenceCount"`
	StartedAt         time.Time               `json:"startedAt"`
	FinishedAt        time.Time               `json:"finishedAt"`
}

// ResultRecorder archives finished matches.
type ResultRecorder interface {
	Record(ctx context.Context, r Result) error
}

// PlayerDirectory resolves player ids to their current nickname.
type PlayerDirectory interface {
	Lookup(id string) (nickname string, ok bool)
}
