package game

import (
	"errors"

	"github.com/playperu/sequence/internal/sequence"
)

var (
	ErrMatchNotFound  = errors.New("match not found")
	ErrPartyNotFound  = errors.New("party not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrCodesExhausted = errors.New("no free code available")
)

// Reason tells a client why a command was rejected.
type Reason string

const (
	ReasonMatchNotFound   Reason = "match-not-found"
	ReasonUnknownPlayer   Reason = "unknown-player"
	ReasonNotSeated       Reason = "not-seated"
	ReasonMatchFull       Reason = "match-full"
	ReasonMatchStarted    Reason = "match-started"
	ReasonNotOwner        Reason = "not-owner"
	ReasonAlreadyStarted  Reason = "already-started"
	ReasonInvalidLayout   Reason = "invalid-layout"
	ReasonNoActiveMatch   Reason = "no-active-match"
	ReasonMatchFinished   Reason = "match-finished"
	ReasonNotYourTurn     Reason = "not-your-turn"
	ReasonOutOfBounds     Reason = "out-of-bounds"
	ReasonCornerCell      Reason = "corner"
	ReasonNoMatchingCard  Reason = "no-matching-card"
	ReasonCellOccupied    Reason = "cell-occupied"
	ReasonCellLocked      Reason = "cell-locked"
	ReasonInvalidTeam     Reason = "invalid-team"
	ReasonInvalidConfig   Reason = "invalid-config"
	ReasonMatchInProgress Reason = "match-in-progress"
	ReasonInvalidMode     Reason = "invalid-mode"
	ReasonInvalidPayload  Reason = "invalid-payload"
)

func moveReason(err error) Reason {
	switch {
	case errors.Is(err, sequence.ErrOutOfBounds):
		return ReasonOutOfBounds
	case errors.Is(err, sequence.ErrCornerCell):
		return ReasonCornerCell
	case errors.Is(err, sequence.ErrCellOccupied):
		return ReasonCellOccupied
	case errors.Is(err, sequence.ErrCellLocked):
		return ReasonCellLocked
	default:
		return ReasonNoMatchingCard
	}
}

// JoinStatus is the outcome of joining a match.
type JoinStatus string

const (
	JoinSuccess  JoinStatus = "SUCCESS"
	JoinNotFound JoinStatus = "NOT_FOUND"
	JoinFull     JoinStatus = "FULL"
	JoinStarted  JoinStatus = "STARTED"
)

// PartyJoinStatus is the outcome of joining a party.
type PartyJoinStatus string

const (
	PartyJoinSuccess  PartyJoinStatus = "SUCCESS"
	PartyJoinNotFound PartyJoinStatus = "NOT_FOUND"
	PartyJoinFull     PartyJoinStatus = "FULL"
	PartyJoinBusy     PartyJoinStatus = "BUSY"
)

// Status is the lifecycle phase of a match.
type Status string

const (
	StatusLobby    Status = "lobby"
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Mode selects how a party's next match is seeded.
type Mode string

const (
	ModeFastRematch Mode = "fast-rematch"
	ModeShuffle     Mode = "shuffle"
	ModeNormal      Mode = "normal"
)

func (m Mode) Valid() bool {
	return m == ModeFastRematch || m == ModeShuffle || m == ModeNormal
}

// FinishReason records how a match ended.
type FinishReason string

const (
	FinishWinner FinishReason = "winner"
	FinishStale  FinishReason = "stale"
)
