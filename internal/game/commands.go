package game

import "github.com/playperu/sequence/internal/sequence"

// Command is an input to a match. Every mutation of a match is a Command
// passed to Service.Dispatch.
type Command interface {
	command()
}

// Join seats a player, or confirms the seat of one already seated.
type Join struct {
	PlayerID string
}

// Connect marks a seated player's realtime connection as open.
type Connect struct {
	PlayerID string
}

// Disconnect marks the connection closed. In the lobby a non-owner loses the
// seat.
type Disconnect struct {
	PlayerID string
}

type Start struct {
	PlayerID string
}

type Move struct {
	PlayerID string
	Row      int
	Col      int
}

type MoveToTeam struct {
	PlayerID string
	TargetID string
	Team     sequence.Team
}

type UpdateConfig struct {
	PlayerID string
	Config   MatchConfig
}

type turnTimeout struct{ gen uint64 }

type staleTimeout struct{ gen uint64 }

func (Join) command()         {}
func (Connect) command()      {}
func (Disconnect) command()   {}
func (Start) command()        {}
func (Move) command()         {}
func (MoveToTeam) command()   {}
func (UpdateConfig) command() {}
func (turnTimeout) command()  {}
func (staleTimeout) command() {}

// Reply acknowledges a command.
type Reply struct {
	OK         bool        `json:"ok"`
	Reason     Reason      `json:"reason,omitempty"`
	JoinStatus JoinStatus  `json:"joinStatus,omitempty"`
	Move       *MoveResult `json:"move,omitempty"`
}

// MoveResult is the private answer to a move. NextCard is only ever sent to
// the acting player.
type MoveResult struct {
	IsMovementValid bool              `json:"isMovementValid"`
	Card            *sequence.Card    `json:"card"`
	NextCard        *sequence.Card    `json:"nextCard"`
	NewSequences    []sequence.Bounds `json:"newSequences"`
}

func rejected(reason Reason) Reply {
	return Reply{Reason: reason}
}

func rejectedMove(reason Reason) Reply {
	return Reply{Reason: reason, Move: &MoveResult{NewSequences: []sequence.Bounds{}}}
}
