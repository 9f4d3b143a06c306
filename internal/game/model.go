package game

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/playperu/sequence/internal/sequence"
)

const (
	DefaultMaxPlayers = 12
	MinPlayers        = 2
	MinTurnTimeLimit  = 5
	MaxTurnTimeLimit  = 300
)

type MatchPlayer struct {
	ID          string        `json:"id"`
	Nickname    string        `json:"nickname"`
	Team        sequence.Team `json:"team"`
	IsOwner     bool          `json:"isOwner"`
	IsConnected bool          `json:"isConnected"`
}

type MatchConfig struct {
	TurnTimeLimitSeconds int `json:"turnTimeLimitSeconds" validate:"min=5,max=300"`
	MaxPlayers           int `json:"maxPlayers" validate:"min=2,max=12"`
}

func (c MatchConfig) valid(seated int) bool {
	return c.TurnTimeLimitSeconds >= MinTurnTimeLimit && c.TurnTimeLimitSeconds <= MaxTurnTimeLimit &&
		c.MaxPlayers >= MinPlayers && c.MaxPlayers <= DefaultMaxPlayers && c.MaxPlayers >= seated
}

type CurrentTurn struct {
	PlayerID  string    `json:"turnPlayerId"`
	StartTime time.Time `json:"turnStartTime"`
}

// MatchState exists once a match has started.
type MatchState struct {
	CurrentTurn       CurrentTurn
	Board             sequence.Board
	Hands             map[string]sequence.Hand
	Deck              sequence.Deck
	TeamSequenceCount [sequence.TeamCount]int
	Discarded         int
}

// Match is one game from lobby to finish. All fields are guarded by mu and
// only mutated through Service.Dispatch.
type Match struct {
	mu     sync.Mutex
	pubMu  sync.Mutex
	Code   string
	Config MatchConfig

	OwnerID   string
	PartyCode string
	Players   []MatchPlayer
	Started   bool
	State     *MatchState
	Finished  bool
	Winner    *sequence.Team
	Reason    FinishReason

	CreatedAt    time.Time
	StartedAt    time.Time
	FinishedAt   time.Time
	lastActivity time.Time

	turnTimer  clockwork.Timer
	turnGen    uint64
	staleTimer clockwork.Timer
	staleGen   uint64
}

func (m *Match) Status() Status {
	switch {
	case m.Finished:
		return StatusFinished
	case m.Started:
		return StatusActive
	}
	return StatusLobby
}

func (m *Match) player(id string) *MatchPlayer {
	for i := range m.Players {
		if m.Players[i].ID == id {
			return &m.Players[i]
		}
	}
	return nil
}

func (m *Match) teams() []sequence.Team {
	return teamsOf(m.Players)
}

func teamsOf(players []MatchPlayer) []sequence.Team {
	teams := make([]sequence.Team, len(players))
	for i, p := range players {
		teams[i] = p.Team
	}
	return teams
}

func (m *Match) removePlayer(id string) {
	for i := range m.Players {
		if m.Players[i].ID == id {
			m.Players = append(m.Players[:i], m.Players[i+1:]...)
			return
		}
	}
}

// Party groups consecutive matches played by the same people.
type Party struct {
	mu         sync.Mutex
	Code       string
	OwnerID    string
	Members    []string
	MatchCodes []string
	CreatedAt  time.Time
}

func (p *Party) lastMatch() string {
	if len(p.MatchCodes) == 0 {
		return ""
	}
	return p.MatchCodes[len(p.MatchCodes)-1]
}

func (p *Party) hasMember(id string) bool {
	for _, m := range p.Members {
		if m == id {
			return true
		}
	}
	return false
}

func (p *Party) addMember(id string) {
	if !p.hasMember(id) {
		p.Members = append(p.Members, id)
	}
}

func (p *Party) removeMember(id string) {
	for i, m := range p.Members {
		if m == id {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return
		}
	}
}
