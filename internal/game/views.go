package game

import (
	"slices"
	"time"

	"github.com/playperu/sequence/internal/sequence"
)

// MatchView is the public snapshot of a match. Hands and the deck are never
// part of it.
type MatchView struct {
	Code              string                   `json:"code"`
	Status            Status                   `json:"status"`
	OwnerID           string                   `json:"ownerId"`
	PartyCode         string                   `json:"partyCode,omitempty"`
	Players           []MatchPlayer            `json:"players"`
	Config            MatchConfig              `json:"config"`
	Winner            *sequence.Team           `json:"winner"`
	CurrentTurn       *CurrentTurn             `json:"currentTurn,omitempty"`
	TeamSequenceCount *[sequence.TeamCount]int `json:"teamSequenceCount,omitempty"`
	CreatedAt         time.Time                `json:"createdAt"`
}

func (s *Service) view(m *Match) MatchView {
	v := MatchView{
		Code:      m.Code,
		Status:    m.Status(),
		OwnerID:   m.OwnerID,
		PartyCode: m.PartyCode,
		Players:   clonePlayers(m.Players),
		Config:    m.Config,
		Winner:    m.Winner,
		CreatedAt: m.CreatedAt,
	}
	if m.State != nil {
		turn := m.State.CurrentTurn
		counts := m.State.TeamSequenceCount
		v.CurrentTurn = &turn
		v.TeamSequenceCount = &counts
	}
	return v
}

type PartyView struct {
	Code        string    `json:"code"`
	OwnerID     string    `json:"ownerId"`
	Members     []string  `json:"members"`
	MatchCodes  []string  `json:"matchCodes"`
	ActiveMatch string    `json:"activeMatch,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// partyView must be called with p.mu held.
func (s *Service) partyView(p *Party) PartyView {
	active, _ := s.activeMatch(p)
	return PartyView{
		Code:        p.Code,
		OwnerID:     p.OwnerID,
		Members:     slices.Clone(p.Members),
		MatchCodes:  slices.Clone(p.MatchCodes),
		ActiveMatch: active,
		CreatedAt:   p.CreatedAt,
	}
}
