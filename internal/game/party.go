package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/playperu/sequence/internal/sequence"
)

// CreateParty creates a party together with its first match.
func (s *Service) CreateParty(ctx context.Context, ownerID string) (PartyView, error) {
	if _, ok := s.players.Lookup(ownerID); !ok {
		return PartyView{}, ErrPlayerNotFound
	}

	p := &Party{OwnerID: ownerID, Members: []string{ownerID}, CreatedAt: s.clock.Now()}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := s.addParty(p); err != nil {
		return PartyView{}, err
	}
	m, err := s.createMatch(ownerID, p.Code)
	if err != nil {
		s.store.DeleteParty(p.Code)
		return PartyView{}, fmt.Errorf("creating first match: %w", err)
	}
	p.MatchCodes = append(p.MatchCodes, m.Code)

	s.logger.Info("party created", "party", p.Code, "match", m.Code, "owner", ownerID)
	return s.partyView(p), nil
}

func (s *Service) addParty(p *Party) error {
	for range maxCodeAttempts {
		p.Code = newCode(partyPrefix)
		if s.store.AddParty(p) {
			return nil
		}
	}
	return ErrCodesExhausted
}

// Party returns a snapshot of a party.
func (s *Service) Party(code string) (PartyView, error) {
	p, ok := s.store.Party(code)
	if !ok {
		return PartyView{}, ErrPartyNotFound
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return s.partyView(p), nil
}

// ActiveMatch returns the code of the party's match still being played or
// waiting in the lobby. A finished match is never active.
func (s *Service) ActiveMatch(code string) (string, bool) {
	p, ok := s.store.Party(code)
	if !ok {
		return "", false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return s.activeMatch(p)
}

func (s *Service) activeMatch(p *Party) (string, bool) {
	code := p.lastMatch()
	m, ok := s.store.Match(code)
	if !ok {
		return "", false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Finished || m.Winner != nil {
		return "", false
	}
	return code, true
}

// JoinParty seats playerID in the party's active match.
func (s *Service) JoinParty(ctx context.Context, code, playerID string) (PartyJoinStatus, string, error) {
	p, ok := s.store.Party(code)
	if !ok {
		return PartyJoinNotFound, "", nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	matchCode, ok := s.activeMatch(p)
	if !ok {
		return PartyJoinNotFound, "", nil
	}
	reply, err := s.Dispatch(ctx, matchCode, Join{PlayerID: playerID})
	if errors.Is(err, ErrMatchNotFound) {
		return PartyJoinNotFound, "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("joining match %s: %w", matchCode, err)
	}

	switch reply.JoinStatus {
	case JoinSuccess:
		p.addMember(playerID)
		return PartyJoinSuccess, matchCode, nil
	case JoinFull:
		return PartyJoinFull, matchCode, nil
	case JoinStarted:
		return PartyJoinBusy, matchCode, nil
	}
	return "", "", ErrPlayerNotFound
}

// NewPartyMatch pushes a new match onto the party once the previous one has
// finished. Only the owner of the previous match may ask for it. The new match
// keeps the previous match's config, with room for the whole roster.
func (s *Service) NewPartyMatch(ctx context.Context, code, requesterID string, mode Mode) (MatchView, Reason, error) {
	if !mode.Valid() {
		return MatchView{}, ReasonInvalidMode, nil
	}
	p, ok := s.store.Party(code)
	if !ok {
		return MatchView{}, "", ErrPartyNotFound
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	owner, finished := p.OwnerID, true
	var roster []MatchPlayer
	var config *MatchConfig
	if prev, ok := s.store.Match(p.lastMatch()); ok {
		prev.mu.Lock()
		owner, finished = prev.OwnerID, prev.Finished
		roster = clonePlayers(prev.Players)
		prevConfig := prev.Config
		config = &prevConfig
		prev.mu.Unlock()
	}
	if requesterID != owner {
		return MatchView{}, ReasonNotOwner, nil
	}
	if !finished {
		return MatchView{}, ReasonMatchInProgress, nil
	}
	if _, ok := s.players.Lookup(requesterID); !ok {
		return MatchView{}, "", ErrPlayerNotFound
	}

	if roster == nil || mode == ModeNormal {
		roster = s.rosterFromMembers(p, requesterID)
	}
	switch mode {
	case ModeFastRematch:
		if !sequence.IsLayoutStartable(teamsOf(roster)) {
			return MatchView{}, ReasonInvalidLayout, nil
		}
	case ModeShuffle:
		teams := sequence.ShuffleTeams(teamsOf(roster), s.rand())
		for i := range roster {
			roster[i].Team = teams[i]
		}
	}
	for i := range roster {
		if nickname, ok := s.players.Lookup(roster[i].ID); ok {
			roster[i].Nickname = nickname
		}
		roster[i].IsOwner = roster[i].ID == requesterID
		roster[i].IsConnected = false
	}

	m := s.newMatch(requesterID, p.Code)
	m.Players = roster
	if config != nil {
		m.Config = *config
		m.Config.MaxPlayers = max(m.Config.MaxPlayers, len(roster))
	}
	if err := s.addMatch(m); err != nil {
		return MatchView{}, "", err
	}
	s.releaseFinished(p)
	p.MatchCodes = append(p.MatchCodes, m.Code)

	if mode == ModeFastRematch {
		reply, err := s.Dispatch(ctx, m.Code, Start{PlayerID: requesterID})
		if err != nil {
			return MatchView{}, "", fmt.Errorf("starting rematch %s: %w", m.Code, err)
		}
		if !reply.OK {
			return MatchView{}, reply.Reason, nil
		}
	}

	s.publish(ctx, []Event{{
		Type: EventPartyMatchCreated,
		Room: p.Code,
		Payload: PartyMatchCreatedPayload{
			PartyCode: p.Code,
			MatchCode: m.Code,
			Mode:      mode,
			CreatedAt: m.CreatedAt,
		},
	}})
	s.logger.Info("party match created", "party", p.Code, "match", m.Code, "mode", mode)

	m.mu.Lock()
	defer m.mu.Unlock()
	return s.view(m), "", nil
}

// rosterFromMembers seats the requester on team one and every other known
// member on the smallest team, up to the seat limit.
func (s *Service) rosterFromMembers(p *Party, requesterID string) []MatchPlayer {
	roster := []MatchPlayer{{ID: requesterID, Team: sequence.One}}
	for _, id := range p.Members {
		if id == requesterID || len(roster) >= DefaultMaxPlayers {
			continue
		}
		if _, ok := s.players.Lookup(id); !ok {
			continue
		}
		roster = append(roster, MatchPlayer{ID: id, Team: sequence.AssignNewPlayerTeam(teamsOf(roster))})
	}
	return roster
}

// releaseFinished drops the party's finished matches from the store.
func (s *Service) releaseFinished(p *Party) {
	for _, code := range p.MatchCodes {
		m, ok := s.store.Match(code)
		if !ok {
			continue
		}
		m.mu.Lock()
		finished := m.Finished
		m.mu.Unlock()
		if finished {
			s.store.DeleteMatch(code)
		}
	}
}
