package game

import (
	"fmt"
	"slices"

	"github.com/playperu/sequence/internal/sequence"
)

// apply is the single transition function of a match. It must be called with
// m.mu held and never blocks.
func (s *Service) apply(m *Match, cmd Command, tx *txn) Reply {
	m.lastActivity = tx.now
	switch c := cmd.(type) {
	case Join:
		return s.join(m, c, tx)
	case Connect:
		return s.connect(m, c, tx)
	case Disconnect:
		return s.disconnect(m, c, tx)
	case Start:
		return s.start(m, c, tx)
	case Move:
		return s.move(m, c, tx)
	case MoveToTeam:
		return s.moveToTeam(m, c, tx)
	case UpdateConfig:
		return s.updateConfig(m, c, tx)
	case turnTimeout:
		return s.onTurnTimeout(m, c, tx)
	case staleTimeout:
		return s.onStaleTimeout(m, c, tx)
	}
	panic(fmt.Sprintf("game: unknown command %T", cmd))
}

func (s *Service) join(m *Match, c Join, tx *txn) Reply {
	nickname, ok := s.players.Lookup(c.PlayerID)
	if !ok {
		return rejected(ReasonUnknownPlayer)
	}

	if p := m.player(c.PlayerID); p != nil {
		p.Nickname = nickname
		return Reply{OK: true, JoinStatus: JoinSuccess}
	}
	if m.Started || m.Finished {
		return Reply{Reason: ReasonMatchStarted, JoinStatus: JoinStarted}
	}
	if len(m.Players) >= m.Config.MaxPlayers {
		return Reply{Reason: ReasonMatchFull, JoinStatus: JoinFull}
	}

	m.Players = append(m.Players, MatchPlayer{
		ID:       c.PlayerID,
		Nickname: nickname,
		Team:     sequence.AssignNewPlayerTeam(m.teams()),
	})
	tx.broadcast(m.Code, EventMatchPlayersUpdated, clonePlayers(m.Players))
	return Reply{OK: true, JoinStatus: JoinSuccess}
}

func (s *Service) connect(m *Match, c Connect, tx *txn) Reply {
	p := m.player(c.PlayerID)
	if p == nil {
		return rejected(ReasonNotSeated)
	}
	if nickname, ok := s.players.Lookup(c.PlayerID); ok {
		p.Nickname = nickname
	}
	p.IsConnected = true
	tx.connected = c.PlayerID

	tx.broadcast(m.Code, EventMatchConfigUpdated, m.Config)
	tx.broadcast(m.Code, EventMatchPlayersUpdated, clonePlayers(m.Players))
	if m.State != nil {
		tx.send(m.Code, c.PlayerID, EventMatchState, statePayload(m, c.PlayerID))
	}
	return Reply{OK: true}
}

func (s *Service) disconnect(m *Match, c Disconnect, tx *txn) Reply {
	p := m.player(c.PlayerID)
	if p == nil {
		return rejected(ReasonNotSeated)
	}

	if !m.Started && !p.IsOwner {
		m.removePlayer(c.PlayerID)
		tx.removed = c.PlayerID
	} else {
		p.IsConnected = false
	}
	tx.broadcast(m.Code, EventMatchPlayersUpdated, clonePlayers(m.Players))
	return Reply{OK: true}
}

func (s *Service) start(m *Match, c Start, tx *txn) Reply {
	if c.PlayerID != m.OwnerID {
		return rejected(ReasonNotOwner)
	}
	if m.Started || m.Finished {
		return rejected(ReasonAlreadyStarted)
	}
	if !sequence.IsLayoutStartable(m.teams()) {
		return rejected(ReasonInvalidLayout)
	}

	s.begin(m, tx)
	return Reply{OK: true}
}

// begin deals a fresh game and arms both timers. The layout must already be
// startable.
func (s *Service) begin(m *Match, tx *txn) {
	order := sequence.RebalanceSeatOrder(m.teams())
	seats := make([]MatchPlayer, 0, len(order))
	for _, i := range order {
		seats = append(seats, m.Players[i])
	}
	m.Players = seats

	deck := sequence.NewDeck()
	sequence.Shuffle(deck, s.rand())
	dealt := sequence.Deal(&deck, len(m.Players), sequence.HandSize)
	hands := make(map[string]sequence.Hand, len(m.Players))
	for i, p := range m.Players {
		hands[p.ID] = dealt[i]
	}

	m.State = &MatchState{
		CurrentTurn: CurrentTurn{PlayerID: m.Players[0].ID, StartTime: tx.now},
		Board:       sequence.BuildBoard(),
		Hands:       hands,
		Deck:        deck,
	}
	m.Started = true
	m.StartedAt = tx.now
	s.armTurnTimer(m)
	s.armStaleTimer(m)

	tx.broadcast(m.Code, EventMatchPlayersUpdated, clonePlayers(m.Players))
	for _, p := range m.Players {
		tx.send(m.Code, p.ID, EventMatchState, statePayload(m, p.ID))
	}
	s.logger.Info("match started", "match", m.Code, "players", len(m.Players))
}

func (s *Service) move(m *Match, c Move, tx *txn) Reply {
	if m.State == nil {
		return rejectedMove(ReasonNoActiveMatch)
	}
	if m.Finished || m.Winner != nil {
		return rejectedMove(ReasonMatchFinished)
	}
	s.armStaleTimer(m)

	p := m.player(c.PlayerID)
	if p == nil {
		return rejectedMove(ReasonNotSeated)
	}
	st := m.State
	if st.CurrentTurn.PlayerID != c.PlayerID {
		return rejectedMove(ReasonNotYourTurn)
	}

	hand := st.Hands[c.PlayerID]
	out, err := sequence.Play(&st.Board, &st.Deck, &hand, p.Team, c.Row, c.Col)
	if err != nil {
		return rejectedMove(moveReason(err))
	}
	st.Hands[c.PlayerID] = hand
	st.Discarded += out.Discarded
	total := sequence.AddSequenceCounts(&st.TeamSequenceCount, p.Team, out.NewSequences)

	newSequences := out.NewSequences
	if newSequences == nil {
		newSequences = []sequence.Bounds{}
	}
	movement := MovementPayload{
		PlayerID:          c.PlayerID,
		Row:               c.Row,
		Col:               c.Col,
		Card:              out.Card,
		Team:              p.Team,
		Removed:           out.Removed,
		NewSequences:      newSequences,
		TeamSequenceCount: st.TeamSequenceCount,
	}

	if total >= sequence.SequencesToWin {
		tx.broadcast(m.Code, EventPlayerMovement, movement)
		winner := p.Team
		s.finish(m, &winner, FinishWinner, tx)
	} else {
		s.advanceTurn(m, tx)
		s.armTurnTimer(m)
		turn := st.CurrentTurn
		movement.CurrentTurn = &turn
		tx.broadcast(m.Code, EventPlayerMovement, movement)
	}

	card := out.Card
	return Reply{OK: true, Move: &MoveResult{
		IsMovementValid: true,
		Card:            &card,
		NextCard:        out.NextCard,
		NewSequences:    newSequences,
	}}
}

func (s *Service) moveToTeam(m *Match, c MoveToTeam, tx *txn) Reply {
	requester := m.player(c.PlayerID)
	if requester == nil {
		return rejected(ReasonNotSeated)
	}
	if m.Started || m.Finished {
		return rejected(ReasonAlreadyStarted)
	}
	if !requester.IsOwner && c.TargetID != c.PlayerID {
		return rejected(ReasonNotOwner)
	}
	if !c.Team.Valid() {
		return rejected(ReasonInvalidTeam)
	}
	target := m.player(c.TargetID)
	if target == nil {
		return rejected(ReasonNotSeated)
	}

	target.Team = c.Team
	tx.broadcast(m.Code, EventMatchPlayersUpdated, clonePlayers(m.Players))
	return Reply{OK: true}
}

func (s *Service) updateConfig(m *Match, c UpdateConfig, tx *txn) Reply {
	if c.PlayerID != m.OwnerID {
		return rejected(ReasonNotOwner)
	}
	if m.Started || m.Finished {
		return rejected(ReasonAlreadyStarted)
	}
	if !c.Config.valid(len(m.Players)) {
		return rejected(ReasonInvalidConfig)
	}

	m.Config = c.Config
	tx.broadcast(m.Code, EventMatchConfigUpdated, m.Config)
	return Reply{OK: true}
}

// advanceTurn hands the turn to the next seat. Calling it before the match has
// started is a programming error.
func (s *Service) advanceTurn(m *Match, tx *txn) {
	if m.State == nil {
		panic("game: advancing the turn of match " + m.Code + " without state")
	}
	current := slices.IndexFunc(m.Players, func(p MatchPlayer) bool {
		return p.ID == m.State.CurrentTurn.PlayerID
	})
	next := m.Players[(current+1)%len(m.Players)]
	m.State.CurrentTurn = CurrentTurn{PlayerID: next.ID, StartTime: tx.now}
}

func (s *Service) finish(m *Match, winner *sequence.Team, reason FinishReason, tx *txn) {
	s.stopTimers(m)
	m.Finished = true
	m.Winner = winner
	m.Reason = reason
	m.FinishedAt = tx.now

	var counts [sequence.TeamCount]int
	if m.State != nil {
		counts = m.State.TeamSequenceCount
	}
	tx.broadcast(m.Code, EventMatchFinished, MatchFinishedPayload{
		Winner:            winner,
		Reason:            reason,
		TeamSequenceCount: counts,
	})
	tx.result = &Result{
		Code:              m.Code,
		PartyCode:         m.PartyCode,
		Winner:            winner,
		Reason:            reason,
		Players:           clonePlayers(m.Players),
		TeamSequenceCount: counts,
		StartedAt:         m.StartedAt,
		FinishedAt:        m.FinishedAt,
	}
}

func statePayload(m *Match, playerID string) MatchStatePayload {
	st := m.State
	return MatchStatePayload{
		Code:              m.Code,
		Board:             st.Board,
		Hand:              slices.Clone(st.Hands[playerID]),
		CurrentTurn:       st.CurrentTurn,
		TeamSequenceCount: st.TeamSequenceCount,
		DeckSize:          len(st.Deck),
		Players:           clonePlayers(m.Players),
		Winner:            m.Winner,
		Finished:          m.Finished,
	}
}
