package game

import (
	"context"
	"errors"
	"time"
)

// armTurnTimer replaces the match's turn timer. Each arm bumps the generation
// so a callback that fired before being stopped is ignored.
func (s *Service) armTurnTimer(m *Match) {
	if m.turnTimer != nil {
		m.turnTimer.Stop()
	}
	m.turnGen++
	gen, code := m.turnGen, m.Code
	d := time.Duration(m.Config.TurnTimeLimitSeconds) * time.Second
	m.turnTimer = s.clock.AfterFunc(d, func() {
		s.fire(code, turnTimeout{gen: gen})
	})
}

func (s *Service) armStaleTimer(m *Match) {
	if m.staleTimer != nil {
		m.staleTimer.Stop()
	}
	m.staleGen++
	gen, code := m.staleGen, m.Code
	m.staleTimer = s.clock.AfterFunc(s.maxMatchDuration, func() {
		s.fire(code, staleTimeout{gen: gen})
	})
}

func (s *Service) stopTimers(m *Match) {
	if m.turnTimer != nil {
		m.turnTimer.Stop()
		m.turnTimer = nil
	}
	if m.staleTimer != nil {
		m.staleTimer.Stop()
		m.staleTimer = nil
	}
	m.turnGen++
	m.staleGen++
}

func (s *Service) fire(code string, cmd Command) {
	if _, err := s.Dispatch(context.Background(), code, cmd); err != nil && !errors.Is(err, ErrMatchNotFound) {
		s.logger.Error("timer dispatch", "match", code, "error", err)
	}
}

func (s *Service) onTurnTimeout(m *Match, c turnTimeout, tx *txn) Reply {
	if c.gen != m.turnGen || m.Finished || m.State == nil {
		return Reply{}
	}

	skipped := m.State.CurrentTurn.PlayerID
	s.advanceTurn(m, tx)
	s.armTurnTimer(m)
	tx.broadcast(m.Code, EventTurnTimeout, TurnTimeoutPayload{
		SkippedPlayerID: skipped,
		CurrentTurn:     m.State.CurrentTurn,
	})
	s.logger.Debug("turn timed out", "match", m.Code, "player", skipped)
	return Reply{OK: true}
}

func (s *Service) onStaleTimeout(m *Match, c staleTimeout, tx *txn) Reply {
	if c.gen != m.staleGen || m.Finished {
		return Reply{}
	}

	s.finish(m, nil, FinishStale, tx)
	return Reply{OK: true}
}
