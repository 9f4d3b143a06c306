package game

import (
	"context"
	"time"
)

// RunJanitor sweeps idle matches and orphaned parties every interval until ctx
// is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) error {
	ticker := s.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			s.Sweep()
		}
	}
}

// Sweep removes lobby and finished matches idle for longer than the idle
// timeout, then parties whose last match is gone. Active matches are left to
// their stale timer.
func (s *Service) Sweep() (matches, parties int) {
	now := s.clock.Now()
	for _, m := range s.store.Matches() {
		m.mu.Lock()
		idle := m.Status() != StatusActive && now.Sub(m.lastActivity) > s.idleTimeout
		if idle {
			s.stopTimers(m)
		}
		m.mu.Unlock()

		if idle {
			s.store.DeleteMatch(m.Code)
			matches++
			s.logger.Info("evicted idle match", "match", m.Code)
		}
	}

	for _, p := range s.store.Parties() {
		p.mu.Lock()
		_, alive := s.store.Match(p.lastMatch())
		p.mu.Unlock()

		if !alive {
			s.store.DeleteParty(p.Code)
			parties++
			s.logger.Info("evicted party", "party", p.Code)
		}
	}
	return matches, parties
}
