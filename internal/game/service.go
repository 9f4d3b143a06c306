// Package game runs Sequence matches and parties: lobby, turns, timers and
// the events they produce.
package game

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/playperu/sequence/internal/sequence"
)

type Config struct {
	Store    Store
	Players  PlayerDirectory
	Notifier Notifier
	// Recorder is optional.
	Recorder ResultRecorder
	Clock    clockwork.Clock
	Logger   *slog.Logger
	// Rand returns the source used to shuffle decks and teams. It is called
	// once per shuffle, so it may return a fresh generator.
	Rand func() *rand.Rand

	TurnTimeLimit    time.Duration
	MaxMatchDuration time.Duration
	IdleTimeout      time.Duration
}

type Service struct {
	store    Store
	players  PlayerDirectory
	notifier Notifier
	recorder ResultRecorder
	clock    clockwork.Clock
	logger   *slog.Logger
	rand     func() *rand.Rand

	turnTimeLimit    time.Duration
	maxMatchDuration time.Duration
	idleTimeout      time.Duration
}

func NewService(cfg Config) *Service {
	s := &Service{
		store:            cfg.Store,
		players:          cfg.Players,
		notifier:         cfg.Notifier,
		recorder:         cfg.Recorder,
		clock:            cfg.Clock,
		logger:           cfg.Logger,
		rand:             cfg.Rand,
		turnTimeLimit:    cfg.TurnTimeLimit,
		maxMatchDuration: cfg.MaxMatchDuration,
		idleTimeout:      cfg.IdleTimeout,
	}
	if s.store == nil {
		s.store = NewMemStore()
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "game")
	if s.rand == nil {
		s.rand = func() *rand.Rand { return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) }
	}
	if s.turnTimeLimit <= 0 {
		s.turnTimeLimit = 60 * time.Second
	}
	if s.maxMatchDuration <= 0 {
		s.maxMatchDuration = 20 * time.Minute
	}
	if s.idleTimeout <= 0 {
		s.idleTimeout = 30 * time.Minute
	}
	return s
}

// txn collects the effects of one transition so they can run after the match
// lock is released.
type txn struct {
	now       time.Time
	events    []Event
	result    *Result
	removed   string
	connected string
}

func (tx *txn) broadcast(room, typ string, payload any) {
	tx.events = append(tx.events, Event{Type: typ, Room: room, Payload: payload})
}

func (tx *txn) send(room, playerID, typ string, payload any) {
	tx.events = append(tx.events, Event{Type: typ, Room: room, PlayerID: playerID, Payload: payload})
}

// Dispatch applies cmd to the match with the given code. Commands for the same
// match are serialized; events are published in transition order once the
// match is unlocked.
func (s *Service) Dispatch(ctx context.Context, code string, cmd Command) (Reply, error) {
	m, ok := s.store.Match(code)
	if !ok {
		return Reply{Reason: ReasonMatchNotFound, JoinStatus: JoinNotFound}, ErrMatchNotFound
	}

	tx := &txn{now: s.clock.Now()}
	m.mu.Lock()
	reply := s.apply(m, cmd, tx)
	m.pubMu.Lock()
	m.mu.Unlock()
	s.publish(ctx, tx.events)
	m.pubMu.Unlock()

	s.settle(ctx, m, tx)
	return reply, nil
}

func (s *Service) publish(ctx context.Context, events []Event) {
	for _, ev := range events {
		ev.ID = uuid.NewString()
		s.notifier.Publish(ctx, ev)
	}
}

// settle runs the side effects of a transition that need no match lock.
func (s *Service) settle(ctx context.Context, m *Match, tx *txn) {
	if (tx.removed != "" || tx.connected != "") && m.PartyCode != "" {
		if p, ok := s.store.Party(m.PartyCode); ok {
			p.mu.Lock()
			if tx.removed != "" {
				p.removeMember(tx.removed)
			}
			if tx.connected != "" {
				p.addMember(tx.connected)
			}
			p.mu.Unlock()
		}
	}

	if tx.result == nil {
		return
	}
	r := *tx.result
	s.logger.Info("match finished", "match", r.Code, "reason", r.Reason, "winner", r.Winner)
	if s.recorder != nil {
		if err := s.recorder.Record(ctx, r); err != nil {
			s.logger.Error("recording match result", "match", r.Code, "error", err)
		}
	}
	if r.PartyCode == "" {
		s.store.DeleteMatch(r.Code)
	}
}

// CreateMatch opens a lobby owned by ownerID.
func (s *Service) CreateMatch(ctx context.Context, ownerID string) (MatchView, error) {
	m, err := s.createMatch(ownerID, "")
	if err != nil {
		return MatchView{}, err
	}
	s.logger.Info("match created", "match", m.Code, "owner", ownerID)

	m.mu.Lock()
	defer m.mu.Unlock()
	return s.view(m), nil
}

func (s *Service) createMatch(ownerID, partyCode string) (*Match, error) {
	nickname, ok := s.players.Lookup(ownerID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	m := s.newMatch(ownerID, partyCode)
	m.Players = []MatchPlayer{{ID: ownerID, Nickname: nickname, Team: sequence.One, IsOwner: true}}
	if err := s.addMatch(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) newMatch(ownerID, partyCode string) *Match {
	now := s.clock.Now()
	return &Match{
		OwnerID:   ownerID,
		PartyCode: partyCode,
		Config: MatchConfig{
			TurnTimeLimitSeconds: int(s.turnTimeLimit / time.Second),
			MaxPlayers:           DefaultMaxPlayers,
		},
		CreatedAt:    now,
		lastActivity: now,
	}
}

func (s *Service) addMatch(m *Match) error {
	for range maxCodeAttempts {
		m.Code = newCode(matchPrefix)
		if s.store.AddMatch(m) {
			return nil
		}
	}
	return ErrCodesExhausted
}

// Match returns a public snapshot of a match.
func (s *Service) Match(code string) (MatchView, error) {
	m, ok := s.store.Match(code)
	if !ok {
		return MatchView{}, ErrMatchNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return s.view(m), nil
}

// MatchState returns playerID's private view of a started match.
func (s *Service) MatchState(code, playerID string) (MatchStatePayload, bool) {
	m, ok := s.store.Match(code)
	if !ok {
		return MatchStatePayload{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.State == nil || m.player(playerID) == nil {
		return MatchStatePayload{}, false
	}
	return statePayload(m, playerID), true
}

func clonePlayers(players []MatchPlayer) []MatchPlayer {
	return slices.Clone(players)
}
