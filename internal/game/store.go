package game

import "sync"

// Store holds the live matches and parties of the process.
type Store interface {
	Match(code string) (*Match, bool)
	// AddMatch stores m unless its code is taken.
	AddMatch(m *Match) bool
	DeleteMatch(code string)
	Matches() []*Match

	Party(code string) (*Party, bool)
	AddParty(p *Party) bool
	DeleteParty(code string)
	Parties() []*Party
}

// MemStore is an in-memory Store.
type MemStore struct {
	mu      sync.RWMutex
	matches map[string]*Match
	parties map[string]*Party
}

func NewMemStore() *MemStore {
	return &MemStore{
		matches: make(map[string]*Match),
		parties: make(map[string]*Party),
	}
}

func (s *MemStore) Match(code string) (*Match, bool) {
	s.mu.RLock()
	m, ok := s.matches[code]
	s.mu.RUnlock()
	return m, ok
}

func (s *MemStore) AddMatch(m *Match) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.matches[m.Code]; ok {
		return false
	}
	s.matches[m.Code] = m
	return true
}

func (s *MemStore) DeleteMatch(code string) {
	s.mu.Lock()
	delete(s.matches, code)
	s.mu.Unlock()
}

func (s *MemStore) Matches() []*Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m)
	}
	return out
}

func (s *MemStore) Party(code string) (*Party, bool) {
	s.mu.RLock()
	p, ok := s.parties[code]
	s.mu.RUnlock()
	return p, ok
}

func (s *MemStore) AddParty(p *Party) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.parties[p.Code]; ok {
		return false
	}
	s.parties[p.Code] = p
	return true
}

func (s *MemStore) DeleteParty(code string) {
	s.mu.Lock()
	delete(s.parties, code)
	s.mu.Unlock()
}

func (s *MemStore) Parties() []*Party {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Party, 0, len(s.parties))
	for _, p := range s.parties {
		out = append(out, p)
	}
	return out
}
