// Package player keeps the in-memory player registry and signs the tokens
// players use to authenticate.
package player

import (
	"errors"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const MaxNicknameLength = 32

var (
	ErrNotFound        = errors.New("player not found")
	ErrInvalidNickname = errors.New("invalid nickname")
)

type Player struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
}

type Registry struct {
	mu      sync.RWMutex
	players map[string]Player
	rand    *rand.Rand
}

func NewRegistry(r *rand.Rand) *Registry {
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Registry{
		players: make(map[string]Player),
		rand:    r,
	}
}

// Create registers a new player. An empty nickname gets a generated one.
func (r *Registry) Create(nickname string) (Player, error) {
	nickname = strings.TrimSpace(nickname)
	if len(nickname) > MaxNicknameLength {
		return Player{}, ErrInvalidNickname
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if nickname == "" {
		nickname = randomName(r.rand)
	}
	p := Player{ID: uuid.NewString(), Nickname: nickname}
	r.players[p.ID] = p
	return p, nil
}

func (r *Registry) Get(id string) (Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[id]
	if !ok {
		return Player{}, ErrNotFound
	}
	return p, nil
}

func (r *Registry) Exists(id string) bool {
	_, err := r.Get(id)
	return err == nil
}

// Lookup returns the player's nickname.
func (r *Registry) Lookup(id string) (string, bool) {
	p, err := r.Get(id)
	if err != nil {
		return "", false
	}
	return p.Nickname, true
}

func (r *Registry) Rename(id, nickname string) (Player, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" || len(nickname) > MaxNicknameLength {
		return Player{}, ErrInvalidNickname
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.players[id]
	if !ok {
		return Player{}, ErrNotFound
	}
	p.Nickname = nickname
	r.players[id] = p
	return p, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.players)
}
