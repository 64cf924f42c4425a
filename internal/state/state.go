// Package state keeps the per-user conversation state of the bot between
// updates.
package state

import (
	"context"
	"sync"

	"github.com/ivanoskov/finance_tracker/internal/model"
)

// Store defines the interface for user state persistence
type Store interface {
	// Get returns the state of the user, or nil when there is none
	Get(ctx context.Context, userID int64) (*model.UserState, error)
	Put(ctx context.Context, state *model.UserState) error
	Delete(ctx context.Context, userID int64) error
	Close() error
}

// MemoryStore keeps states in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	states map[int64]model.UserState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[int64]model.UserState)}
}

func (s *MemoryStore) Get(ctx context.Context, userID int64) (*model.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (s *MemoryStore) Put(ctx context.Context, state *model.UserState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.UserID] = *state
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, userID)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
