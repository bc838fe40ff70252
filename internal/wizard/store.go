package wizard

import (
	"context"
	"sync"
)

// AccountStore persists wizard accounts keyed by user id. Concurrent saves
// for the same user are last-write-wins.
type AccountStore interface {
	// GetOrCreate returns the stored account, creating an empty one when
	// the user is unknown.
	GetOrCreate(ctx context.Context, user int) (*Wizard, error)
	// Save writes the account back.
	Save(ctx context.Context, w *Wizard) error
}

// MemStore is an in-memory AccountStore used by tests and dev runs.
type MemStore struct {
	mu      sync.Mutex
	wizards map[int]*Wizard
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{wizards: make(map[int]*Wizard)}
}

func (s *MemStore) GetOrCreate(_ context.Context, user int) (*Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if w, ok := s.wizards[user]; ok {
		return w, nil
	}
	w := New(user)
	s.wizards[user] = w
	return w, nil
}

func (s *MemStore) Save(_ context.Context, w *Wizard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizards[w.ID] = w
	return nil
}
