// Package memory provides the in-memory Store (for testing/dev).
package memory

import (
	"context"
	"sync"

	"github.com/grindhub/shift-engine/shift"
)

// Store keeps the state document in process memory. Load returns a deep
// copy so no caller can alias the stored logs.
type Store struct {
	mu    sync.RWMutex
	state shift.State
	saved bool
}

func New() *Store {
	return &Store{}
}

func (m *Store) Load(_ context.Context) (shift.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.saved {
		return shift.State{}, shift.ErrStateNotFound
	}
	return m.state.Clone(), nil
}

func (m *Store) Save(_ context.Context, s shift.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = s.Clone()
	m.saved = true
	return nil
}
