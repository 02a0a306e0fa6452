package session

import (
	"context"
	"sync"

	"github.com/warteg-pro/api/internal/state"
)

// MemoryStore keeps slots in process memory. Used in development and tests.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string][]byte)}
}

func (m *MemoryStore) Save(_ context.Context, user state.User) error {
	b, err := encode(user)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.slots[Key(user.ID)] = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(_ context.Context, userID string) (state.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.slots[Key(userID)]
	if !ok {
		return state.User{}, false, nil
	}
	u, ok := decode(raw, userID)
	if !ok {
		delete(m.slots, Key(userID))
	}
	return u, ok, nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.slots, Key(userID))
	m.mu.Unlock()
	return nil
}

// Put writes a raw slot value.
func (m *MemoryStore) Put(userID string, raw []byte) {
	m.mu.Lock()
	m.slots[Key(userID)] = raw
	m.mu.Unlock()
}
