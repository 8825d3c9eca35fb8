package selection

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps selections in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]Saved
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]Saved{}, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, clientID string) (Saved, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.items[clientID]
	if !ok {
		return Saved{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Save(_ context.Context, clientID string, s Saved) error {
	s.UpdatedAt = m.now().UTC()
	m.mu.Lock()
	m.items[clientID] = s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, clientID string) error {
	m.mu.Lock()
	delete(m.items, clientID)
	m.mu.Unlock()
	return nil
}
