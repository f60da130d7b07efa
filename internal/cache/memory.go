package cache

import (
	"context"
	"healthassistant/internal/models"
	"sync"
	"time"
)

type memoryEntry struct {
	state   models.ConversationState
	expires time.Time
}

// MemoryStore is the single-process ConversationStore used when REDIS_URL is unset.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, userID string) (*models.ConversationState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[userID]
	if !ok {
		return nil, nil
	}
	if m.ttl > 0 && m.now().After(e.expires) {
		delete(m.entries, userID)
		return nil, nil
	}
	state := e.state
	return &state, nil
}

func (m *MemoryStore) Set(_ context.Context, state *models.ConversationState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[state.UserID] = memoryEntry{state: *state, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
	return nil
}
