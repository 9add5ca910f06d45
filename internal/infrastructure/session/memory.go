package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/stockroom-api/internal/domain/billing"
	"github.com/sangkips/stockroom-api/internal/domain/production"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps sessions in process. Sessions are stored encoded so a
// caller mutating a loaded session does not change the stored copy.
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[uuid.UUID]memoryEntry
}

// NewMemoryStore returns a store whose sessions expire ttl after their last
// save. A zero ttl never expires.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[uuid.UUID]memoryEntry),
	}
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*billing.Session, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok || (!e.expiresAt.IsZero() && m.now().After(e.expiresAt)) {
		return nil, ErrNotFound
	}

	var s billing.Session
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, err
	}
	if s.Cart == nil {
		s.Cart = billing.NewCart()
	}
	return &s, nil
}

func (m *MemoryStore) Save(_ context.Context, s *billing.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	e := memoryEntry{data: data}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}

	m.mu.Lock()
	m.entries[s.ID] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

// Sweep drops expired sessions and reports how many were removed.
func (m *MemoryStore) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(m.entries, id)
			removed++
		}
	}
	return removed
}

// MemoryHistory holds one production.History per owner.
type MemoryHistory struct {
	mu      sync.Mutex
	limit   int
	byOwner map[uuid.UUID]*production.History
}

func NewMemoryHistory(limit int) *MemoryHistory {
	return &MemoryHistory{
		limit:   limit,
		byOwner: make(map[uuid.UUID]*production.History),
	}
}

func (m *MemoryHistory) history(owner uuid.UUID) *production.History {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.byOwner[owner]
	if !ok {
		h = production.NewHistory(m.limit)
		m.byOwner[owner] = h
	}
	return h
}

func (m *MemoryHistory) Push(_ context.Context, owner uuid.UUID, calc production.Calculation) error {
	m.history(owner).Record(calc)
	return nil
}

func (m *MemoryHistory) List(_ context.Context, owner uuid.UUID) ([]production.Calculation, error) {
	return m.history(owner).Entries(), nil
}

func (m *MemoryHistory) Clear(_ context.Context, owner uuid.UUID) error {
	m.history(owner).Clear()
	return nil
}
