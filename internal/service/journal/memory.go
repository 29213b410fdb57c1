package journal

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps entries in process memory. Returned entries are copies.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

func (m *MemoryStore) Create(_ context.Context, params CreateParams) (*Entry, error) {
	ts := now()
	e := &Entry{
		ID:        uuid.NewString(),
		Work:      params.Work,
		Struggle:  params.Struggle,
		Intention: params.Intention,
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	out := *e
	return &out, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *e
	return &out, nil
}

func (m *MemoryStore) List(_ context.Context) ([]*Entry, error) {
	m.mu.RLock()
	out := make([]*Entry, 0, len(m.entries))
	for _, e := range m.entries {
		c := *e
		out = append(out, &c)
	}
	m.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

func (m *MemoryStore) Update(_ context.Context, id string, params UpdateParams) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	params.apply(e)
	e.UpdatedAt = now()
	out := *e
	return &out, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) DeleteAll(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.entries)
	m.entries = make(map[string]*Entry)
	return n, nil
}

func (m *MemoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
