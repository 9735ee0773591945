package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	index     int
	expiresAt time.Time
}

// MemoryStore is an in-process session store for development and tests
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]entry
	ttl  time.Duration
	now  func() time.Time
}

// NewMemoryStore returns an empty store. A zero ttl keeps entries forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		data: make(map[string]entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) Load(ctx context.Context, key string) (int, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return 0, false, nil
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		delete(m.data, key)
		return 0, false, nil
	}
	return e.index, true, nil
}

func (m *MemoryStore) Save(ctx context.Context, key string, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{index: index}
	if m.ttl > 0 {
		e.expiresAt = m.now().Add(m.ttl)
	}
	m.data[key] = e
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]entry)
	return nil
}
