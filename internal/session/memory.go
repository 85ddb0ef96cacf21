package session

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

type memoryEntry struct {
	rec     record
	expires time.Time
}

// MemoryStore keeps a bounded number of sessions in process memory. The
// least recently used session is evicted when the store is full. Contents
// are lost on restart.
type MemoryStore struct {
	cache *lru.Cache[string, memoryEntry]
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore creates a store holding at most size sessions, each
// expiring ttl after it was last saved.
func NewMemoryStore(size int, ttl time.Duration) (*MemoryStore, error) {
	if size <= 0 {
		return nil, errors.New("session cache size must be positive")
	}
	c, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, errors.Wrap(err, "create session cache")
	}
	return &MemoryStore{cache: c, ttl: ttl, now: time.Now}, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	if !validID(id) {
		return New(), nil
	}
	e, ok := m.cache.Get(id)
	if !ok {
		return New(), nil
	}
	if m.now().After(e.expires) {
		m.cache.Remove(id)
		return New(), nil
	}
	return &Session{ID: id, Flashes: append([]string(nil), e.rec.Flashes...)}, nil
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.cache.Add(s.ID, memoryEntry{
		rec:     record{Flashes: append([]string(nil), s.Flashes...)},
		expires: m.now().Add(m.ttl),
	})
	s.markSaved()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, s *Session) error {
	m.cache.Remove(s.ID)
	return nil
}

// Len returns the number of sessions currently held.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}
