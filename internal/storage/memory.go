package storage

import (
	"context"
	"sync"

	"github.com/johnwmail/lpaste/internal/models"
)

// MemoryStorage keeps pastes in process memory. Contents are lost on restart.
type MemoryStorage struct {
	mu     sync.RWMutex
	pastes map[string]models.Paste
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{pastes: make(map[string]models.Paste)}
}

func (m *MemoryStorage) Create(_ context.Context, p *models.Paste) (string, error) {
	id := newID()
	stored := *p
	stored.ID = id

	m.mu.Lock()
	m.pastes[id] = stored
	m.mu.Unlock()
	return id, nil
}

func (m *MemoryStorage) Get(_ context.Context, id string) (Lookup, error) {
	if !validID(id) {
		return NotFound(), nil
	}

	m.mu.RLock()
	p, ok := m.pastes[id]
	m.mu.RUnlock()
	if !ok {
		return NotFound(), nil
	}
	return Found(&p), nil
}

func (m *MemoryStorage) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.pastes, id)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored pastes.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.pastes)
}

func (m *MemoryStorage) Close() error {
	return nil
}
