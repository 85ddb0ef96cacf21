package storage

import (
	"context"

	"github.com/johnwmail/lpaste/internal/models"
)

// Lookup is the outcome of fetching a paste by id. A malformed id and an
// unknown id both produce a Lookup that is not Found.
type Lookup struct {
	Paste *models.Paste
}

// Found reports whether the lookup located a paste.
func (l Lookup) Found() bool {
	return l.Paste != nil
}

// Found wraps p in a successful Lookup.
func Found(p *models.Paste) Lookup {
	return Lookup{Paste: p}
}

// NotFound is the empty Lookup.
func NotFound() Lookup {
	return Lookup{}
}

// Storage defines the interface for paste storage backends. Every error
// returned by an implementation matches models.ErrStorageUnavailable.
type Storage interface {
	// Create persists a new paste and returns its generated ID. The ID field
	// of p is ignored.
	Create(ctx context.Context, p *models.Paste) (string, error)

	// Get retrieves a paste by ID
	Get(ctx context.Context, id string) (Lookup, error)

	// Delete removes a paste by ID. Deleting a missing paste is not an error.
	Delete(ctx context.Context, id string) error

	// Close closes the storage backend
	Close() error
}
