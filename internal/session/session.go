// Package session keeps per-client state between requests. Its only
// payload is a queue of one-time flash messages.
package session

import (
	"context"

	"github.com/google/uuid"
)

// Session is the state attached to one client cookie.
type Session struct {
	ID      string
	Flashes []string

	isNew    bool
	modified bool
}

// New returns an empty session with a fresh identifier.
func New() *Session {
	return &Session{ID: uuid.NewString(), isNew: true}
}

// PushFlash queues a message for the next page view.
func (s *Session) PushFlash(msg string) {
	s.Flashes = append(s.Flashes, msg)
	s.modified = true
}

// DrainFlashes returns the queued messages and empties the queue.
func (s *Session) DrainFlashes() []string {
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	s.modified = true
	return out
}

// IsNew reports whether the session has never been saved.
func (s *Session) IsNew() bool { return s.isNew }

// Modified reports whether the session has unsaved changes.
func (s *Session) Modified() bool { return s.modified }

func (s *Session) markSaved() {
	s.isNew = false
	s.modified = false
}

// Store persists sessions by identifier.
type Store interface {
	// Get loads a session. An empty, malformed, expired or unknown id
	// yields a fresh session rather than an error.
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, s *Session) error
}

// validID accepts only identifiers this package could have issued.
func validID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}

// record is the stored form of a session.
type record struct {
	Flashes []string `json:"flashes,omitempty"`
}
