package storage

import (
	"github.com/google/uuid"
)

// newID generates the opaque identifier used by the uuid-keyed backends.
func newID() string {
	return uuid.NewString()
}

// validID reports whether id is a canonical uuid as produced by newID.
func validID(id string) bool {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return false
	}
	return parsed.String() == id
}
