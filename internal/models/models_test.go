package models

import (
	"net/http"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestDisplayDate(t *testing.T) {
	p := &Paste{CreatedAt: time.Date(2012, 3, 5, 9, 30, 0, 0, time.UTC)}
	assert.Equal(t, "Monday 05. March 2012", p.DisplayDate())

	// A late local time that is already the next day in UTC.
	p.CreatedAt = time.Date(2012, 3, 4, 23, 30, 0, 0, time.FixedZone("X", -2*3600))
	assert.Equal(t, "Monday 05. March 2012", p.DisplayDate())
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", errors.Wrap(ErrNotFound, "get"), http.StatusNotFound},
		{"validation", &ValidationError{Fields: []string{"title"}}, http.StatusBadRequest},
		{"unsupported language", errors.Wrapf(ErrUnsupportedLanguage, "language %q", "x"), http.StatusInternalServerError},
		{"storage", NewStorageError("get", errors.New("connection refused")), http.StatusServiceUnavailable},
		{"wrapped storage", errors.Wrap(NewStorageError("get", errors.New("eof")), "get paste"), http.StatusServiceUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: []string{"content", "title"}}
	assert.EqualError(t, err, "missing required field(s): content, title")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestStorageError(t *testing.T) {
	assert.NoError(t, NewStorageError("get", nil))

	cause := errors.New("timeout")
	err := NewStorageError("put", cause)
	assert.EqualError(t, err, "put: timeout")
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
	assert.True(t, errors.Is(err, cause))
}
