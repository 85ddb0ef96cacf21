package models

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound            = NewErr("NOT_FOUND", "paste not found", http.StatusNotFound)
	ErrValidation          = NewErr("VALIDATION_ERROR", "missing required field", http.StatusBadRequest)
	ErrUnsupportedLanguage = NewErr("UNSUPPORTED_LANGUAGE", "unsupported language", http.StatusInternalServerError)
	ErrStorageUnavailable  = NewErr("STORAGE_UNAVAILABLE", "storage unavailable", http.StatusServiceUnavailable)
)

// Err is a classified application error carrying the HTTP status it maps to.
type Err struct {
	Code   string
	Msg    string
	Status int
}

func (e *Err) Error() string { return e.Msg }

func NewErr(code, msg string, status int) *Err {
	return &Err{Code: code, Msg: msg, Status: status}
}

// ValidationError lists the required form fields that were missing or empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field(s): %s", strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StorageError wraps a backend failure. It matches ErrStorageUnavailable.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError returns nil when err is nil.
func NewStorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorageUnavailable }

// Status maps err to an HTTP status code. Unclassified errors are 500.
func Status(err error) int {
	var e *Err
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &e):
		return e.Status
	case errors.Is(err, ErrValidation):
		return ErrValidation.Status
	case errors.Is(err, ErrStorageUnavailable):
		return ErrStorageUnavailable.Status
	}
	return http.StatusInternalServerError
}
