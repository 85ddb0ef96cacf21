package services

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/johnwmail/lpaste/internal/metrics"
	"github.com/johnwmail/lpaste/internal/models"
	"github.com/johnwmail/lpaste/internal/storage"
)

// PasteService handles paste business logic
type PasteService struct {
	store  storage.Storage
	now    func() time.Time
	logger zerolog.Logger
}

// Option customises a PasteService.
type Option func(*PasteService)

// WithClock overrides the time source used to stamp new pastes.
func WithClock(now func() time.Time) Option {
	return func(s *PasteService) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *PasteService) { s.logger = l }
}

// NewPasteService creates a new paste service
func NewPasteService(store storage.Storage, opts ...Option) *PasteService {
	s := &PasteService{
		store:  store,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePasteRequest carries the submitted form fields, in form order.
type CreatePasteRequest struct {
	Content  string `form:"content"`
	Language string `form:"language"`
	Poster   string `form:"poster"`
	Title    string `form:"title"`
}

// Validate reports every required field that is empty.
func (r CreatePasteRequest) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"content", r.Content},
		{"language", r.Language},
		{"poster", r.Poster},
		{"title", r.Title},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &models.ValidationError{Fields: missing}
	}
	return nil
}

// CreatePaste validates and persists a new paste and returns its id.
func (s *PasteService) CreatePaste(ctx context.Context, req CreatePasteRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	paste := &models.Paste{
		Content:   req.Content,
		Language:  req.Language,
		Poster:    req.Poster,
		Title:     req.Title,
		CreatedAt: s.now().UTC(),
	}

	id, err := s.store.Create(ctx, paste)
	if err != nil {
		return "", errors.Wrap(err, "create paste")
	}

	metrics.PastesCreated.Inc()
	s.logger.Info().
		Str("paste_id", id).
		Str("language", req.Language).
		Int("size", len(req.Content)).
		Msg("paste created")
	return id, nil
}

// GetPaste looks a paste up by id.
func (s *PasteService) GetPaste(ctx context.Context, id string) (storage.Lookup, error) {
	lookup, err := s.store.Get(ctx, id)
	if err != nil {
		return storage.NotFound(), errors.Wrapf(err, "get paste %q", id)
	}
	return lookup, nil
}

// DeletePaste removes the paste if it exists. The returned lookup tells the
// caller whether there was anything to delete.
func (s *PasteService) DeletePaste(ctx context.Context, id string) (storage.Lookup, error) {
	lookup, err := s.GetPaste(ctx, id)
	if err != nil || !lookup.Found() {
		return lookup, err
	}

	if err := s.store.Delete(ctx, lookup.Paste.ID); err != nil {
		return storage.NotFound(), errors.Wrapf(err, "delete paste %q", id)
	}

	metrics.PastesDeleted.Inc()
	s.logger.Info().Str("paste_id", lookup.Paste.ID).Msg("paste deleted")
	return lookup, nil
}
