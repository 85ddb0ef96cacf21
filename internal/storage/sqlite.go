package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/johnwmail/lpaste/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS pastes (
	id         TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	language   TEXT NOT NULL,
	poster     TEXT NOT NULL,
	title      TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_pastes_created_at ON pastes(created_at);
`

// SQLiteStorage implements Storage on a local SQLite database file.
type SQLiteStorage struct {
	db      *sql.DB
	timeout time.Duration
}

// NewSQLiteStorage opens (and if needed creates) the database at path.
func NewSQLiteStorage(ctx context.Context, path string, timeout time.Duration, logger zerolog.Logger) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open db")
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxIdleTime(10 * time.Minute)

	initCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.PingContext(initCtx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping db")
	}
	if _, err := db.ExecContext(initCtx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}

	logger.Info().Str("path", path).Msg("using sqlite storage")
	return &SQLiteStorage{db: db, timeout: timeout}, nil
}

func (s *SQLiteStorage) Create(ctx context.Context, p *models.Paste) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	id := newID()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pastes (id, content, language, poster, title, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, p.Content, p.Language, p.Poster, p.Title, p.CreatedAt.UTC().UnixNano(),
	)
	if err != nil {
		return "", models.NewStorageError("sqlite insert", err)
	}
	return id, nil
}

func (s *SQLiteStorage) Get(ctx context.Context, id string) (Lookup, error) {
	if !validID(id) {
		return NotFound(), nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		p         models.Paste
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, language, poster, title, created_at FROM pastes WHERE id = ?`, id,
	).Scan(&p.ID, &p.Content, &p.Language, &p.Poster, &p.Title, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return NotFound(), nil
	}
	if err != nil {
		return NotFound(), models.NewStorageError("sqlite select", err)
	}

	p.CreatedAt = time.Unix(0, createdAt).UTC()
	return Found(&p), nil
}

func (s *SQLiteStorage) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `DELETE FROM pastes WHERE id = ?`, id)
	return models.NewStorageError("sqlite delete", err)
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
