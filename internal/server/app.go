package server

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/johnwmail/lpaste/internal/config"
	"github.com/johnwmail/lpaste/internal/highlight"
	"github.com/johnwmail/lpaste/internal/session"
	"github.com/johnwmail/lpaste/internal/storage"
)

// App is a fully wired lpaste instance.
type App struct {
	Router   *gin.Engine
	Storage  storage.Storage
	Sessions session.Store
}

// NewApp connects the configured backends and builds the router.
func NewApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	store, err := storage.New(ctx, cfg, logger)
	if err != nil {
		return nil, errors.Wrap(err, "initialize storage")
	}

	sessions, err := session.NewStore(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, errors.Wrap(err, "initialize session store")
	}

	renderer := highlight.New(cfg.HighlightStyle)
	if renderer.StyleName() != cfg.HighlightStyle {
		logger.Warn().
			Str("wanted", cfg.HighlightStyle).
			Str("using", renderer.StyleName()).
			Msg("unknown highlight style")
	}

	router, err := NewRouter(Deps{
		Config:   cfg,
		Storage:  store,
		Sessions: sessions,
		Renderer: renderer,
		Logger:   logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &App{Router: router, Storage: store, Sessions: sessions}, nil
}

// Close releases the storage backend and the session store.
func (a *App) Close() error {
	err := a.Storage.Close()
	if c, ok := a.Sessions.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
