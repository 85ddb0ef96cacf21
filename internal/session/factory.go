package session

import (
	"context"
	"fmt"

	"github.com/johnwmail/lpaste/internal/config"
)

// NewStore creates the session backend named by the configuration.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.SessionStore {
	case "memory":
		return NewMemoryStore(cfg.SessionCacheSize, cfg.SessionTTL)
	case "redis":
		s, err := NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s (supported: memory, redis)", cfg.SessionStore)
	}
}
