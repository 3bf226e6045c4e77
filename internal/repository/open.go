package repository

import (
	"context"
	"fmt"
	"strings"

	"quote-templater/internal/config"
	"quote-templater/internal/redisclient"
)

// Open returns the Store selected by cfg.Store.Backend. The memory backend
// is seeded from cfg.Store.Fixtures when set.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Store.Backend)) {
	case "redis":
		return NewRedisStore(redisclient.New(cfg.Redis)), nil
	case "sqlite":
		return NewSQLiteStore(cfg.Store.SQLite)
	case "memory":
		s := NewMemoryStore()
		if cfg.Store.Fixtures == "" {
			return s, nil
		}
		f, err := LoadFixtures(cfg.Store.Fixtures)
		if err != nil {
			return nil, err
		}
		if err := s.Seed(ctx, f); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (want redis, sqlite or memory)", cfg.Store.Backend)
	}
}
