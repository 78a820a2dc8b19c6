// Package cache holds rendered catalog responses and drops them by tag when
// the underlying data changes.
package cache

import (
	"context"

	"github.com/dustin/movies-backend/config"
	"github.com/dustin/movies-backend/pkg/logger"
)

// Store is a tag-aware response cache
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, tags ...string) error
	EvictTag(ctx context.Context, tag string) error
	Ping(ctx context.Context) error
	Close() error
}

// New returns a redis-backed store, or a no-op store when no address is configured
func New(cfg *config.CacheConfig, log *logger.Logger) (Store, error) {
	if cfg.Addr == "" {
		log.WithComponent("cache").Info("No redis address configured, response caching disabled")
		return NewNoop(), nil
	}
	return NewRedisStore(cfg, log)
}

type noopStore struct{}

// NewNoop returns a store that never holds anything
func NewNoop() Store {
	return noopStore{}
}

func (noopStore) Get(context.Context, string) ([]byte, bool, error)    { return nil, false, nil }
func (noopStore) Set(context.Context, string, []byte, ...string) error { return nil }
func (noopStore) EvictTag(context.Context, string) error               { return nil }
func (noopStore) Ping(context.Context) error                           { return nil }
func (noopStore) Close() error                                         { return nil }
