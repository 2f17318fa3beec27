package alerts

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/alertkit/pkg/session"
)

type storeConfig struct {
	sessions session.Store
	redis    redis.UniversalClient
	pool     *pgxpool.Pool
}

// StoreOption provides a backend substrate to NewStore.
type StoreOption func(*storeConfig)

// WithSessionStore sets the session store used by the session backend.
// Without it the backend falls back to an in-process store, which only
// suits single-instance deployments.
func WithSessionStore(s session.Store) StoreOption {
	return func(c *storeConfig) {
		c.sessions = s
	}
}

// WithRedisClient sets the client used by the redis backend.
func WithRedisClient(client redis.UniversalClient) StoreOption {
	return func(c *storeConfig) {
		c.redis = client
	}
}

// WithPostgresPool sets the connection pool used by the postgres backend.
func WithPostgresPool(pool *pgxpool.Pool) StoreOption {
	return func(c *storeConfig) {
		c.pool = pool
	}
}

// NewStore builds the store named by cfg.Backend. Every backend enforces
// the same visibility, ordering and eviction rules, so swapping backends
// is a configuration change, not a behavior change.
func NewStore(cfg Config, opts ...StoreOption) (Store, error) {
	cfg = cfg.normalize()

	var sc storeConfig
	for _, opt := range opts {
		opt(&sc)
	}

	switch cfg.Backend {
	case "session":
		sessions := sc.sessions
		if sessions == nil {
			sessions = session.NewMemoryStore(0)
		}
		return NewSessionStore(sessions, cfg), nil
	case "postgres":
		if sc.pool == nil {
			return nil, ErrPostgresPoolRequired
		}
		return NewPostgresStore(sc.pool, cfg), nil
	case "redis":
		if sc.redis == nil {
			return nil, ErrRedisClientRequired
		}
		return NewRedisStore(sc.redis, cfg), nil
	case "cache":
		return NewCacheStore(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
