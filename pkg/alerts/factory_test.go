package alerts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/alertkit/pkg/session"
)

func TestNewStore(t *testing.T) {
	t.Parallel()

	t.Run("session is the default backend", func(t *testing.T) {
		t.Parallel()

		store, err := NewStore(Config{})
		require.NoError(t, err)
		assert.IsType(t, &SessionStore{}, store)
	})

	t.Run("session backend uses the provided substrate", func(t *testing.T) {
		t.Parallel()

		sessions := session.NewMemoryStore(0)
		t.Cleanup(func() { _ = sessions.Close() })

		store, err := NewStore(Config{Backend: "session"}, WithSessionStore(sessions))
		require.NoError(t, err)

		// Alerts written through the store land in the shared substrate.
		a := NewAlert(KindAlert, TypeInfo, "hello", Options{})
		a.UserID = "u1"
		require.NoError(t, store.Add(context.Background(), a))
		assert.Equal(t, 1, sessions.Len())
	})

	t.Run("cache backend", func(t *testing.T) {
		t.Parallel()

		store, err := NewStore(Config{Backend: "cache"})
		require.NoError(t, err)
		assert.IsType(t, &CacheStore{}, store)
	})

	t.Run("redis backend requires a client", func(t *testing.T) {
		t.Parallel()

		_, err := NewStore(Config{Backend: "redis"})
		assert.ErrorIs(t, err, ErrRedisClientRequired)
	})

	t.Run("postgres backend requires a pool", func(t *testing.T) {
		t.Parallel()

		_, err := NewStore(Config{Backend: "postgres"})
		assert.ErrorIs(t, err, ErrPostgresPoolRequired)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Parallel()

		_, err := NewStore(Config{Backend: "mongodb"})
		assert.ErrorIs(t, err, ErrUnknownBackend)
		assert.Contains(t, err.Error(), "mongodb")
	})
}
