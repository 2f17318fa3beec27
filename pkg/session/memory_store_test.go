package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/alertkit/pkg/session"
)

func TestMemoryStore_SaveGet(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	ctx := context.Background()

	sess := session.New("tok-1", nil, time.Hour)
	sess.Set("theme", "dark")
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)

	theme, ok := got.Get("theme")
	require.True(t, ok)
	assert.Equal(t, "dark", theme)
}

func TestMemoryStore_GetUnknownToken(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_GetExpired(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	ctx := context.Background()

	sess := session.New("tok-exp", nil, -time.Minute)
	require.NoError(t, store.Save(ctx, sess))

	_, err := store.Get(ctx, "tok-exp")
	assert.ErrorIs(t, err, session.ErrExpired)
	assert.Equal(t, 0, store.Len(), "expired session should be removed on read")
}

func TestMemoryStore_SaveInvalid(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	ctx := context.Background()

	assert.ErrorIs(t, store.Save(ctx, nil), session.ErrInvalidSession)
	assert.ErrorIs(t, store.Save(ctx, &session.Session{}), session.ErrInvalidSession)
}

func TestMemoryStore_SaveCopiesData(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	ctx := context.Background()

	sess := session.New("tok-copy", nil, time.Hour)
	sess.Set("n", 1)
	require.NoError(t, store.Save(ctx, sess))

	// Mutating the caller's session must not affect the stored copy.
	sess.Set("n", 2)

	got, err := store.Get(ctx, "tok-copy")
	require.NoError(t, err)
	n, _ := got.Get("n")
	assert.Equal(t, 1, n)
}

func TestMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, session.New("tok-del", nil, time.Hour)))
	require.NoError(t, store.Delete(ctx, "tok-del"))
	require.NoError(t, store.Delete(ctx, "tok-del"), "deleting unknown token is a no-op")

	_, err := store.Get(ctx, "tok-del")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	t.Parallel()

	store := session.NewMemoryStore(0)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, session.New("live", nil, time.Hour)))
	require.NoError(t, store.Save(ctx, session.New("dead", nil, -time.Minute)))

	require.NoError(t, store.DeleteExpired(ctx))
	assert.Equal(t, 1, store.Len())
}
