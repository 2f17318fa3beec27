package alerts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/alertkit/pkg/session"
)

func newSessionStoreForTest(t *testing.T) *SessionStore {
	t.Helper()

	sessions := session.NewMemoryStore(0)
	t.Cleanup(func() { _ = sessions.Close() })
	return NewSessionStore(sessions, DefaultConfig())
}

// addAlert stores one alert for the principal, spacing CreatedAt so
// ordering assertions are deterministic.
func addAlert(t *testing.T, store Store, p Principal, kind Kind, typ Type, message string, offset time.Duration, opts ...Options) Alert {
	t.Helper()

	a := NewAlert(kind, typ, message, mergeOpts(Options{}, opts))
	a.UserID = p.UserID
	a.SessionID = p.SessionID
	a.CreatedAt = a.CreatedAt.Add(offset)
	require.NoError(t, store.Add(context.Background(), a))
	return a
}

func TestSessionStore_AddAndList(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := Anonymous("sess-1")

	first := addAlert(t, store, p, KindAlert, TypeInfo, "first", -2*time.Second)
	second := addAlert(t, store, p, KindAlert, TypeSuccess, "second", -time.Second)

	list, err := store.List(ctx, p, KindAlert)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Equal priority: newest first.
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestSessionStore_ListOrdering(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := User("u1")

	low := addAlert(t, store, p, KindAlert, TypeInfo, "low", -3*time.Second)
	high := addAlert(t, store, p, KindAlert, TypeError, "high", -2*time.Second, Options{Priority: 10})
	mid := addAlert(t, store, p, KindAlert, TypeWarning, "mid", -time.Second, Options{Priority: 5})

	list, err := store.List(ctx, p, KindAlert)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, high.ID, list[0].ID)
	assert.Equal(t, mid.ID, list[1].ID)
	assert.Equal(t, low.ID, list[2].ID)
}

func TestSessionStore_VisibilityFilter(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := User("u1")

	visible := addAlert(t, store, p, KindAlert, TypeInfo, "visible", 0)
	expired := addAlert(t, store, p, KindAlert, TypeInfo, "expired", 0, Options{TTL: 30 * time.Millisecond})
	dismissed := addAlert(t, store, p, KindAlert, TypeInfo, "dismissed", 0)
	require.NoError(t, store.Dismiss(ctx, p, KindAlert, dismissed.ID))

	time.Sleep(50 * time.Millisecond)

	list, err := store.List(ctx, p, KindAlert)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, visible.ID, list[0].ID)
	_ = expired
}

func TestSessionStore_SelfHealingRead(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := User("u1")

	addAlert(t, store, p, KindAlert, TypeInfo, "keep", 0)
	addAlert(t, store, p, KindAlert, TypeInfo, "drop", 0, Options{TTL: 20 * time.Millisecond})

	time.Sleep(40 * time.Millisecond)

	list, err := store.List(ctx, p, KindAlert)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// The pruned list was persisted, so the stored partition holds only
	// the survivor and the next read sees the same single alert.
	sess, err := store.sessions.Get(ctx, p.Key())
	require.NoError(t, err)
	raw, ok := sess.Get(store.key(KindAlert))
	require.True(t, ok)
	assert.Len(t, raw.([]Alert), 1)
}

func TestSessionStore_FIFOEviction(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := User("u1")

	var added []Alert
	for i := 0; i < 7; i++ {
		a := addAlert(t, store, p, KindAlert, TypeInfo, "msg", time.Duration(i)*time.Millisecond)
		added = append(added, a)
	}

	list, err := store.List(ctx, p, KindAlert)
	require.NoError(t, err)
	require.Len(t, list, 5) // MaxAlerts default

	// The two oldest-inserted were evicted.
	survivors := make(map[string]bool, len(list))
	for _, a := range list {
		survivors[a.ID] = true
	}
	assert.False(t, survivors[added[0].ID])
	assert.False(t, survivors[added[1].ID])
	assert.True(t, survivors[added[6].ID])
}

func TestSessionStore_ModalCapIsOne(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := User("u1")

	addAlert(t, store, p, KindModal, TypeWarning, "old modal", -time.Second)
	newest := addAlert(t, store, p, KindModal, TypeWarning, "new modal", 0)

	list, err := store.List(ctx, p, KindModal)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, newest.ID, list[0].ID)
}

func TestSessionStore_KindPartitions(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := User("u1")

	addAlert(t, store, p, KindAlert, TypeInfo, "plain", 0)
	addAlert(t, store, p, KindToast, TypeInfo, "toast", 0)

	alertsList, err := store.List(ctx, p, KindAlert)
	require.NoError(t, err)
	toasts, err := store.List(ctx, p, KindToast)
	require.NoError(t, err)

	assert.Len(t, alertsList, 1)
	assert.Len(t, toasts, 1)
	assert.Equal(t, "plain", alertsList[0].Message)
	assert.Equal(t, "toast", toasts[0].Message)
}

func TestSessionStore_PrincipalIsolation(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()

	addAlert(t, store, User("u1"), KindAlert, TypeInfo, "mine", 0)

	list, err := store.List(ctx, User("u2"), KindAlert)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = store.List(ctx, Anonymous("u1"), KindAlert)
	require.NoError(t, err)
	assert.Empty(t, list, "session scope must not alias user scope")
}

func TestSessionStore_ListByType(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := User("u1")

	addAlert(t, store, p, KindAlert, TypeError, "boom", -time.Second)
	addAlert(t, store, p, KindAlert, TypeInfo, "fyi", 0)

	errs, err := store.ListByType(ctx, p, KindAlert, TypeError)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "boom", errs[0].Message)
}

func TestSessionStore_ClearAndClearByType(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := User("u1")

	addAlert(t, store, p, KindAlert, TypeError, "boom", -time.Second)
	addAlert(t, store, p, KindAlert, TypeInfo, "fyi", 0)

	require.NoError(t, store.ClearByType(ctx, p, KindAlert, TypeError))

	list, err := store.List(ctx, p, KindAlert)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, TypeInfo, list[0].Type)

	require.NoError(t, store.Clear(ctx, p, KindAlert))

	list, err = store.List(ctx, p, KindAlert)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSessionStore_RemoveIdempotent(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := User("u1")

	a := addAlert(t, store, p, KindAlert, TypeInfo, "msg", 0)

	require.NoError(t, store.Remove(ctx, p, KindAlert, a.ID))
	require.NoError(t, store.Remove(ctx, p, KindAlert, a.ID))
	require.NoError(t, store.Remove(ctx, p, KindAlert, "no-such-id"))
	require.NoError(t, store.Remove(ctx, User("nobody"), KindAlert, a.ID))

	list, err := store.List(ctx, p, KindAlert)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestSessionStore_MarkRead(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := User("u1")

	a := addAlert(t, store, p, KindAlert, TypeInfo, "msg", 0)
	require.NoError(t, store.MarkRead(ctx, p, KindAlert, a.ID))

	list, err := store.List(ctx, p, KindAlert)
	require.NoError(t, err)
	require.Len(t, list, 1, "read alerts stay visible")
	assert.NotNil(t, list[0].ReadAt)
}

func TestSessionStore_Flush(t *testing.T) {
	t.Parallel()

	store := newSessionStoreForTest(t)
	ctx := context.Background()
	p := User("u1")

	addAlert(t, store, p, KindAlert, TypeInfo, "one", -time.Second)
	addAlert(t, store, p, KindAlert, TypeError, "two", 0, Options{Priority: 5})

	flushed, err := store.Flush(ctx, p, KindAlert)
	require.NoError(t, err)
	require.Len(t, flushed, 2)
	assert.Equal(t, "two", flushed[0].Message, "flush output is retrieval-ordered")

	list, err := store.List(ctx, p, KindAlert)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Flushing an empty partition is a no-op.
	flushed, err = store.Flush(ctx, p, KindAlert)
	require.NoError(t, err)
	assert.Empty(t, flushed)
}
