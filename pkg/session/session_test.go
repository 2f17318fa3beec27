package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/alertkit/pkg/session"
)

func TestNew(t *testing.T) {
	t.Parallel()

	uid := "user-42"
	sess := session.New("tok", &uid, time.Hour)

	require.NotNil(t, sess)
	assert.NotEqual(t, [16]byte{}, [16]byte(sess.ID))
	assert.Equal(t, "tok", sess.Token)
	assert.True(t, sess.IsAuthenticated())
	assert.False(t, sess.IsExpired())
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)
}

func TestSession_Anonymous(t *testing.T) {
	t.Parallel()

	sess := session.New("tok", nil, time.Hour)
	assert.False(t, sess.IsAuthenticated())
}

func TestSession_Expiry(t *testing.T) {
	t.Parallel()

	sess := session.New("tok", nil, -time.Second)
	assert.True(t, sess.IsExpired())
}

func TestSession_DataRoundTrip(t *testing.T) {
	t.Parallel()

	sess := session.New("tok", nil, time.Hour)

	_, ok := sess.Get("missing")
	assert.False(t, ok)

	sess.Set("k", 42)
	v, ok := sess.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)

	sess.Delete("k")
	_, ok = sess.Get("k")
	assert.False(t, ok)
}

func TestSession_NilReceivers(t *testing.T) {
	t.Parallel()

	var sess *session.Session
	assert.False(t, sess.IsAuthenticated())
	assert.False(t, sess.IsExpired())

	_, ok := sess.Get("k")
	assert.False(t, ok)

	// Must not panic.
	sess.Set("k", 1)
	sess.Delete("k")
}
