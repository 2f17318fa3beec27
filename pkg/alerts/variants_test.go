package alerts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToastService_Defaults(t *testing.T) {
	t.Parallel()

	store := NewCacheStore(DefaultConfig())
	svc := NewToastService(store, DefaultConfig())
	ctx := context.Background()
	p := User("u1")

	a, err := svc.Success(ctx, p, "saved")
	require.NoError(t, err)

	assert.Equal(t, KindToast, a.Kind)
	assert.True(t, a.AutoDismiss)
	assert.Equal(t, 5000, a.AutoDismissDelay)
	assert.Equal(t, "top-right", a.Position)

	t.Run("caller overrides stick", func(t *testing.T) {
		b, err := svc.Info(ctx, p, "note", Options{Position: "bottom-left", AutoDismissDelay: 1000})
		require.NoError(t, err)
		assert.Equal(t, "bottom-left", b.Position)
		assert.Equal(t, 1000, b.AutoDismissDelay)
	})
}

func TestNewModalService_Defaults(t *testing.T) {
	t.Parallel()

	store := NewCacheStore(DefaultConfig())
	svc := NewModalService(store, DefaultConfig())
	ctx := context.Background()
	p := User("u1")

	a, err := svc.Warning(ctx, p, "are you sure?")
	require.NoError(t, err)

	assert.Equal(t, KindModal, a.Kind)
	assert.False(t, a.Dismissible)
	require.Len(t, a.Actions, 1)
	assert.Equal(t, "OK", a.Actions[0].Label)
}

func TestNewModalService_NewestWins(t *testing.T) {
	t.Parallel()

	store := NewCacheStore(DefaultConfig())
	svc := NewModalService(store, DefaultConfig())
	ctx := context.Background()
	p := User("u1")

	_, err := svc.Warning(ctx, p, "first")
	require.NoError(t, err)
	second, err := svc.Warning(ctx, p, "second")
	require.NoError(t, err)

	list, err := svc.List(ctx, p)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second.ID, list[0].ID)
}

func TestNewConfirmModalService_Actions(t *testing.T) {
	t.Parallel()

	store := NewCacheStore(DefaultConfig())
	svc := NewConfirmModalService(store, DefaultConfig())

	a, err := svc.Warning(context.Background(), User("u1"), "delete everything?")
	require.NoError(t, err)

	require.Len(t, a.Actions, 2)
	assert.Equal(t, "Confirm", a.Actions[0].Label)
	assert.Equal(t, "danger", a.Actions[0].Style)
	assert.Equal(t, "Cancel", a.Actions[1].Label)
}

func TestInlineService(t *testing.T) {
	t.Parallel()

	store := NewCacheStore(DefaultConfig())
	svc := NewInlineService(store, DefaultConfig())
	ctx := context.Background()
	p := User("u1")

	_, err := svc.AddTo(ctx, p, "sidebar", TypeInfo, "tip")
	require.NoError(t, err)
	_, err = svc.FieldError(ctx, p, "signup", "email", "email is required")
	require.NoError(t, err)
	_, err = svc.FieldError(ctx, p, "signup", "password", "too short")
	require.NoError(t, err)

	t.Run("field errors are not dismissible", func(t *testing.T) {
		list, err := svc.ListByField(ctx, p, "email")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.False(t, list[0].Dismissible)
		assert.Equal(t, TypeError, list[0].Type)
		assert.Equal(t, "validation", list[0].Context)
	})

	t.Run("list by context", func(t *testing.T) {
		list, err := svc.ListByContext(ctx, p, "sidebar")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "tip", list[0].Message)
	})

	t.Run("list by form", func(t *testing.T) {
		list, err := svc.ListByForm(ctx, p, "signup")
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}
