package alerts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNoOpDeliverer(t *testing.T) {
	t.Parallel()

	d := NoOpDeliverer{}
	assert.NoError(t, d.Deliver(context.Background(), Alert{}))
	assert.NoError(t, d.DeliverBatch(context.Background(), []Alert{{}, {}}))
}

func TestMultiDeliverer(t *testing.T) {
	t.Parallel()

	t.Run("fans out to all channels", func(t *testing.T) {
		t.Parallel()

		first := new(MockDeliverer)
		second := new(MockDeliverer)
		a := Alert{ID: "a1", UserID: "u1"}

		first.On("Deliver", mock.Anything, a).Return(nil)
		second.On("Deliver", mock.Anything, a).Return(nil)

		m := NewMultiDeliverer([]Deliverer{first, second})
		require.NoError(t, m.Deliver(context.Background(), a))

		first.AssertExpectations(t)
		second.AssertExpectations(t)
	})

	t.Run("one failing channel does not stop the rest", func(t *testing.T) {
		t.Parallel()

		failing := new(MockDeliverer)
		working := new(MockDeliverer)
		a := Alert{ID: "a1", UserID: "u1"}

		failing.On("Deliver", mock.Anything, a).Return(errors.New("smtp down"))
		working.On("Deliver", mock.Anything, a).Return(nil)

		m := NewMultiDeliverer([]Deliverer{failing, working})
		require.NoError(t, m.Deliver(context.Background(), a))

		working.AssertExpectations(t)
	})

	t.Run("batch fan-out survives failures", func(t *testing.T) {
		t.Parallel()

		failing := new(MockDeliverer)
		working := new(MockDeliverer)
		list := []Alert{{ID: "a1"}, {ID: "a2"}}

		failing.On("DeliverBatch", mock.Anything, list).Return(errors.New("down"))
		working.On("DeliverBatch", mock.Anything, list).Return(nil)

		m := NewMultiDeliverer([]Deliverer{failing, working})
		require.NoError(t, m.DeliverBatch(context.Background(), list))

		working.AssertExpectations(t)
	})
}
