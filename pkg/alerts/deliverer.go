package alerts

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/alertkit/pkg/logger"
)

// Deliverer fans a freshly stored alert out to a secondary channel
// (WebSocket bridge, push service, email digester). Delivery is always
// best effort: the alert is persisted before delivery is attempted, and a
// delivery failure never fails the add.
type Deliverer interface {
	// Deliver pushes one alert to the channel.
	Deliver(ctx context.Context, a Alert) error

	// DeliverBatch pushes multiple alerts.
	DeliverBatch(ctx context.Context, list []Alert) error
}

// NoOpDeliverer is a Deliverer that does nothing. Used when no secondary
// channel is configured.
type NoOpDeliverer struct{}

func (NoOpDeliverer) Deliver(ctx context.Context, a Alert) error           { return nil }
func (NoOpDeliverer) DeliverBatch(ctx context.Context, list []Alert) error { return nil }

// MultiDeliverer fans out to several channels, logging and skipping the
// ones that fail.
type MultiDeliverer struct {
	deliverers []Deliverer
	log        *slog.Logger
}

// MultiDelivererOption configures a MultiDeliverer.
type MultiDelivererOption func(*MultiDeliverer)

// WithMultiDelivererLogger sets the logger for the MultiDeliverer.
func WithMultiDelivererLogger(log *slog.Logger) MultiDelivererOption {
	return func(m *MultiDeliverer) {
		m.log = log
	}
}

// NewMultiDeliverer creates a deliverer that fans out to all the given
// channels.
func NewMultiDeliverer(deliverers []Deliverer, opts ...MultiDelivererOption) *MultiDeliverer {
	m := &MultiDeliverer{
		deliverers: deliverers,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *MultiDeliverer) Deliver(ctx context.Context, a Alert) error {
	for i, d := range m.deliverers {
		if err := d.Deliver(ctx, a); err != nil {
			m.log.LogAttrs(ctx, slog.LevelError, "failed to deliver alert",
				logger.AlertID(a.ID),
				logger.PrincipalID(a.principalKey()),
				slog.Int("deliverer_index", i),
				logger.Error(err),
			)
			continue
		}
	}
	return nil
}

func (m *MultiDeliverer) DeliverBatch(ctx context.Context, list []Alert) error {
	for i, d := range m.deliverers {
		if err := d.DeliverBatch(ctx, list); err != nil {
			m.log.LogAttrs(ctx, slog.LevelError, "failed to deliver alert batch",
				logger.Count(len(list)),
				slog.Int("deliverer_index", i),
				logger.Error(err),
			)
			continue
		}
	}
	return nil
}
