package alerts

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/alertkit/pkg/broadcast"
	"github.com/dmitrymomot/alertkit/pkg/cache"
	"github.com/dmitrymomot/alertkit/pkg/logger"
)

// BroadcastDeliverer delivers alerts to in-process subscribers, one
// broadcaster per principal. Transport layers subscribe with a
// request-scoped context and stream whatever arrives (SSE, WebSocket).
// Broadcasters live in an LRU so an unbounded principal population cannot
// leak channels.
type BroadcastDeliverer struct {
	broadcasters  *cache.LRU[string, broadcast.Broadcaster[Alert]]
	bufferSize    int
	maxPrincipals int
	log           *slog.Logger
	mu            sync.Mutex
}

// BroadcastDelivererOption configures a BroadcastDeliverer.
type BroadcastDelivererOption func(*BroadcastDeliverer)

// WithBroadcastLogger sets the logger for the BroadcastDeliverer.
func WithBroadcastLogger(log *slog.Logger) BroadcastDelivererOption {
	return func(b *BroadcastDeliverer) {
		b.log = log
	}
}

// WithMaxPrincipals bounds the number of per-principal broadcasters kept
// alive. The least recently used one is evicted and closed when the limit
// is hit. Default is 10,000.
func WithMaxPrincipals(limit int) BroadcastDelivererOption {
	return func(b *BroadcastDeliverer) {
		if limit > 0 {
			b.maxPrincipals = limit
		}
	}
}

// NewBroadcastDeliverer creates an in-process fan-out deliverer. The
// bufferSize is the per-subscriber channel buffer.
func NewBroadcastDeliverer(bufferSize int, opts ...BroadcastDelivererOption) *BroadcastDeliverer {
	b := &BroadcastDeliverer{
		bufferSize:    bufferSize,
		maxPrincipals: 10000,
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.broadcasters = cache.NewLRU(b.maxPrincipals,
		cache.WithEvictionCallback(func(principalKey string, br broadcast.Broadcaster[Alert]) {
			if err := br.Close(); err != nil {
				b.log.LogAttrs(context.Background(), slog.LevelError, "failed to close evicted broadcaster",
					logger.PrincipalID(principalKey),
					logger.Error(err),
				)
			}
		}),
	)

	return b
}

func (d *BroadcastDeliverer) Deliver(ctx context.Context, a Alert) error {
	return d.broadcasterFor(a.principalKey()).Broadcast(ctx, broadcast.Message[Alert]{Data: a})
}

func (d *BroadcastDeliverer) DeliverBatch(ctx context.Context, list []Alert) error {
	for _, a := range list {
		if err := d.Deliver(ctx, a); err != nil {
			// One bad alert must not block the rest of the batch.
			d.log.LogAttrs(ctx, slog.LevelError, "failed to broadcast alert",
				logger.AlertID(a.ID),
				logger.PrincipalID(a.principalKey()),
				logger.Error(err),
			)
			continue
		}
	}
	return nil
}

// Subscribe returns a subscriber receiving the principal's alerts in real
// time. The subscription ends when ctx is cancelled.
func (d *BroadcastDeliverer) Subscribe(ctx context.Context, p Principal) broadcast.Subscriber[Alert] {
	return d.broadcasterFor(p.Key()).Subscribe(ctx)
}

// Close closes all per-principal broadcasters.
func (d *BroadcastDeliverer) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Purge invokes the eviction callback, closing each broadcaster.
	d.broadcasters.Purge()
	return nil
}

func (d *BroadcastDeliverer) broadcasterFor(principalKey string) broadcast.Broadcaster[Alert] {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.broadcasters.Get(principalKey)
	if !ok {
		b = broadcast.NewMemory[Alert](d.bufferSize)
		d.broadcasters.Set(principalKey, b)
	}
	return b
}
