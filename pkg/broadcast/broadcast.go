package broadcast

import (
	"context"
	"sync"
)

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
// Implementations must be safe for concurrent use.
type Subscriber[T any] interface {
	// Receive returns the channel delivering broadcast messages. The
	// channel is closed when the subscriber is closed.
	Receive(ctx context.Context) <-chan Message[T]

	// Close releases the subscription. Idempotent.
	Close() error
}

// Broadcaster sends messages to multiple subscribers. Implementations
// should drop messages for slow consumers rather than block.
type Broadcaster[T any] interface {
	// Subscribe registers a new subscriber. The subscription is cleaned
	// up automatically when ctx is cancelled.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast delivers msg to all active subscribers, best effort.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Close shuts down the broadcaster and all its subscribers.
	Close() error
}

type subscription[T any] struct {
	ch        chan Message[T]
	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func newSubscription[T any](buffer int) *subscription[T] {
	return &subscription[T]{ch: make(chan Message[T], buffer)}
}

func (s *subscription[T]) Receive(ctx context.Context) <-chan Message[T] {
	return s.ch
}

func (s *subscription[T]) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()
	})
	return nil
}

// deliver attempts a non-blocking send. Returns false when the subscriber
// is closed or its buffer is full.
func (s *subscription[T]) deliver(msg Message[T]) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return false
	}

	select {
	case s.ch <- msg:
		return true
	default:
		return false
	}
}
