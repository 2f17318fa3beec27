package broadcast

import (
	"context"
	"sync"
)

// Memory is an in-process Broadcaster. Messages are fanned out with
// non-blocking sends; a subscriber whose buffer is full misses the message
// and is dropped from the subscriber set. Safe for concurrent use.
type Memory[T any] struct {
	subs    map[*subscription[T]]struct{}
	buffer  int
	closed  bool
	done    chan struct{}
	mu      sync.RWMutex
	cleanup sync.WaitGroup
}

// NewMemory creates an in-memory broadcaster. Each subscriber gets a
// channel buffered to the given size; a minimum of 1 is enforced so sends
// stay non-blocking.
func NewMemory[T any](buffer int) *Memory[T] {
	return &Memory[T]{
		subs:   make(map[*subscription[T]]struct{}),
		buffer: max(buffer, 1),
		done:   make(chan struct{}),
	}
}

// Subscribe registers a subscriber. Cancelling ctx removes it. If the
// broadcaster is already closed, the returned subscriber is closed too.
func (b *Memory[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := newSubscription[T](b.buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		_ = sub.Close()
		return sub
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	if ctx.Done() != nil {
		b.cleanup.Add(1)
		go func() {
			defer b.cleanup.Done()
			select {
			case <-ctx.Done():
				b.drop(sub)
			case <-b.done:
				// Close already shut the subscriber down.
			}
		}()
	}

	return sub
}

// Broadcast delivers msg to every active subscriber. Subscribers that
// cannot keep up are dropped. Always returns nil for the in-memory
// implementation.
func (b *Memory[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	for sub := range b.subs {
		if !sub.deliver(msg) {
			// Dropping asynchronously avoids write-lock contention
			// during the broadcast itself.
			go b.drop(sub)
		}
	}

	return nil
}

// Close shuts down the broadcaster and closes all subscribers. Idempotent.
func (b *Memory[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.done)
	for sub := range b.subs {
		_ = sub.Close()
	}
	clear(b.subs)
	b.mu.Unlock()

	b.cleanup.Wait()
	return nil
}

func (b *Memory[T]) drop(sub *subscription[T]) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
	_ = sub.Close()
}
