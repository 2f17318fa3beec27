package cache

import (
	"sync"
	"time"
)

type ttlItem[V any] struct {
	value     V
	expiresAt time.Time // zero means no expiry
}

func (i ttlItem[V]) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// TTL is a thread-safe cache whose entries expire after a per-entry
// duration. Expired entries are pruned lazily: a Get past the deadline
// behaves as a miss and removes the entry.
type TTL[K comparable, V any] struct {
	items map[K]ttlItem[V]
	now   func() time.Time
	mu    sync.RWMutex
}

// TTLOption configures a TTL cache.
type TTLOption[K comparable, V any] func(*TTL[K, V])

// WithClock overrides the time source. Intended for tests.
func WithClock[K comparable, V any](now func() time.Time) TTLOption[K, V] {
	return func(c *TTL[K, V]) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTTL creates an empty TTL cache.
func NewTTL[K comparable, V any](opts ...TTLOption[K, V]) *TTL[K, V] {
	c := &TTL[K, V]{
		items: make(map[K]ttlItem[V]),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value for key if present and not expired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}

	if item.expired(c.now()) {
		c.mu.Lock()
		// Re-check under write lock; a Set may have replaced the entry.
		if current, still := c.items[key]; still && current.expired(c.now()) {
			delete(c.items, key)
		}
		c.mu.Unlock()

		var zero V
		return zero, false
	}

	return item.value, true
}

// ExpiresAt returns the expiry of the live entry for key. The zero time
// means the entry never expires; ok is false when the key is absent or
// already expired.
func (c *TTL[K, V]) ExpiresAt(key K) (time.Time, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || item.expired(c.now()) {
		return time.Time{}, false
	}
	return item.expiresAt, true
}

// Set stores value under key. A non-positive ttl means the entry never
// expires.
func (c *TTL[K, V]) Set(key K, value V, ttl time.Duration) {
	item := ttlItem[V]{value: value}
	if ttl > 0 {
		item.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
}

// Delete removes the entry for key, returning true if a live entry existed.
func (c *TTL[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, ok := c.items[key]
	if !ok {
		return false
	}
	delete(c.items, key)
	return !item.expired(c.now())
}

// Len returns the number of live entries, pruning expired ones.
func (c *TTL[K, V]) Len() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, item := range c.items {
		if item.expired(now) {
			delete(c.items, key)
		}
	}
	return len(c.items)
}

// Purge removes all entries.
func (c *TTL[K, V]) Purge() {
	c.mu.Lock()
	c.items = make(map[K]ttlItem[V])
	c.mu.Unlock()
}
