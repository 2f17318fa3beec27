package alerts

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/alertkit/pkg/cache"
)

// CacheStore keeps alerts in a process-local TTL cache: one entry per
// alert plus index entries (lists of IDs) per principal+kind and per
// principal+kind+type. Entry and index lifetimes are independent, so the
// index is treated as a cache, not a source of truth: a member whose
// target entry has expired reads as absent and is pruned lazily.
//
// Suitable for single-process deployments and as a faithful stand-in for
// the Redis backend in tests.
type CacheStore struct {
	entries *cache.TTL[string, Alert]
	indexes *cache.TTL[string, []string]
	cfg     Config
	mu      sync.Mutex
}

// NewCacheStore creates an in-process cache-backed alert store.
func NewCacheStore(cfg Config) *CacheStore {
	return &CacheStore{
		entries: cache.NewTTL[string, Alert](),
		indexes: cache.NewTTL[string, []string](),
		cfg:     cfg.normalize(),
	}
}

func (s *CacheStore) entryKey(id string) string {
	return s.cfg.KeyPrefix + ":alert:" + id
}

func (s *CacheStore) indexKey(principalKey string, kind Kind) string {
	return s.cfg.KeyPrefix + ":idx:" + principalKey + ":" + string(kind)
}

func (s *CacheStore) typeIndexKey(principalKey string, kind Kind, t Type) string {
	return s.indexKey(principalKey, kind) + ":type:" + string(t)
}

// entryTTL derives the cache lifetime from the alert's expiry, falling
// back to the configured default for alerts that never expire.
func (s *CacheStore) entryTTL(a Alert) time.Duration {
	if a.ExpiresAt != nil {
		return time.Until(*a.ExpiresAt)
	}
	return s.cfg.DefaultTTL
}

func (s *CacheStore) Add(ctx context.Context, a Alert) error {
	ttl := s.entryTTL(a)
	if ttl <= 0 {
		// Born expired: nothing to persist, nothing will ever be read.
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pkey := a.principalKey()
	s.entries.Set(s.entryKey(a.ID), a, ttl)
	s.appendIndex(s.indexKey(pkey, a.Kind), a.ID, ttl)
	s.appendIndex(s.typeIndexKey(pkey, a.Kind, a.Type), a.ID, ttl)

	s.evict(pkey, a.Kind)
	return nil
}

func (s *CacheStore) List(ctx context.Context, p Principal, kind Kind) ([]Alert, error) {
	s.mu.Lock()
	list := s.resolve(s.indexKey(p.Key(), kind))
	s.mu.Unlock()

	list = visibleOnly(list)
	sortForRetrieval(list)
	return list, nil
}

func (s *CacheStore) ListByType(ctx context.Context, p Principal, kind Kind, t Type) ([]Alert, error) {
	s.mu.Lock()
	list := s.resolve(s.typeIndexKey(p.Key(), kind, t))
	s.mu.Unlock()

	list = ofType(visibleOnly(list), t)
	sortForRetrieval(list)
	return list, nil
}

func (s *CacheStore) Clear(ctx context.Context, p Principal, kind Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.indexKey(p.Key(), kind)
	ids, _ := s.indexes.Get(key)
	for _, id := range ids {
		s.entries.Delete(s.entryKey(id))
	}
	s.indexes.Delete(key)
	// Type indexes are left to dangle; reads heal them.
	return nil
}

func (s *CacheStore) ClearByType(ctx context.Context, p Principal, kind Kind, t Type) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pkey := p.Key()
	typeKey := s.typeIndexKey(pkey, kind, t)
	ids, _ := s.indexes.Get(typeKey)
	for _, id := range ids {
		s.entries.Delete(s.entryKey(id))
		s.removeFromIndex(s.indexKey(pkey, kind), id)
	}
	s.indexes.Delete(typeKey)
	return nil
}

func (s *CacheStore) Remove(ctx context.Context, p Principal, kind Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.entries.Get(s.entryKey(id))
	if !ok || a.principalKey() != p.Key() || a.Kind != kind {
		// Unknown or foreign ID: idempotent no-op.
		return nil
	}

	s.entries.Delete(s.entryKey(id))
	s.removeFromIndex(s.indexKey(p.Key(), kind), id)
	s.removeFromIndex(s.typeIndexKey(p.Key(), kind, a.Type), id)
	return nil
}

func (s *CacheStore) Dismiss(ctx context.Context, p Principal, kind Kind, id string) error {
	return s.update(p, kind, id, func(a *Alert) { a.Dismiss() })
}

func (s *CacheStore) MarkRead(ctx context.Context, p Principal, kind Kind, ids ...string) error {
	for _, id := range ids {
		if err := s.update(p, kind, id, func(a *Alert) { a.MarkAsRead() }); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheStore) Flush(ctx context.Context, p Principal, kind Kind) ([]Alert, error) {
	list, err := s.List(ctx, p, kind)
	if err != nil {
		return nil, err
	}
	if err := s.Clear(ctx, p, kind); err != nil {
		return nil, err
	}
	return list, nil
}

// update rewrites a single owned entry in place, preserving its
// expiry-derived lifetime. Unknown or foreign IDs are a no-op.
func (s *CacheStore) update(p Principal, kind Kind, id string, fn func(*Alert)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.entries.Get(s.entryKey(id))
	if !ok || a.principalKey() != p.Key() || a.Kind != kind {
		return nil
	}

	fn(&a)
	if ttl := s.entryTTL(a); ttl > 0 {
		s.entries.Set(s.entryKey(id), a, ttl)
	}
	return nil
}

// resolve maps an index to live alerts, pruning members whose entries
// have expired. Result keeps index (insertion) order.
// Must be called with the lock held.
func (s *CacheStore) resolve(indexKey string) []Alert {
	ids, ok := s.indexes.Get(indexKey)
	if !ok {
		return nil
	}

	live := make([]Alert, 0, len(ids))
	liveIDs := make([]string, 0, len(ids))
	for _, id := range ids {
		a, ok := s.entries.Get(s.entryKey(id))
		if !ok {
			continue // dangling member, dropped below
		}
		live = append(live, a)
		liveIDs = append(liveIDs, id)
	}

	if len(liveIDs) != len(ids) {
		if len(liveIDs) == 0 {
			s.indexes.Delete(indexKey)
		} else {
			s.indexes.Set(indexKey, liveIDs, s.remainingIndexTTL(indexKey))
		}
	}

	return live
}

// evict enforces the partition cap, dropping oldest-inserted entries.
// Must be called with the lock held.
func (s *CacheStore) evict(principalKey string, kind Kind) {
	indexKey := s.indexKey(principalKey, kind)
	live := s.resolve(indexKey)

	limit := s.cfg.capFor(kind)
	if len(live) <= limit {
		return
	}

	for _, victim := range live[:len(live)-limit] {
		s.entries.Delete(s.entryKey(victim.ID))
		s.removeFromIndex(indexKey, victim.ID)
		s.removeFromIndex(s.typeIndexKey(principalKey, kind, victim.Type), victim.ID)
	}
}

// appendIndex adds id to an index, extending the index lifetime so it
// covers the new entry. Index lifetimes only grow: a short-lived add must
// never shorten an index below an entry it still points to.
// Must be called with the lock held.
func (s *CacheStore) appendIndex(key, id string, entryTTL time.Duration) {
	ids, _ := s.indexes.Get(key)
	ttl := max(s.cfg.DefaultTTL, entryTTL)
	if remaining := s.remainingIndexTTL(key); remaining > ttl {
		ttl = remaining
	}
	s.indexes.Set(key, append(ids, id), ttl)
}

// Must be called with the lock held.
func (s *CacheStore) removeFromIndex(key, id string) {
	ids, ok := s.indexes.Get(key)
	if !ok {
		return
	}
	ids = slices.DeleteFunc(ids, func(member string) bool { return member == id })
	if len(ids) == 0 {
		s.indexes.Delete(key)
		return
	}
	s.indexes.Set(key, ids, s.remainingIndexTTL(key))
}

// remainingIndexTTL returns the index's current remaining lifetime, so
// rewrites do not shorten it. Falls back to DefaultTTL.
func (s *CacheStore) remainingIndexTTL(key string) time.Duration {
	if exp, ok := s.indexes.ExpiresAt(key); ok && !exp.IsZero() {
		if remaining := time.Until(exp); remaining > s.cfg.DefaultTTL {
			return remaining
		}
	}
	return s.cfg.DefaultTTL
}
