package alerts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one JSON value per alert with a TTL derived from its
// expiry, plus SET indexes per principal+kind and per principal+kind+type
// and a ZSET priority index. Index members and alert values expire
// independently, so reads must tolerate dangling members: a member whose
// value key is gone reads as absent and is pruned lazily.
type RedisStore struct {
	client redis.UniversalClient
	cfg    Config
}

// NewRedisStore creates a Redis-backed alert store.
func NewRedisStore(client redis.UniversalClient, cfg Config) *RedisStore {
	return &RedisStore{
		client: client,
		cfg:    cfg.normalize(),
	}
}

func (s *RedisStore) entryKey(id string) string {
	return s.cfg.KeyPrefix + ":alert:" + id
}

func (s *RedisStore) indexKey(principalKey string, kind Kind) string {
	return s.cfg.KeyPrefix + ":idx:" + principalKey + ":" + string(kind)
}

func (s *RedisStore) typeIndexKey(principalKey string, kind Kind, t Type) string {
	return s.indexKey(principalKey, kind) + ":type:" + string(t)
}

func (s *RedisStore) priorityIndexKey(principalKey string, kind Kind) string {
	return s.indexKey(principalKey, kind) + ":priority"
}

func (s *RedisStore) entryTTL(a Alert) time.Duration {
	if a.ExpiresAt != nil {
		return time.Until(*a.ExpiresAt)
	}
	return s.cfg.DefaultTTL
}

// indexTTL returns the lifetime for index keys covering an entry with the
// given TTL: at least DefaultTTL, extended so an index never expires
// before an entry it points to.
func (s *RedisStore) indexTTL(entryTTL time.Duration) time.Duration {
	return max(s.cfg.DefaultTTL, entryTTL)
}

func (s *RedisStore) Add(ctx context.Context, a Alert) error {
	ttl := s.entryTTL(a)
	if ttl <= 0 {
		// Born expired: nothing to persist, nothing will ever be read.
		return nil
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	pkey := a.principalKey()
	indexKey := s.indexKey(pkey, a.Kind)
	typeKey := s.typeIndexKey(pkey, a.Kind, a.Type)

	// NX seeds the lifetime of a fresh index; GT extends it when this
	// entry outlives the current one. Together they keep index lifetimes
	// monotone, so a later short-lived add can never shorten an index
	// below an entry it still points to.
	indexTTL := s.indexTTL(ttl)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.entryKey(a.ID), payload, ttl)
		pipe.SAdd(ctx, indexKey, a.ID)
		pipe.ExpireNX(ctx, indexKey, indexTTL)
		pipe.ExpireGT(ctx, indexKey, indexTTL)
		pipe.SAdd(ctx, typeKey, a.ID)
		pipe.ExpireNX(ctx, typeKey, indexTTL)
		pipe.ExpireGT(ctx, typeKey, indexTTL)
		if a.Priority > 0 {
			priorityKey := s.priorityIndexKey(pkey, a.Kind)
			pipe.ZAdd(ctx, priorityKey, redis.Z{Score: float64(a.Priority), Member: a.ID})
			pipe.ExpireNX(ctx, priorityKey, indexTTL)
			pipe.ExpireGT(ctx, priorityKey, indexTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("store alert in redis: %w", err)
	}

	return s.evict(ctx, pkey, a.Kind)
}

func (s *RedisStore) List(ctx context.Context, p Principal, kind Kind) ([]Alert, error) {
	list, err := s.resolveIndex(ctx, s.indexKey(p.Key(), kind))
	if err != nil {
		return nil, err
	}

	list = visibleOnly(list)
	sortForRetrieval(list)
	return list, nil
}

func (s *RedisStore) ListByType(ctx context.Context, p Principal, kind Kind, t Type) ([]Alert, error) {
	list, err := s.resolveIndex(ctx, s.typeIndexKey(p.Key(), kind, t))
	if err != nil {
		return nil, err
	}

	list = ofType(visibleOnly(list), t)
	sortForRetrieval(list)
	return list, nil
}

// ListByMinPriority returns visible alerts whose priority is at least the
// given threshold, resolved through the priority ZSET index.
func (s *RedisStore) ListByMinPriority(ctx context.Context, p Principal, kind Kind, minPriority int) ([]Alert, error) {
	priorityKey := s.priorityIndexKey(p.Key(), kind)

	ids, err := s.client.ZRangeByScore(ctx, priorityKey, &redis.ZRangeBy{
		Min: strconv.Itoa(minPriority),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("read priority index: %w", err)
	}

	list, err := s.fetch(ctx, priorityKey, ids, func(indexKey, id string) {
		s.client.ZRem(ctx, indexKey, id)
	})
	if err != nil {
		return nil, err
	}

	list = visibleOnly(list)
	sortForRetrieval(list)
	return list, nil
}

func (s *RedisStore) Clear(ctx context.Context, p Principal, kind Kind) error {
	pkey := p.Key()
	indexKey := s.indexKey(pkey, kind)

	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return fmt.Errorf("read alert index: %w", err)
	}

	keys := make([]string, 0, len(ids)+2)
	for _, id := range ids {
		keys = append(keys, s.entryKey(id))
	}
	keys = append(keys, indexKey, s.priorityIndexKey(pkey, kind))

	// Type indexes are left to dangle; reads heal them.
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear alerts: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearByType(ctx context.Context, p Principal, kind Kind, t Type) error {
	pkey := p.Key()
	typeKey := s.typeIndexKey(pkey, kind, t)

	ids, err := s.client.SMembers(ctx, typeKey).Result()
	if err != nil {
		return fmt.Errorf("read alert type index: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ids {
			pipe.Del(ctx, s.entryKey(id))
			pipe.SRem(ctx, s.indexKey(pkey, kind), id)
			pipe.ZRem(ctx, s.priorityIndexKey(pkey, kind), id)
		}
		pipe.Del(ctx, typeKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("clear alerts by type: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, p Principal, kind Kind, id string) error {
	a, found, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	pkey := p.Key()
	if !found {
		// The value is gone but the ID may still dangle in the indexes.
		_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SRem(ctx, s.indexKey(pkey, kind), id)
			pipe.ZRem(ctx, s.priorityIndexKey(pkey, kind), id)
			return nil
		})
		if err != nil {
			return fmt.Errorf("prune alert index: %w", err)
		}
		return nil
	}

	if a.principalKey() != pkey || a.Kind != kind {
		// Foreign ID: idempotent no-op.
		return nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.entryKey(id))
		pipe.SRem(ctx, s.indexKey(pkey, kind), id)
		pipe.SRem(ctx, s.typeIndexKey(pkey, kind, a.Type), id)
		pipe.ZRem(ctx, s.priorityIndexKey(pkey, kind), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("remove alert: %w", err)
	}
	return nil
}

func (s *RedisStore) Dismiss(ctx context.Context, p Principal, kind Kind, id string) error {
	return s.update(ctx, p, kind, id, func(a *Alert) { a.Dismiss() })
}

func (s *RedisStore) MarkRead(ctx context.Context, p Principal, kind Kind, ids ...string) error {
	for _, id := range ids {
		if err := s.update(ctx, p, kind, id, func(a *Alert) { a.MarkAsRead() }); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) Flush(ctx context.Context, p Principal, kind Kind) ([]Alert, error) {
	list, err := s.List(ctx, p, kind)
	if err != nil {
		return nil, err
	}
	if err := s.Clear(ctx, p, kind); err != nil {
		return nil, err
	}
	return list, nil
}

// get fetches and unmarshals a single alert value. A missing key is not
// an error.
func (s *RedisStore) get(ctx context.Context, id string) (Alert, bool, error) {
	payload, err := s.client.Get(ctx, s.entryKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Alert{}, false, nil
		}
		return Alert{}, false, fmt.Errorf("read alert: %w", err)
	}

	var a Alert
	if err := json.Unmarshal(payload, &a); err != nil {
		return Alert{}, false, fmt.Errorf("unmarshal alert: %w", err)
	}
	return a, true, nil
}

// update rewrites a single owned value in place, keeping its remaining TTL.
func (s *RedisStore) update(ctx context.Context, p Principal, kind Kind, id string, fn func(*Alert)) error {
	a, found, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !found || a.principalKey() != p.Key() || a.Kind != kind {
		return nil
	}

	fn(&a)

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	if err := s.client.Set(ctx, s.entryKey(id), payload, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("update alert: %w", err)
	}
	return nil
}

// resolveIndex maps a SET index to live alerts, pruning dangling members.
func (s *RedisStore) resolveIndex(ctx context.Context, indexKey string) ([]Alert, error) {
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read alert index: %w", err)
	}

	return s.fetch(ctx, indexKey, ids, func(indexKey, id string) {
		s.client.SRem(ctx, indexKey, id)
	})
}

// fetch bulk-loads alert values for the given IDs. Members whose value
// key has vanished are treated as absent and pruned from the index via
// the prune callback, best effort.
func (s *RedisStore) fetch(ctx context.Context, indexKey string, ids []string, prune func(indexKey, id string)) ([]Alert, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.entryKey(id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("read alerts: %w", err)
	}

	list := make([]Alert, 0, len(values))
	for i, value := range values {
		if value == nil {
			prune(indexKey, ids[i])
			continue
		}

		raw, ok := value.(string)
		if !ok {
			continue
		}

		var a Alert
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			// Corrupted value; drop it rather than failing the read.
			prune(indexKey, ids[i])
			continue
		}
		list = append(list, a)
	}

	return list, nil
}

// evict enforces the partition cap after an insert, removing the
// oldest-created alerts first.
func (s *RedisStore) evict(ctx context.Context, principalKey string, kind Kind) error {
	indexKey := s.indexKey(principalKey, kind)
	live, err := s.resolveIndex(ctx, indexKey)
	if err != nil {
		return err
	}

	limit := s.cfg.capFor(kind)
	if len(live) <= limit {
		return nil
	}

	oldestFirst(live)
	victims := live[:len(live)-limit]

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, victim := range victims {
			pipe.Del(ctx, s.entryKey(victim.ID))
			pipe.SRem(ctx, indexKey, victim.ID)
			pipe.SRem(ctx, s.typeIndexKey(principalKey, kind, victim.Type), victim.ID)
			pipe.ZRem(ctx, s.priorityIndexKey(principalKey, kind), victim.ID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("evict alerts: %w", err)
	}
	return nil
}
