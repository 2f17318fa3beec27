// Package cache provides small generic in-process caches.
//
// LRU is a bounded cache that evicts the least recently used entry when
// full. TTL is an unbounded cache whose entries expire after a per-entry
// duration, pruned lazily on access.
//
// Both caches are safe for concurrent use.
package cache
