// Package cache provides a small concurrency-safe expiring cache for
// lookup results.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTL is an expiring cache keyed by string. Entries are dropped lazily
// on access and swept when the cache reaches capacity.
type TTL[V any] struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	items      map[string]entry[V]
}

// NewTTL creates a cache whose entries expire after ttl. maxEntries
// bounds the cache size; when full, expired entries are swept first and
// the soonest-expiring entry is evicted if needed.
func NewTTL[V any](ttl time.Duration, maxEntries int) *TTL[V] {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	return &TTL[V]{
		ttl:        ttl,
		maxEntries: maxEntries,
		items:      make(map[string]entry[V]),
	}
}

// Get returns the cached value for key. Expired entries are removed and
// reported as missing.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		var zero V
		return zero, false
	}
	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		if cur, still := c.items[key]; still && time.Now().After(cur.expiresAt) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key with a fresh expiry.
func (c *TTL[V]) Set(key string, value V) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxEntries {
		c.sweepLocked(now)
		if len(c.items) >= c.maxEntries {
			c.evictSoonestLocked()
		}
	}
	c.items[key] = entry[V]{value: value, expiresAt: now.Add(c.ttl)}
}

// Delete removes key from the cache.
func (c *TTL[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Len returns the number of entries, counting not yet swept expired
// ones.
func (c *TTL[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *TTL[V]) sweepLocked(now time.Time) {
	for key, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, key)
		}
	}
}

func (c *TTL[V]) evictSoonestLocked() {
	var victim string
	var soonest time.Time
	first := true
	for key, e := range c.items {
		if first || e.expiresAt.Before(soonest) {
			victim = key
			soonest = e.expiresAt
			first = false
		}
	}
	if !first {
		delete(c.items, victim)
	}
}
