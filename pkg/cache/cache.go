// Package cache provides the TTL key/value store that deduplicates repeated
// transform expansions. It is an injected dependency of the executor so tests
// can substitute a fresh, isolated instance per case.
package cache

import (
	"sync"
	"time"
)

// TTLCache is a thread-safe key/value store with per-entry expiry.
type TTLCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	hits    uint64
	misses  uint64

	// now is replaceable in tests to step through TTL expiry.
	now func() time.Time
}

type entry struct {
	value     any
	expiresAt time.Time
}

// New creates an empty TTL cache.
func New() *TTLCache {
	return &TTLCache{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// NewWithClock creates a cache whose notion of time comes from clock.
func NewWithClock(clock func() time.Time) *TTLCache {
	c := New()
	c.now = clock
	return c
}

// Get retrieves a value. An expired entry counts as a miss and is dropped.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, exists := c.entries[key]
	if !exists {
		c.misses++
		return nil, false
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		c.misses++
		return nil, false
	}
	c.hits++
	return e.value, true
}

// Set stores a value with the given time to live. Overwriting an existing
// key is idempotent with respect to correctness: the same key always holds
// the same or newer data for the same underlying fact.
func (c *TTLCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{
		value:     value,
		expiresAt: c.now().Add(ttl),
	}
}

// Len returns the number of stored entries, including not-yet-evicted
// expired ones.
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns cumulative hit and miss counts.
func (c *TTLCache) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Purge removes all expired entries.
func (c *TTLCache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}
