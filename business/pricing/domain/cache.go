package domain

import (
	"sync"
	"time"
)

// Cache holds the last good quote behind a TTL. A stale quote stays
// readable: callers decide whether staleness matters.
type Cache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	last Quote
	now  func() time.Time
}

// NewCache creates a cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, now: time.Now}
}

// NewCacheWithClock creates a cache using an injectable clock, for tests.
func NewCacheWithClock(ttl time.Duration, now func() time.Time) *Cache {
	return &Cache{ttl: ttl, now: now}
}

// Put stores a quote as the latest known value.
func (c *Cache) Put(q Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = q
}

// Get returns the cached quote if it is still within the TTL.
func (c *Cache) Get() (Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last.Zero() || !c.last.Fresh(c.now(), c.ttl) {
		return Quote{}, false
	}
	return c.last, true
}

// Last returns the most recent quote regardless of freshness.
func (c *Cache) Last() (Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last.Zero() {
		return Quote{}, false
	}
	return c.last, true
}
