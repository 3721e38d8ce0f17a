package dao

import (
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
)

// DefaultCacheTTL is the default time-to-live for cached listings.
const DefaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	rows      []any
	timestamp time.Time
}

// ListCache keeps full listings around so that paging and sorting
// a remote dataset does not list it again on every reload.
type ListCache struct {
	data  map[string]cacheEntry
	ttl   time.Duration
	clock clock.Clock
	mx    sync.RWMutex
}

// NewListCache creates a new ListCache with the specified TTL.
func NewListCache(ttl time.Duration, c clock.Clock) *ListCache {
	if c == nil {
		c = clock.NewClock()
	}
	return &ListCache{
		data:  make(map[string]cacheEntry),
		ttl:   ttl,
		clock: c,
	}
}

// Get returns the cached rows for key.
// It reports false if the key is not found or the entry has expired.
func (c *ListCache) Get(key string) ([]any, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	entry, ok := c.data[key]
	if !ok || c.clock.Since(entry.timestamp) > c.ttl {
		return nil, false
	}

	return entry.rows, true
}

// Set stores rows under key.
func (c *ListCache) Set(key string, rows []any) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data[key] = cacheEntry{
		rows:      rows,
		timestamp: c.clock.Now(),
	}
}

// Invalidate removes a specific key from the cache.
func (c *ListCache) Invalidate(key string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	delete(c.data, key)
}
