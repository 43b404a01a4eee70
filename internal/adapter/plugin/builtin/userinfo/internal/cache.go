package internal

import (
	"sync"
	"time"

	"github.com/kiosk404/mahiro-adapter/internal/adapter/plugin/builtin/userinfo/entity"
)

// DefaultTTL is the validity window for cached user records.
const DefaultTTL = 10 * time.Minute

// Cache is an in-memory TTL cache for user records, keyed by user ID.
//
// Expiry is lazy: there is no background sweeper. A stale entry costs at
// most one extra fetch on the next lookup. Concurrent misses for the same
// user may both fetch and both write; last write wins, which is acceptable
// for best-effort cache semantics.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
}

// cacheEntry wraps a UserRecord with the time it was stored.
// The entry is valid while now - storedAt < ttl.
type cacheEntry struct {
	record   *entity.UserRecord
	storedAt time.Time
}

// NewCache creates an empty cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return NewCacheWithClock(ttl, time.Now)
}

// NewCacheWithClock creates a cache with an injected clock. Used by tests
// to control expiry without sleeping.
func NewCacheWithClock(ttl time.Duration, now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the cached record for userID if it is still fresh.
// An expired entry is removed and reported as absent, forcing a refetch.
func (c *Cache) Get(userID string) (*entity.UserRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		delete(c.entries, userID)
		return nil, false
	}
	return e.record, true
}

// Put stores a record for userID, unconditionally overwriting any prior
// entry and stamping the current time. Expired entries for other users
// are swept opportunistically.
func (c *Cache) Put(userID string, record *entity.UserRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[userID] = cacheEntry{record: record, storedAt: now}

	for id, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, id)
		}
	}
}

// Sweep removes all expired entries and returns how many were removed.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for id, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, id)
			removed++
		}
	}
	return removed
}

// Clear drops all entries. Called on plugin teardown.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of entries currently held, including any that
// have expired but not yet been swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
