// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mkweon/paperweb/pkg/types"
)

// Fetcher produces the recommendation list for a key on a cache miss.
type Fetcher func(ctx context.Context, key types.LookupKey, limit int) ([]types.RecommendedPaper, error)

// cacheKey identifies one entry. A hit requires both the lookup key and the
// limit to match exactly: different limits are cached independently, which
// trades memory for a contract that is obviously correct.
type cacheKey struct {
	key   types.LookupKey
	limit int
}

type cacheEntry struct {
	value     []types.RecommendedPaper
	expiresAt time.Time
}

// Cache is a time-bounded memoization layer in front of the rate-limited
// upstream recommendation call. Expiry is checked lazily on every read, so
// correctness never depends on the background sweep running. Concurrent
// misses for the same (key, limit) are collapsed into one upstream fetch.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]cacheEntry

	group singleflight.Group
	ttl   time.Duration

	// now is the clock; tests substitute it to exercise expiry.
	now func() time.Time
}

// NewCache returns a Cache with the given TTL. A non-positive TTL falls
// back to one hour.
func NewCache(cfg types.CacheConfig) *Cache {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		entries: make(map[cacheKey]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetOrFetch returns the cached list for (key, limit) or calls fetch and
// stores the result with the configured TTL from the moment of storage.
// An expired entry is treated as absent and refreshed. Fetch errors are
// never cached and propagate to the caller unchanged; a waiter always
// observes either a live cached value or a fresh fetch, never a value past
// its expiry.
func (c *Cache) GetOrFetch(ctx context.Context, key types.LookupKey, limit int, fetch Fetcher) ([]types.RecommendedPaper, error) {
	ck := cacheKey{key: key, limit: limit}

	if value, ok := c.lookup(ck); ok {
		return value, nil
	}

	flightKey := fmt.Sprintf("%s|%d", key, limit)
	v, err, _ := c.group.Do(flightKey, func() (any, error) {
		// Re-check under the flight: a concurrent caller may have
		// stored the value while this one was waiting its turn.
		if value, ok := c.lookup(ck); ok {
			return value, nil
		}

		value, err := fetch(ctx, key, limit)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[ck] = cacheEntry{value: value, expiresAt: c.now().Add(c.ttl)}
		c.mu.Unlock()
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]types.RecommendedPaper), nil
}

// lookup returns a live entry, removing it when expired.
func (c *Cache) lookup(ck cacheKey) ([]types.RecommendedPaper, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[ck]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expiresAt) {
		delete(c.entries, ck)
		return nil, false
	}
	return entry.value, true
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear removes all entries and returns how many were removed.
func (c *Cache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[cacheKey]cacheEntry)
	return n
}

// Sweep removes entries past their expiry and returns how many were
// removed. Removing an already-expired or already-removed entry is a no-op,
// so Sweep is safe to run at any time.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for ck, entry := range c.entries {
		if !now.Before(entry.expiresAt) {
			delete(c.entries, ck)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled. The sweep
// is an optimization that bounds memory; reads stay correct without it.
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.Sweep()
			}
		}
	}()
}
