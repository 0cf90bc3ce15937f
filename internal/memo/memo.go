// Package memo is an opt-in, caller-owned cache for calculator results.
// The training and duration packages hold no state; callers that want to
// reuse results wrap their calls in Do.
package memo

import (
	"encoding/json"
	"time"

	"github.com/coocood/freecache"
)

// minSize is freecache's own lower bound (512 KiB).
const minSize = 512 * 1024

// Cache stores JSON-encoded results with a fixed TTL. A nil *Cache is valid
// and caches nothing.
type Cache struct {
	c   *freecache.Cache
	ttl int
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int64 `json:"entries"`
}

// New creates a cache of roughly sizeBytes. A non-positive size returns nil,
// which disables caching.
func New(sizeBytes int, ttl time.Duration) *Cache {
	if sizeBytes <= 0 {
		return nil
	}
	return &Cache{
		c:   freecache.NewCache(max(sizeBytes, minSize)),
		ttl: int(ttl / time.Second),
	}
}

// Do returns the cached result for key, or runs compute and caches its result.
// Results that fail to encode are returned but not cached.
func Do[T any](c *Cache, key string, compute func() T) T {
	if c == nil {
		return compute()
	}

	if data, err := c.c.Get([]byte(key)); err == nil {
		var v T
		if err := json.Unmarshal(data, &v); err == nil {
			return v
		}
	}

	v := compute()
	if data, err := json.Marshal(v); err == nil {
		_ = c.c.Set([]byte(key), data, c.ttl)
	}
	return v
}

// Stats returns hit/miss counters. A nil cache reports zeros.
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		Hits:    c.c.HitCount(),
		Misses:  c.c.MissCount(),
		Entries: c.c.EntryCount(),
	}
}

// Clear drops every entry.
func (c *Cache) Clear() {
	if c == nil {
		return
	}
	c.c.Clear()
}
