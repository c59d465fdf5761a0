package cache

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is an in-process Cache with per-entry expiry
type MemoryCache struct {
	items *gocache.Cache

	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64
}

// NewMemoryCache creates a cache whose entries expire after ttl.
// A non-positive ttl keeps entries until they are deleted.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		return &MemoryCache{items: gocache.New(gocache.NoExpiration, 0)}
	}
	return &MemoryCache{items: gocache.New(ttl, ttl*2)}
}

// Get retrieves a value from the cache
func (mc *MemoryCache) Get(ctx context.Context, key string) (string, bool) {
	value, ok := mc.items.Get(key)
	if !ok {
		mc.misses.Add(1)
		return "", false
	}
	mc.hits.Add(1)
	return value.(string), true
}

// Set stores a value in the cache
func (mc *MemoryCache) Set(ctx context.Context, key string, value string) {
	mc.items.Set(key, value, gocache.DefaultExpiration)
	mc.sets.Add(1)
}

// Delete removes a value from the cache
func (mc *MemoryCache) Delete(ctx context.Context, key string) {
	mc.items.Delete(key)
	mc.deletes.Add(1)
}

// Clear removes all values from the cache
func (mc *MemoryCache) Clear(ctx context.Context) {
	mc.items.Flush()
}

// Stats returns cache statistics
func (mc *MemoryCache) Stats() Stats {
	return Stats{
		Hits:    mc.hits.Load(),
		Misses:  mc.misses.Load(),
		Sets:    mc.sets.Load(),
		Deletes: mc.deletes.Load(),
		Items:   mc.items.ItemCount(),
	}
}
