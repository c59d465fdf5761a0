package cache

import "context"

// Cache holds extracted text content by key
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a value with the cache's default TTL
	Set(ctx context.Context, key string, value string)

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string)

	// Clear removes all values from the cache
	Clear(ctx context.Context)
}

// Stats provides statistics about cache usage
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Sets    int64 `json:"sets"`
	Deletes int64 `json:"deletes"`
	Items   int   `json:"items"`
}

// StatsProvider interface for caches that provide statistics
type StatsProvider interface {
	Stats() Stats
}
