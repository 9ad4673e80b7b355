// Package cache stores intermediate pipeline results: parsed graphs, layout
// payloads and rendered artifacts.
//
// Entries are opaque byte slices addressed by string keys built by a [Keyer].
// Several backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [MemoryCache]: bounded in-process LRU (API server default)
//   - [RedisCache]: shared Redis instance
//   - [MongoCache]: MongoDB collection with a TTL index
//   - [NullCache]: stores nothing
//
// Use [Open] to construct a backend from [Options].
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry kind.
const (
	TTLGraph    = 24 * time.Hour
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a key/value store with per-entry expiry.
//
// Get reports a miss as (nil, false, nil). Errors are reserved for backend
// failures; callers in the pipeline treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
