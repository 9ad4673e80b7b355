package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemorySize is the entry capacity used when none is given.
const DefaultMemorySize = 512

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryCache is a bounded in-process cache. When full, the least recently
// used entry is evicted. It is safe for concurrent use.
type MemoryCache struct {
	entries *lru.Cache[string, memoryEntry]
	now     func() time.Time
}

// NewMemoryCache creates a cache holding at most size entries.
// A non-positive size selects DefaultMemorySize.
func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = DefaultMemorySize
	}
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryCache{entries: entries, now: time.Now}, nil
}

// Get returns a copy of the stored value. Expired entries are evicted.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, ok := c.entries.Get(key)
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		c.entries.Remove(key)
		return nil, false, nil
	}
	return append([]byte(nil), e.data...), true, nil
}

// Set stores a copy of data. A non-positive ttl means no expiry.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := memoryEntry{data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries.Add(key, e)
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.entries.Remove(key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (c *MemoryCache) Len() int {
	return c.entries.Len()
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.entries.Purge()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
