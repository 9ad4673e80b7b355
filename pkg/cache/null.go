package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. [Open] returns it for the "none" backend and the
// CLI uses it for --no-cache, so every pipeline stage recomputes.
type NullCache struct{}

func NewNullCache() *NullCache {
	return &NullCache{}
}

// Get reports a miss for every key.
func (NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
