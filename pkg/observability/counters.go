package observability

import (
	"context"
	"sync"
	"time"
)

// Counters is an in-memory CacheHooks and APIHooks implementation that
// tallies events. The API server exposes a snapshot at /v1/stats.
type Counters struct {
	mu        sync.Mutex
	hits      map[string]int64
	misses    map[string]int64
	writes    map[string]int64
	requests  int64
	responses map[int]int64
	latency   time.Duration
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	CacheHits   map[string]int64 `json:"cache_hits"`
	CacheMisses map[string]int64 `json:"cache_misses"`
	CacheWrites map[string]int64 `json:"cache_writes"`
	Requests    int64            `json:"requests"`
	Responses   map[int]int64    `json:"responses"`
	MeanLatency time.Duration    `json:"mean_latency_ns"`
}

// NewCounters returns zeroed counters.
func NewCounters() *Counters {
	return &Counters{
		hits:      make(map[string]int64),
		misses:    make(map[string]int64),
		writes:    make(map[string]int64),
		responses: make(map[int]int64),
	}
}

func (c *Counters) OnCacheHit(_ context.Context, keyType string) {
	c.mu.Lock()
	c.hits[keyType]++
	c.mu.Unlock()
}

func (c *Counters) OnCacheMiss(_ context.Context, keyType string) {
	c.mu.Lock()
	c.misses[keyType]++
	c.mu.Unlock()
}

func (c *Counters) OnCacheSet(_ context.Context, keyType string, _ int) {
	c.mu.Lock()
	c.writes[keyType]++
	c.mu.Unlock()
}

func (c *Counters) OnRequest(context.Context, string, string, string) {
	c.mu.Lock()
	c.requests++
	c.mu.Unlock()
}

func (c *Counters) OnResponse(_ context.Context, _, _, _ string, status int, d time.Duration) {
	c.mu.Lock()
	c.responses[status]++
	c.latency += d
	c.mu.Unlock()
}

// Snapshot copies the current totals.
func (c *Counters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		CacheHits:   copyMap(c.hits),
		CacheMisses: copyMap(c.misses),
		CacheWrites: copyMap(c.writes),
		Requests:    c.requests,
		Responses:   copyMap(c.responses),
	}
	var done int64
	for _, n := range c.responses {
		done += n
	}
	if done > 0 {
		s.MeanLatency = c.latency / time.Duration(done)
	}
	return s
}

func copyMap[K comparable](m map[K]int64) map[K]int64 {
	out := make(map[K]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var (
	_ CacheHooks = (*Counters)(nil)
	_ APIHooks   = (*Counters)(nil)
)
