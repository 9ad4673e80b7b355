package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "csv", 128)
	p.OnParseComplete(ctx, "csv", 3, 2, time.Second, nil)
	p.OnLayoutStart(ctx, 3, 2)
	p.OnLayoutComplete(ctx, 2, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "graph")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	// API hooks
	a := NoopAPIHooks{}
	a.OnRequest(ctx, "id", "POST", "/v1/layout")
	a.OnResponse(ctx, "id", "POST", "/v1/layout", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := API().(NoopAPIHooks); !ok {
		t.Error("API() should return NoopAPIHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	counters := NewCounters()
	SetAPIHooks(counters)
	if API() != counters {
		t.Error("SetAPIHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := API().(NoopAPIHooks); !ok {
		t.Error("Reset() should restore NoopAPIHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestCounters(t *testing.T) {
	ctx := context.Background()
	c := NewCounters()

	c.OnCacheHit(ctx, "layout")
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "graph")
	c.OnCacheSet(ctx, "graph", 10)
	c.OnRequest(ctx, "a", "GET", "/healthz")
	c.OnRequest(ctx, "b", "GET", "/healthz")
	c.OnResponse(ctx, "a", "GET", "/healthz", 200, 10*time.Millisecond)
	c.OnResponse(ctx, "b", "GET", "/healthz", 400, 30*time.Millisecond)

	s := c.Snapshot()
	if s.CacheHits["layout"] != 2 || s.CacheMisses["graph"] != 1 || s.CacheWrites["graph"] != 1 {
		t.Errorf("cache counters = %+v", s)
	}
	if s.Requests != 2 || s.Responses[200] != 1 || s.Responses[400] != 1 {
		t.Errorf("api counters = %+v", s)
	}
	if s.MeanLatency != 20*time.Millisecond {
		t.Errorf("MeanLatency = %v, want 20ms", s.MeanLatency)
	}

	// Snapshots are copies.
	s.CacheHits["layout"] = 99
	if c.Snapshot().CacheHits["layout"] != 2 {
		t.Error("Snapshot should not alias internal state")
	}
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
