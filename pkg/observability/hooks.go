// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about pipeline stages, cache lookups and API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the library packages
// stay free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnLayoutStart(ctx, nodes, edges)
//	// ... compute layout ...
//	observability.Pipeline().OnLayoutComplete(ctx, columns, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the parse, layout and render stages.
type PipelineHooks interface {
	// Parse events. size is the input length in bytes.
	OnParseStart(ctx context.Context, format string, size int)
	OnParseComplete(ctx context.Context, format string, nodeCount, edgeCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, nodeCount, edgeCount int)
	OnLayoutComplete(ctx context.Context, columns int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache lookups. keyType is one of
// "graph", "layout" or "artifact".
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// API Hooks
// =============================================================================

// APIHooks receives events from the HTTP API server.
type APIHooks interface {
	// OnRequest records an incoming request before routing.
	OnRequest(ctx context.Context, requestID, method, path string)

	// OnResponse records a completed request. route is the matched pattern.
	OnResponse(ctx context.Context, requestID, method, route string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string, int) {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnLayoutStart(context.Context, int, int)                          {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, int, time.Duration, error)      {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopAPIHooks is a no-op implementation of APIHooks.
type NoopAPIHooks struct{}

func (NoopAPIHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopAPIHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	apiHooks      APIHooks      = NoopAPIHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetAPIHooks registers custom API hooks.
func SetAPIHooks(h APIHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		apiHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// API returns the registered API hooks.
func API() APIHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return apiHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	apiHooks = NoopAPIHooks{}
}
