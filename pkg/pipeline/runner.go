package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/observability"
	"github.com/matzehuels/sankeyflow/pkg/render"
)

// Cache key types reported to observability hooks.
const (
	keyTypeGraph    = "graph"
	keyTypeLayout   = "layout"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → layout → scene → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.Logger.Debug("pipeline options", "opts", opts.String())

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	g, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Graph = g
	result.GraphHash = GraphHash(g)
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.ParseHit = parseHit

	r.Logger.Info("parsed flows",
		"format", opts.Format,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", parseHit,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	geom, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Geometry = geom
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Columns = geom.Payload.Columns
	result.Stats.Crossings = Crossings(g, geom.Payload)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"columns", geom.Payload.Columns,
		"crossings", result.Stats.Crossings,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stages 3 and 4: Scene and Render
	renderStart := time.Now()
	scene, err := r.Scene(geom, opts)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	result.Scene = scene

	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, scene, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse is a convenience wrapper that calls ParseWithCacheInfo and discards the cache hit info.
func (r *Runner) Parse(ctx context.Context, opts Options) (*flow.Graph, error) {
	g, _, err := r.ParseWithCacheInfo(ctx, opts)
	return g, err
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *flow.Graph, opts Options) (*Geometry, error) {
	geom, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return geom, err
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *flow.Graph, scene *render.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, scene, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// lookup reads key and reports the outcome to the cache hooks. Backend
// errors count as misses.
func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
		return data, true
	}
	observability.Cache().OnCacheMiss(ctx, keyType)
	return nil, false
}

// store writes key and reports the write to the cache hooks. Failures are
// logged, never returned: the cache is an optimisation.
func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
