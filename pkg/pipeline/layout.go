package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/flow/transform"
	"github.com/matzehuels/sankeyflow/pkg/frame"
	"github.com/matzehuels/sankeyflow/pkg/layout"
	"github.com/matzehuels/sankeyflow/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// LayoutWithCacheInfo computes the layout of g with caching and returns
// cache hit info. The unframed payload is cached; the frame adapter runs
// after the lookup so one cached layout serves every frame size.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *flow.Graph, opts Options) (*Geometry, bool, error) {
	if g == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "graph is nil")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, g.NodeCount(), g.EdgeCount())
	start := time.Now()

	cacheKey := r.Keyer.LayoutKey(GraphHash(g), opts.LayoutKeyOpts())

	var (
		payload *layout.Payload
		hit     bool
	)
	if !opts.Refresh {
		if data, ok := r.lookup(ctx, keyTypeLayout, cacheKey); ok {
			var cached layout.Payload
			if err := json.Unmarshal(data, &cached); err == nil && cached.Validate() == nil {
				payload, hit = &cached, true
			} else {
				r.Logger.Debug("discarding unreadable cached layout", "key", cacheKey)
			}
		}
	}

	if payload == nil {
		p, err := layout.Compute(g, opts.Layout)
		if err != nil {
			hooks.OnLayoutComplete(ctx, 0, time.Since(start), err)
			return nil, false, err
		}
		payload = p
		if data, err := json.Marshal(p); err == nil {
			r.store(ctx, keyTypeLayout, cacheKey, data, cache.TTLLayout)
		}
	}

	geom, err := applyFrame(payload, opts)
	hooks.OnLayoutComplete(ctx, payload.Columns, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	return geom, hit, nil
}

// ComputeLayout runs the layout stage without a runner or cache.
func ComputeLayout(g *flow.Graph, opts Options) (*Geometry, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, err
	}
	p, err := layout.Compute(g, opts.Layout)
	if err != nil {
		return nil, err
	}
	return applyFrame(p, opts)
}

func applyFrame(p *layout.Payload, opts Options) (*Geometry, error) {
	if opts.Frame == nil {
		return &Geometry{Payload: p}, nil
	}
	framed, placement, err := frame.Apply(p, *opts.Frame, opts.FrameMargin)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug("applied frame",
		"target", opts.Frame,
		"scale", placement.Scale,
		"offset_x", placement.OffsetX,
		"offset_y", placement.OffsetY)
	return &Geometry{Payload: framed, Placement: &placement}, nil
}

// Crossings counts link crossings between adjacent columns of p.
func Crossings(g *flow.Graph, p *layout.Payload) int {
	return transform.CountCrossings(g, p.ColumnOrder())
}
