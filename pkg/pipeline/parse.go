package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/flow"
	flowio "github.com/matzehuels/sankeyflow/pkg/io"
	"github.com/matzehuels/sankeyflow/pkg/observability"
)

// ParseWithCacheInfo decodes opts.Data with caching and returns cache hit info.
// The cache stores the canonical JSON of the graph keyed by a hash of the
// raw input, so the same text in the same format is parsed once.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (*flow.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForParse(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, string(opts.Format), len(opts.Data))
	start := time.Now()

	cacheKey := r.Keyer.GraphKey(cache.Hash(opts.Data), string(opts.Format))

	if !opts.Refresh {
		if data, hit := r.lookup(ctx, keyTypeGraph, cacheKey); hit {
			if g, err := flowio.Parse(data, flowio.FormatJSON); err == nil {
				hooks.OnParseComplete(ctx, string(opts.Format), g.NodeCount(), g.EdgeCount(), time.Since(start), nil)
				return g, true, nil
			}
			r.Logger.Debug("discarding unreadable cached graph", "key", cacheKey)
		}
	}

	g, err := flowio.Parse(opts.Data, opts.Format)
	if err != nil {
		hooks.OnParseComplete(ctx, string(opts.Format), 0, 0, time.Since(start), err)
		return nil, false, err
	}
	hooks.OnParseComplete(ctx, string(opts.Format), g.NodeCount(), g.EdgeCount(), time.Since(start), nil)

	if data, err := flowio.MarshalJSON(g); err == nil {
		r.store(ctx, keyTypeGraph, cacheKey, data, cache.TTLGraph)
	}
	return g, false, nil
}

// GraphHash returns the content hash of the canonical JSON encoding of g.
// Graphs that differ only in insertion order may hash differently.
func GraphHash(g *flow.Graph) string {
	data, err := flowio.MarshalJSON(g)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}
