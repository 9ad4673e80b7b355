package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/observability"
	"github.com/matzehuels/sankeyflow/pkg/palette"
	"github.com/matzehuels/sankeyflow/pkg/render"
	"github.com/matzehuels/sankeyflow/pkg/render/nodelink"
	"github.com/matzehuels/sankeyflow/pkg/render/sink"
)

// Scene styles the layout. Scenes are cheap to build and not cached.
func (r *Runner) Scene(geom *Geometry, opts Options) (*render.Scene, error) {
	return BuildScene(geom, opts)
}

// BuildScene styles geom without a runner.
func BuildScene(geom *Geometry, opts Options) (*render.Scene, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	s, err := render.Build(geom.Payload, opts.Style)
	if err != nil {
		return nil, err
	}
	s.Placement = geom.Placement
	return s, nil
}

// RenderWithCacheInfo writes every requested format with caching and
// returns cache hit info. The hit flag is true only when all formats came
// from cache; otherwise everything is rendered again.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *flow.Graph, scene *render.Scene, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	sceneData, err := json.Marshal(scene)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			data, hit := r.lookup(ctx, keyTypeArtifact, key)
			if !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered, err := RenderFormats(ctx, g, scene, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, keyTypeArtifact, key, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// RenderFormats writes scene in each of opts.Formats. The dot and nodelink
// formats draw the graph g instead of the scene.
func RenderFormats(ctx context.Context, g *flow.Graph, scene *render.Scene, opts Options) (map[string][]byte, error) {
	var svgOpts []sink.SVGOption
	if opts.Title != "" {
		svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(scene, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(scene, sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOpts...))
		case FormatPDF:
			data, err = sink.RenderPDF(scene, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(scene)
		case FormatDOT:
			data, err = renderDOT(g, opts)
		case FormatNodelink:
			data, err = renderNodelink(ctx, g, opts)
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func nodelinkOptions(opts Options) (nodelink.Options, error) {
	pal, err := palette.Resolve(opts.Style.Palette, opts.Style.Colors)
	if err != nil {
		return nodelink.Options{}, err
	}
	return nodelink.Options{Detailed: opts.Detailed, Palette: &pal}, nil
}

func renderDOT(g *flow.Graph, opts Options) ([]byte, error) {
	nl, err := nodelinkOptions(opts)
	if err != nil {
		return nil, err
	}
	return []byte(nodelink.ToDOT(g, nl)), nil
}

func renderNodelink(ctx context.Context, g *flow.Graph, opts Options) ([]byte, error) {
	nl, err := nodelinkOptions(opts)
	if err != nil {
		return nil, err
	}
	return nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nl))
}
