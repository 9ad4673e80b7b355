// Package render turns a computed layout into a fully styled scene.
//
// # Overview
//
// A [Scene] is the geometry payload enriched with everything a renderer
// needs and nothing it has to compute: per node a fill colour, a shape
// class and a label position; per link a fill colour, an opacity, optional
// gradient stops and a closed outline with its SVG path data. Renderers in
// [sink] draw scenes as SVG, PNG, PDF or JSON.
//
//	p, _ := layout.Compute(g, layout.DefaultConfig())
//	scene, err := render.Build(p, render.DefaultStyle())
//	svg := sink.RenderSVG(scene)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). They are shared by the
// Sankey sinks and the [nodelink] renderer.
//
// [sink]: github.com/matzehuels/sankeyflow/pkg/render/sink
// [nodelink]: github.com/matzehuels/sankeyflow/pkg/render/nodelink
package render
