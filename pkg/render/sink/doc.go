// Package sink writes scenes in the supported output formats.
//
// [RenderSVG] is the reference renderer: links first, then node boxes, then
// labels, so labels are never covered by ribbons. PNG and PDF are produced
// from the SVG with rsvg-convert (see [render.ToPNG] and [render.ToPDF]).
// [RenderJSON] emits the scene itself for renderers in other environments.
//
// Every renderer is a pure function of the scene and its options and is
// safe to call concurrently.
//
// [render.ToPNG]: github.com/matzehuels/sankeyflow/pkg/render.ToPNG
// [render.ToPDF]: github.com/matzehuels/sankeyflow/pkg/render.ToPDF
package sink
