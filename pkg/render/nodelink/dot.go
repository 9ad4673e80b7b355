package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/flow/transform"
	"github.com/matzehuels/sankeyflow/pkg/palette"
	"github.com/matzehuels/sankeyflow/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds throughput and column to node labels and values to
	// edge labels. When false, nodes show their name only.
	Detailed bool

	// Palette colours nodes by ordinal position. Nil means white nodes.
	Palette *palette.Palette
}

// Pen widths are scaled between these bounds by edge value.
const (
	minPenWidth = 1.0
	maxPenWidth = 8.0
)

// ToDOT converts a flow graph to Graphviz DOT format for node-link visualization.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(g *flow.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=\"#9CA3AF\", arrowsize=0.6];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	var columns map[string]int
	if opts.Detailed {
		columns, _ = transform.Columns(g, transform.DefaultAlign)
	}
	for i, n := range g.Nodes() {
		label := fmtLabel(g, *n, columns, opts.Detailed)
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if opts.Palette != nil {
			fill := opts.Palette.NodeColor(i)
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fill))
			if !palette.IsLight(fill) {
				attrs = append(attrs, `fontcolor="white"`)
			}
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	maxValue := 0.0
	for _, e := range g.Edges() {
		maxValue = max(maxValue, e.Value)
	}
	for _, e := range g.Edges() {
		attrs := []string{fmt.Sprintf("penwidth=%.2f", penWidth(e.Value, maxValue))}
		if opts.Detailed {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(e.Value, 'f', -1, 64)))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(g *flow.Graph, n flow.Node, columns map[string]int, detailed bool) string {
	if !detailed {
		return n.Label()
	}
	parts := []string{
		fmt.Sprintf("value: %s", strconv.FormatFloat(g.Throughput(n.ID), 'f', -1, 64)),
		fmt.Sprintf("column: %d", columns[n.ID]),
	}
	return n.Label() + "\n" + strings.Join(parts, "\n")
}

func penWidth(v, maxValue float64) float64 {
	if maxValue <= 0 {
		return minPenWidth
	}
	return minPenWidth + (maxPenWidth-minPenWidth)*v/maxValue
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based root element with one
// whose viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
