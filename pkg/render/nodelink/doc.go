// Package nodelink renders flow graphs as traditional node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// nodes appear as boxes connected by arrows whose pen width grows with the
// flow they carry. It complements the Sankey scene for debugging inputs:
// the diagram shows every node and edge without any packing or ribbon
// geometry in the way.
//
// # Usage
//
// Convert a flow graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include throughput and column, edge labels
//     show values
//   - Palette: when set, node fills follow the same ordinal colouring as
//     the Sankey renderer
//
// # DOT Format
//
// The generated DOT uses left-to-right layout (rankdir=LR) with rounded box
// nodes, matching the direction in which Sankey diagrams read.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
