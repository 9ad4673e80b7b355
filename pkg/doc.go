// Package pkg provides the libraries behind sankeyflow, a layout and
// rendering engine for Sankey flow diagrams.
//
// # Overview
//
// Sankeyflow turns weighted directed graphs into diagrams where nodes sit in
// columns, sized by the flow through them, and links are ribbons whose width
// is proportional to their value. The pkg directory is organized as follows:
//
//  1. [flow] - Graph model, validation and column assignment
//  2. [io] - JSON, CSV and TSV decoding and encoding
//  3. [layout] - Node placement, relaxation and band stacking
//  4. [frame] - Fitting a layout into a host bounding box
//  5. [ribbon], [palette], [render] - Link outlines, colours and output
//  6. [pipeline] - Orchestration (parse → layout → scene → render)
//  7. [cache], [config], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	JSON / CSV / TSV text
//	         ↓
//	    [io] package (decode and validate into a flow.Graph)
//	         ↓
//	    [layout] package (columns, node boxes, link bands)
//	         ↓
//	    [frame] package (optional: scale into a target box)
//	         ↓
//	    [render] package (scene, then SVG/PNG/PDF/JSON/DOT)
//
// # Quick Start
//
// Lay out a CSV file and write an SVG:
//
//	import (
//	    "context"
//	    "os"
//
//	    "github.com/matzehuels/sankeyflow/pkg/pipeline"
//	)
//
//	data, _ := os.ReadFile("flows.csv")
//	opts := pipeline.DefaultOptions()
//	opts.Data = data
//	result, err := pipeline.NewRunner(nil, nil, nil).Execute(context.Background(), opts)
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("flows.svg", result.Artifacts["svg"], 0o644)
//
// Or use the lower-level packages directly:
//
//	g, err := io.Parse(data, io.FormatCSV)
//	payload, err := layout.Compute(g, layout.DefaultConfig())
//	scene, err := render.Build(payload, render.DefaultStyle())
//	svg := sink.RenderSVG(scene)
//
// # Caching
//
// Parse, layout and render results are cached by content hash. Backends are
// a local directory, an in-process LRU, Redis and MongoDB; see [cache.Open].
//
// # Errors
//
// Every user-facing failure carries a code from [errors] (PARSE_ERROR,
// VALIDATION_ERROR, LAYOUT_ERROR, INVALID_INPUT, ...). The CLI prints the
// message and suggestion; the HTTP API maps codes to status codes.
package pkg
