// Package pipeline provides the parse → layout → scene → render pipeline
// shared by the CLI and the HTTP API.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Parse: decode JSON, CSV or TSV text into a validated flow graph
//  2. Layout: compute node and band geometry, optionally fitted into a frame
//  3. Scene: resolve colours, shapes, labels and ribbon outlines
//  4. Render: write SVG, PNG, PDF, JSON or Graphviz output
//
// Parse, Layout and Render results are cached through a [cache.Cache].
// Scene building is cheap and never cached.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Data = csvBytes
//	opts.Formats = []string{"svg"}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankeyflow/pkg/cache"
	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow"
	"github.com/matzehuels/sankeyflow/pkg/flow/transform"
	"github.com/matzehuels/sankeyflow/pkg/frame"
	flowio "github.com/matzehuels/sankeyflow/pkg/io"
	"github.com/matzehuels/sankeyflow/pkg/layout"
	"github.com/matzehuels/sankeyflow/pkg/render"
)

// =============================================================================
// Formats
// =============================================================================

// Output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatPDF      = "pdf"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
)

// DefaultPNGScale is the PNG resolution multiplier used when Scale is zero.
const DefaultPNGScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatPDF:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatNodelink: true,
}

// Extension returns the file extension written for an output format.
func Extension(format string) string {
	if format == FormatNodelink {
		return ".nodelink.svg"
	}
	return "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline. It supports JSON
// decoding for API requests; decode into [DefaultOptions] so that absent
// fields keep their defaults.
type Options struct {
	// Parse options
	Data     []byte        `json:"-"`
	Filename string        `json:"filename,omitempty"`
	Format   flowio.Format `json:"format,omitempty"`
	Refresh  bool          `json:"refresh,omitempty"`

	// Layout options
	Layout      layout.Config `json:"layout"`
	Frame       *frame.Target `json:"frame,omitempty"`
	FrameMargin float64       `json:"frame_margin"`

	// Render options
	Formats  []string     `json:"formats,omitempty"`
	Style    render.Style `json:"style"`
	Title    string       `json:"title,omitempty"`
	Scale    float64      `json:"scale,omitempty"`
	Detailed bool         `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns options with every layout and style setting at its
// default and SVG as the only output.
func DefaultOptions() Options {
	return Options{
		Layout:      layout.DefaultConfig(),
		FrameMargin: frame.DefaultMargin,
		Formats:     []string{FormatSVG},
		Style:       render.DefaultStyle(),
	}
}

// Geometry is the output of the layout stage: the payload and, when a
// frame was requested, where it was placed.
type Geometry struct {
	Payload   *layout.Payload
	Placement *frame.Placement
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed flow graph.
	Graph *flow.Graph

	// GraphHash is the content hash of the canonical graph JSON.
	GraphHash string

	// Geometry is the computed (and possibly framed) layout.
	Geometry *Geometry

	// Scene is the styled layout.
	Scene *render.Scene

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Columns    int
	Crossings  int
	ParseTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // Whether the graph came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid output format: %q (must be one of: svg, png, pdf, json, dot, nodelink)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list such as "svg, png" and
// validates each entry.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(s, ",") {
		f := strings.ToLower(strings.TrimSpace(part))
		if f == "" {
			continue
		}
		if err := ValidateFormat(f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse resolves the input format and checks that there is input.
func (o *Options) ValidateForParse() error {
	if len(o.Data) == 0 {
		return errors.Parse("input is empty").
			WithSuggestion("provide a JSON document or CSV/TSV rows with source, target and value columns")
	}
	if o.Format == "" {
		o.Format = flowio.DetectFormat(o.Filename, o.Data)
	} else {
		f, err := flowio.ParseFormat(string(o.Format))
		if err != nil {
			return err
		}
		o.Format = f
	}
	o.setLogger()
	return nil
}

// SetLayoutDefaults fills layout settings that are unset. Width, height and
// node thickness must be positive, so zero means unset; a fully zero
// layout config is replaced by [layout.DefaultConfig].
func (o *Options) SetLayoutDefaults() {
	d := layout.DefaultConfig()
	if o.Layout == (layout.Config{}) {
		o.Layout = d
	}
	if o.Layout.Width == 0 {
		o.Layout.Width = d.Width
	}
	if o.Layout.Height == 0 {
		o.Layout.Height = d.Height
	}
	if o.Layout.NodeThickness == 0 {
		o.Layout.NodeThickness = d.NodeThickness
	}
	if o.Layout.Align == "" {
		o.Layout.Align = d.Align
	}
	o.Layout.Align = transform.Align(strings.ToLower(string(o.Layout.Align)))
	o.setLogger()
}

// ValidateForLayout sets layout defaults and validates layout and frame settings.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	if o.Frame != nil {
		if err := o.Frame.Validate(); err != nil {
			return err
		}
		if o.FrameMargin < 0 || math.IsNaN(o.FrameMargin) || math.IsInf(o.FrameMargin, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "frame margin must be a non-negative number, got %v", o.FrameMargin)
		}
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Style = o.Style.WithDefaults()
	if o.Scale == 0 {
		o.Scale = DefaultPNGScale
	}
	o.setLogger()
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Style.Validate(); err != nil {
		return err
	}
	if o.Scale < 0 || math.IsNaN(o.Scale) || math.IsInf(o.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number, got %v", o.Scale)
	}
	return nil
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	m := o.Layout.Margins
	return cache.LayoutKeyOpts{
		Width:         o.Layout.Width,
		Height:        o.Layout.Height,
		NodeThickness: o.Layout.NodeThickness,
		NodePadding:   o.Layout.NodePadding,
		Margins:       [4]float64{m.Top, m.Right, m.Bottom, m.Left},
		Iterations:    o.Layout.Iterations,
		Align:         string(o.Layout.Align),
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	fingerprint, _ := json.Marshal(struct {
		Style    render.Style `json:"style"`
		Detailed bool         `json:"detailed"`
	}{o.Style, o.Detailed})
	k := cache.ArtifactKeyOpts{
		Format: format,
		Style:  cache.Hash(fingerprint),
		Title:  o.Title,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

// String summarises the options for debug logging.
func (o *Options) String() string {
	return fmt.Sprintf("format=%s size=%vx%v align=%s curve=%s palette=%s outputs=%s",
		o.Format, o.Layout.Width, o.Layout.Height, o.Layout.Align, o.Style.Curve, o.Style.Palette,
		strings.Join(o.Formats, ","))
}
