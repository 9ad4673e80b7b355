package layout

import (
	"math"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/flow/transform"
)

// Default layout settings.
const (
	DefaultWidth         = 800
	DefaultHeight        = 600
	DefaultNodeThickness = 15
	DefaultNodePadding   = 10
	DefaultIterations    = 6

	// MaxIterations bounds the relaxation rounds a caller may request.
	MaxIterations = 1000
)

// DefaultMargins keeps room for labels on the right-hand side.
var DefaultMargins = Margins{Top: 30, Right: 40, Bottom: 30, Left: 30}

// Margins is the empty space between the frame and the diagram extent.
type Margins struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// Config controls [Compute].
type Config struct {
	Width         float64         `json:"width"`
	Height        float64         `json:"height"`
	NodeThickness float64         `json:"node_thickness"`
	NodePadding   float64         `json:"node_padding"`
	Margins       Margins         `json:"margins"`
	Iterations    int             `json:"iterations"`
	Align         transform.Align `json:"align,omitempty"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Height:        DefaultHeight,
		NodeThickness: DefaultNodeThickness,
		NodePadding:   DefaultNodePadding,
		Margins:       DefaultMargins,
		Iterations:    DefaultIterations,
		Align:         transform.DefaultAlign,
	}
}

// Extent returns the usable area [x0, y0] to [x1, y1] inside the margins.
func (c Config) Extent() (x0, y0, x1, y1 float64) {
	return c.Margins.Left, c.Margins.Top, c.Width - c.Margins.Right, c.Height - c.Margins.Bottom
}

// Validate reports the first unusable setting as an INVALID_INPUT error.
func (c Config) Validate() error {
	for _, d := range []struct {
		name string
		v    float64
	}{
		{"width", c.Width},
		{"height", c.Height},
		{"node thickness", c.NodeThickness},
	} {
		if err := errors.ValidateDimension(d.name, d.v); err != nil {
			return err
		}
	}
	if c.NodePadding < 0 || math.IsNaN(c.NodePadding) || math.IsInf(c.NodePadding, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "node padding must be a non-negative number, got %v", c.NodePadding)
	}
	m := c.Margins
	for _, v := range []float64{m.Top, m.Right, m.Bottom, m.Left} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "margins must be non-negative numbers, got %+v", m)
		}
	}
	x0, y0, x1, y1 := c.Extent()
	if x1-x0 <= c.NodeThickness {
		return errors.New(errors.ErrCodeInvalidInput,
			"width %v leaves no room for nodes after margins (%v left, %v right) and node thickness %v",
			c.Width, m.Left, m.Right, c.NodeThickness)
	}
	if y1 <= y0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"height %v leaves no room after margins (%v top, %v bottom)", c.Height, m.Top, m.Bottom)
	}
	if c.Iterations < 0 || c.Iterations > MaxIterations {
		return errors.New(errors.ErrCodeInvalidInput, "iterations must be between 0 and %d, got %d", MaxIterations, c.Iterations)
	}
	if c.Align != "" && !transform.ValidAligns[c.Align] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid align: %q (must be one of: justify, left, right, center)", c.Align)
	}
	return nil
}
