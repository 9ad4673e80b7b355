// Package frame fits a computed layout into an externally supplied box.
//
// The host decides where a diagram goes; [Apply] receives that box as an
// explicit [Target] and never consults any ambient state. Scaling is uniform
// so the aspect ratio of the layout is preserved, and the scaled layout is
// centred inside the box. Relative geometry is untouched: no re-layout
// happens.
package frame

import (
	"math"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/layout"
)

// DefaultMargin is the gap kept between the box border and the diagram.
const DefaultMargin = 15

// Target is the bounding box to fit into. X and Y locate the box in the
// host's coordinate space and are carried through to [Placement].
type Target struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
}

// Validate rejects boxes without a positive, finite size.
func (t Target) Validate() error {
	if err := errors.ValidateDimension("frame width", t.Width); err != nil {
		return err
	}
	if err := errors.ValidateDimension("frame height", t.Height); err != nil {
		return err
	}
	if math.IsNaN(t.X) || math.IsInf(t.X, 0) || math.IsNaN(t.Y) || math.IsInf(t.Y, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "frame position must be finite, got (%v, %v)", t.X, t.Y)
	}
	return nil
}

// Placement describes how a layout maps into a target box: a point (x, y)
// of the layout lands at (x*Scale + OffsetX, y*Scale + OffsetY) in box-local
// coordinates, and the box itself sits at (FrameX, FrameY).
type Placement struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	FrameX  float64 `json:"frame_x"`
	FrameY  float64 `json:"frame_y"`
}

// Point maps a layout coordinate into box-local space.
func (p Placement) Point(x, y float64) (float64, float64) {
	return x*p.Scale + p.OffsetX, y*p.Scale + p.OffsetY
}

// Fit computes the placement of a payloadW x payloadH layout inside target.
// The scale is min(availW/payloadW, availH/payloadH) where avail is the
// target size minus twice the margin. A margin that leaves no room is
// ignored.
func Fit(payloadW, payloadH float64, target Target, margin float64) Placement {
	availW := target.Width - 2*margin
	availH := target.Height - 2*margin
	if availW <= 0 || availH <= 0 {
		availW, availH = target.Width, target.Height
	}
	s := min(availW/payloadW, availH/payloadH)
	return Placement{
		Scale:   s,
		OffsetX: (target.Width - payloadW*s) / 2,
		OffsetY: (target.Height - payloadH*s) / 2,
		FrameX:  target.X,
		FrameY:  target.Y,
	}
}

// Apply returns a copy of p scaled and translated into target. The copy's
// Width and Height become the target size; node boxes, edge bands and edge
// widths are transformed uniformly. p is not modified.
func Apply(p *layout.Payload, target Target, margin float64) (*layout.Payload, Placement, error) {
	if p == nil {
		return nil, Placement{}, errors.New(errors.ErrCodeInvalidInput, "payload is nil")
	}
	if err := target.Validate(); err != nil {
		return nil, Placement{}, err
	}
	if margin < 0 || math.IsNaN(margin) || math.IsInf(margin, 0) {
		return nil, Placement{}, errors.New(errors.ErrCodeInvalidInput, "frame margin must be a non-negative number, got %v", margin)
	}
	if err := errors.ValidateDimension("payload width", p.Width); err != nil {
		return nil, Placement{}, err
	}
	if err := errors.ValidateDimension("payload height", p.Height); err != nil {
		return nil, Placement{}, err
	}

	pl := Fit(p.Width, p.Height, target, margin)
	out := p.Clone()
	out.Width, out.Height = target.Width, target.Height
	for i := range out.Nodes {
		n := &out.Nodes[i]
		n.X0, n.Y0 = pl.Point(n.X0, n.Y0)
		n.X1, n.Y1 = pl.Point(n.X1, n.Y1)
	}
	for i := range out.Edges {
		e := &out.Edges[i]
		e.Width *= pl.Scale
		e.SourceY0 = e.SourceY0*pl.Scale + pl.OffsetY
		e.TargetY0 = e.TargetY0*pl.Scale + pl.OffsetY
	}
	if err := out.Validate(); err != nil {
		return nil, Placement{}, err
	}
	return out, pl, nil
}
