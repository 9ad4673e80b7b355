package ribbon

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
	"github.com/matzehuels/sankeyflow/pkg/layout"
)

// Style selects the outline shape of a ribbon.
type Style string

// Supported styles.
const (
	StyleStraight Style = "straight"
	StyleCurved   Style = "curved"
	StyleGradient Style = "gradient"
)

// DefaultStyle is used when no style is configured.
const DefaultStyle = StyleCurved

// DefaultCurvature places both control points at the horizontal midpoint.
const DefaultCurvature = 0.5

// ValidStyles is the set of supported styles.
var ValidStyles = map[Style]bool{
	StyleStraight: true,
	StyleCurved:   true,
	StyleGradient: true,
}

// ParseStyle converts a string to a Style. The empty string yields DefaultStyle.
func ParseStyle(s string) (Style, error) {
	if s == "" {
		return DefaultStyle, nil
	}
	st := Style(strings.ToLower(s))
	if !ValidStyles[st] {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid curve style: %q (must be one of: straight, curved, gradient)", s)
	}
	return st, nil
}

// Curved reports whether the style produces curved outlines.
func (s Style) Curved() bool { return s != StyleStraight }

// Op is a path command.
type Op byte

// Path commands, named after their SVG letters.
const (
	MoveTo  Op = 'M'
	LineTo  Op = 'L'
	CurveTo Op = 'C'
	Close   Op = 'Z'
)

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Command is one path command. CurveTo carries two control points and the
// end point; MoveTo and LineTo one point; Close none.
type Command struct {
	Op     Op      `json:"op"`
	Points []Point `json:"points,omitempty"`
}

// Outline is a closed path.
type Outline struct {
	Commands []Command `json:"commands"`
}

// Band is the vertical extent of an edge at one node side.
type Band struct {
	X      float64
	Y0, Y1 float64
}

// Straight returns the quadrilateral joining the source band to the target
// band: source top, target top, target bottom, source bottom.
func Straight(src, dst Band) Outline {
	return Outline{Commands: []Command{
		{Op: MoveTo, Points: []Point{{src.X, src.Y0}}},
		{Op: LineTo, Points: []Point{{dst.X, dst.Y0}}},
		{Op: LineTo, Points: []Point{{dst.X, dst.Y1}}},
		{Op: LineTo, Points: []Point{{src.X, src.Y1}}},
		{Op: Close},
	}}
}

// Curved returns the S-shaped outline joining the two bands. Curvature is
// the fraction of the horizontal distance at which the control points sit;
// 0.5 puts both at the midpoint.
func Curved(src, dst Band, curvature float64) Outline {
	dx := dst.X - src.X
	cx0 := src.X + dx*curvature
	cx1 := dst.X - dx*curvature
	return Outline{Commands: []Command{
		{Op: MoveTo, Points: []Point{{src.X, src.Y0}}},
		{Op: CurveTo, Points: []Point{{cx0, src.Y0}, {cx1, dst.Y0}, {dst.X, dst.Y0}}},
		{Op: LineTo, Points: []Point{{dst.X, dst.Y1}}},
		{Op: CurveTo, Points: []Point{{cx1, dst.Y1}, {cx0, src.Y1}, {src.X, src.Y1}}},
		{Op: Close},
	}}
}

// Bands returns the source and target bands of e.
func Bands(src, dst layout.Node, e layout.Edge) (Band, Band) {
	return Band{X: src.X1, Y0: e.SourceY0, Y1: e.SourceY1()},
		Band{X: dst.X0, Y0: e.TargetY0, Y1: e.TargetY1()}
}

// ForEdge builds the outline of e in payload p.
func ForEdge(p *layout.Payload, e layout.Edge, style Style) (Outline, error) {
	src, ok := p.NodeByID(e.Source)
	if !ok {
		return Outline{}, errors.Layout("link %d: source node %q is not in the layout", e.ID+1, e.Source)
	}
	dst, ok := p.NodeByID(e.Target)
	if !ok {
		return Outline{}, errors.Layout("link %d: target node %q is not in the layout", e.ID+1, e.Target)
	}
	return Between(*src, *dst, e, style), nil
}

// Between builds the outline of e between two already resolved nodes.
func Between(src, dst layout.Node, e layout.Edge, style Style) Outline {
	a, b := Bands(src, dst, e)
	if style == StyleStraight {
		return Straight(a, b)
	}
	return Curved(a, b, DefaultCurvature)
}

// Points returns every coordinate of the outline, control points included.
func (o Outline) Points() []Point {
	var pts []Point
	for _, c := range o.Commands {
		pts = append(pts, c.Points...)
	}
	return pts
}

// Bounds returns the bounding box of all points, control points included.
// The curve itself never leaves this box.
func (o Outline) Bounds() layout.Rect {
	pts := o.Points()
	if len(pts) == 0 {
		return layout.Rect{}
	}
	r := layout.Rect{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
	for _, p := range pts {
		r.X0 = min(r.X0, p.X)
		r.Y0 = min(r.Y0, p.Y)
		r.X1 = max(r.X1, p.X)
		r.Y1 = max(r.Y1, p.Y)
	}
	return r
}

// Transform returns the outline scaled by s and then shifted by (dx, dy).
func (o Outline) Transform(s, dx, dy float64) Outline {
	out := Outline{Commands: make([]Command, len(o.Commands))}
	for i, c := range o.Commands {
		nc := Command{Op: c.Op}
		if len(c.Points) > 0 {
			nc.Points = make([]Point, len(c.Points))
			for j, p := range c.Points {
				nc.Points[j] = Point{X: p.X*s + dx, Y: p.Y*s + dy}
			}
		}
		out.Commands[i] = nc
	}
	return out
}

// SVGPath formats the outline as the d attribute of an SVG path element.
func (o Outline) SVGPath() string {
	var b strings.Builder
	for i, c := range o.Commands {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(byte(c.Op))
		for _, p := range c.Points {
			b.WriteByte(' ')
			b.WriteString(formatNumber(p.X))
			b.WriteByte(' ')
			b.WriteString(formatNumber(p.Y))
		}
	}
	return b.String()
}

// formatNumber rounds to two decimals and drops trailing zeros.
func formatNumber(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // normalise -0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
