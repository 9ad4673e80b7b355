package render

import (
	"fmt"

	"github.com/matzehuels/sankeyflow/pkg/frame"
	"github.com/matzehuels/sankeyflow/pkg/layout"
	"github.com/matzehuels/sankeyflow/pkg/palette"
	"github.com/matzehuels/sankeyflow/pkg/ribbon"
)

// LabelGap is the horizontal distance between a node and its label.
const LabelGap = 6

// Scene is a styled layout ready to be drawn.
type Scene struct {
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Theme      Theme            `json:"theme"`
	Background string           `json:"background"`
	Shadow     bool             `json:"shadow,omitempty"`
	Nodes      []SceneNode      `json:"nodes"`
	Links      []SceneLink      `json:"links"`
	Placement  *frame.Placement `json:"placement,omitempty"`
}

// SceneNode is a node box with resolved fill and shape.
type SceneNode struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Column int     `json:"column"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   string  `json:"fill"`
	Shape  Shape   `json:"shape"`
	Radius float64 `json:"radius,omitempty"`
	Label  *Label  `json:"label,omitempty"`
}

// Label is the positioned text of a node. Anchor is "start" for labels
// right of the node and "end" for labels left of it.
type Label struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Anchor string  `json:"anchor"`
	Color  string  `json:"color"`
}

// SceneLink is a link ribbon with resolved fill. When Gradient is set,
// Fill holds a flat blend of both ends for renderers without gradients.
type SceneLink struct {
	ID       int            `json:"id"`
	Source   string         `json:"source"`
	Target   string         `json:"target"`
	Value    float64        `json:"value"`
	Width    float64        `json:"width"`
	Fill     string         `json:"fill"`
	Opacity  float64        `json:"opacity"`
	Gradient *Gradient      `json:"gradient,omitempty"`
	Outline  ribbon.Outline `json:"-"`
	Path     string         `json:"path"`
}

// Gradient is a horizontal linear gradient from the source node colour at
// X1 to the target node colour at X2.
type Gradient struct {
	ID   string  `json:"id"`
	From string  `json:"from"`
	To   string  `json:"to"`
	X1   float64 `json:"x1"`
	X2   float64 `json:"x2"`
}

// Build styles payload p. The payload is validated first so a scene never
// carries non-finite geometry.
func Build(p *layout.Payload, style Style) (*Scene, error) {
	style = style.WithDefaults()
	if err := style.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	pal, err := palette.Resolve(style.Palette, style.Colors)
	if err != nil {
		return nil, err
	}
	linkColor := pal.Link()
	if style.LinkColor != "" {
		linkColor, _ = palette.Normalize(style.LinkColor)
	}
	gradient := style.GradientLinks()

	s := &Scene{
		Width:      p.Width,
		Height:     p.Height,
		Theme:      style.Theme,
		Background: style.Theme.Background(),
		Shadow:     style.Shadow,
		Nodes:      make([]SceneNode, len(p.Nodes)),
		Links:      make([]SceneLink, len(p.Edges)),
	}
	textColor := TextColor(s.Background)

	fills := make(map[string]string, len(p.Nodes))
	index := make(map[string]int, len(p.Nodes))
	for i, n := range p.Nodes {
		fill := pal.NodeColor(i)
		if gradient {
			fill = palette.AdjustBrightness(fill, GradientDarken)
		}
		fills[n.ID] = fill
		index[n.ID] = i

		sn := SceneNode{
			ID: n.ID, Name: n.Name, Value: n.Value, Column: n.Column,
			X: n.X0, Y: n.Y0, Width: n.Width(), Height: n.Height(),
			Fill: fill, Shape: style.NodeShape,
		}
		if style.NodeShape == ShapeRounded {
			sn.Radius = min(style.CornerRadius, sn.Width/2, sn.Height/2)
		}
		if style.Labels {
			sn.Label = nodeLabel(n, p.Columns, textColor)
		}
		s.Nodes[i] = sn
	}

	for i, e := range p.Edges {
		src, dst := p.Nodes[index[e.Source]], p.Nodes[index[e.Target]]
		outline := ribbon.Between(src, dst, e, style.Curve)
		sl := SceneLink{
			ID: e.ID, Source: e.Source, Target: e.Target, Value: e.Value, Width: e.Width,
			Fill: linkColor, Opacity: style.LinkOpacity,
			Outline: outline, Path: outline.SVGPath(),
		}
		if gradient {
			from, to := fills[e.Source], fills[e.Target]
			sl.Gradient = &Gradient{
				ID:   fmt.Sprintf("link-gradient-%d", e.ID),
				From: from, To: to,
				X1: src.X1, X2: dst.X0,
			}
			sl.Fill = palette.Mix(from, to, 0.5)
		}
		s.Links[i] = sl
	}
	return s, nil
}

// nodeLabel places the label right of the node, or left of it for nodes in
// the last column, vertically centred.
func nodeLabel(n layout.Node, columns int, color string) *Label {
	l := &Label{Text: n.Name, X: n.X1 + LabelGap, Y: n.CenterY(), Anchor: "start", Color: color}
	if columns > 1 && n.Column == columns-1 {
		l.X = n.X0 - LabelGap
		l.Anchor = "end"
	}
	if l.Text == "" {
		l.Text = n.ID
	}
	return l
}
