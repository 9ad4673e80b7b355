package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Payload is the geometry of a laid-out flow graph.
//
// Nodes appear in graph insertion order and edges in ID order, so
// Edges[i].ID == i. All coordinates share one space whose origin is the top
// left corner of a Width x Height frame.
type Payload struct {
	Nodes   []Node  `json:"nodes" bson:"nodes"`
	Edges   []Edge  `json:"edges" bson:"edges"`
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
	Columns int     `json:"columns" bson:"columns"`
}

// Node is a positioned node. Value is the throughput used for sizing.
type Node struct {
	ID     string  `json:"id" bson:"id"`
	Name   string  `json:"name" bson:"name"`
	Value  float64 `json:"value" bson:"value"`
	Column int     `json:"column" bson:"column"`
	X0     float64 `json:"x0" bson:"x0"`
	X1     float64 `json:"x1" bson:"x1"`
	Y0     float64 `json:"y0" bson:"y0"`
	Y1     float64 `json:"y1" bson:"y1"`
}

// Width returns the horizontal extent of the node box.
func (n Node) Width() float64 { return n.X1 - n.X0 }

// Height returns the vertical span of the node box.
func (n Node) Height() float64 { return n.Y1 - n.Y0 }

// CenterY returns the vertical centre of the node box.
func (n Node) CenterY() float64 { return (n.Y0 + n.Y1) / 2 }

// Edge is a positioned edge. SourceY0 is the top of the edge's band inside
// the source node, TargetY0 the top of its band inside the target node. Both
// bands are Width tall.
type Edge struct {
	ID       int     `json:"id" bson:"id"`
	Source   string  `json:"source" bson:"source"`
	Target   string  `json:"target" bson:"target"`
	Value    float64 `json:"value" bson:"value"`
	Width    float64 `json:"width" bson:"width"`
	SourceY0 float64 `json:"source_y0" bson:"source_y0"`
	TargetY0 float64 `json:"target_y0" bson:"target_y0"`
}

// SourceY1 returns the bottom of the band at the source node.
func (e Edge) SourceY1() float64 { return e.SourceY0 + e.Width }

// TargetY1 returns the bottom of the band at the target node.
func (e Edge) TargetY1() float64 { return e.TargetY0 + e.Width }

// Rect is an axis-aligned rectangle.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Width returns X1-X0.
func (r Rect) Width() float64 { return r.X1 - r.X0 }

// Height returns Y1-Y0.
func (r Rect) Height() float64 { return r.Y1 - r.Y0 }

// NodeByID returns the node with the given ID.
func (p *Payload) NodeByID(id string) (*Node, bool) {
	for i := range p.Nodes {
		if p.Nodes[i].ID == id {
			return &p.Nodes[i], true
		}
	}
	return nil, false
}

// NodeIndex maps node IDs to their position in Nodes.
func (p *Payload) NodeIndex() map[string]int {
	idx := make(map[string]int, len(p.Nodes))
	for i, n := range p.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// Bounds returns the tight bounding box of all node boxes.
func (p *Payload) Bounds() Rect {
	if len(p.Nodes) == 0 {
		return Rect{}
	}
	r := Rect{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
	for _, n := range p.Nodes {
		r.X0 = min(r.X0, n.X0)
		r.Y0 = min(r.Y0, n.Y0)
		r.X1 = max(r.X1, n.X1)
		r.Y1 = max(r.Y1, n.Y1)
	}
	return r
}

// ColumnOrder returns the node IDs of every column sorted top to bottom.
func (p *Payload) ColumnOrder() [][]string {
	cols := make([][]*Node, p.Columns)
	for i := range p.Nodes {
		n := &p.Nodes[i]
		if n.Column >= 0 && n.Column < p.Columns {
			cols[n.Column] = append(cols[n.Column], n)
		}
	}
	order := make([][]string, p.Columns)
	for i, col := range cols {
		slices.SortStableFunc(col, func(a, b *Node) int { return cmp.Compare(a.Y0, b.Y0) })
		order[i] = make([]string, len(col))
		for j, n := range col {
			order[i][j] = n.ID
		}
	}
	return order
}

// Clone returns a deep copy of p.
func (p *Payload) Clone() *Payload {
	c := *p
	c.Nodes = slices.Clone(p.Nodes)
	c.Edges = slices.Clone(p.Edges)
	return &c
}

// Validate returns a LAYOUT_ERROR if any coordinate is not finite or any
// edge width is not positive.
func (p *Payload) Validate() error {
	if !finite(p.Width, p.Height) || p.Width <= 0 || p.Height <= 0 {
		return errors.Layout("invalid payload size %vx%v", p.Width, p.Height)
	}
	for _, n := range p.Nodes {
		if !finite(n.X0, n.X1, n.Y0, n.Y1, n.Value) {
			return errors.Layout("node %q has non-finite geometry (x0=%v x1=%v y0=%v y1=%v)", n.ID, n.X0, n.X1, n.Y0, n.Y1)
		}
	}
	for _, e := range p.Edges {
		if !finite(e.Width, e.SourceY0, e.TargetY0) {
			return errors.Layout("link %d (%s -> %s) has non-finite geometry", e.ID+1, e.Source, e.Target)
		}
		if e.Width <= 0 {
			return errors.Layout("link %d (%s -> %s) has non-positive width %v", e.ID+1, e.Source, e.Target, e.Width)
		}
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
