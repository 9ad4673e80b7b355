package transform

import (
	"fmt"

	"github.com/matzehuels/sankeyflow/pkg/flow"
)

// Align selects how nodes are distributed over columns.
type Align string

// Supported alignments.
const (
	AlignJustify Align = "justify"
	AlignLeft    Align = "left"
	AlignRight   Align = "right"
	AlignCenter  Align = "center"
)

// DefaultAlign is used when no alignment is configured.
const DefaultAlign = AlignJustify

// ValidAligns is the set of supported alignments.
var ValidAligns = map[Align]bool{
	AlignJustify: true,
	AlignLeft:    true,
	AlignRight:   true,
	AlignCenter:  true,
}

// ParseAlign converts a string to an Align. The empty string yields DefaultAlign.
func ParseAlign(s string) (Align, error) {
	if s == "" {
		return DefaultAlign, nil
	}
	a := Align(s)
	if !ValidAligns[a] {
		return "", fmt.Errorf("invalid align: %q (must be one of: justify, left, right, center)", s)
	}
	return a, nil
}

// Columns assigns every node a column index under the given alignment and
// returns the assignment together with the number of columns.
//
// The column count is the maximum depth plus one. Results are clamped to
// [0, count-1].
func Columns(g *flow.Graph, align Align) (map[string]int, int) {
	depths := Depths(g)
	n := 0
	for _, d := range depths {
		n = max(n, d+1)
	}
	if n == 0 {
		return map[string]int{}, 0
	}

	var heights map[string]int
	if align == AlignRight {
		heights = Heights(g)
	}

	cols := make(map[string]int, len(depths))
	for _, node := range g.Nodes() {
		id := node.ID
		var c int
		switch align {
		case AlignLeft:
			c = depths[id]
		case AlignRight:
			c = n - 1 - heights[id]
		case AlignCenter:
			c = centerColumn(g, depths, id)
		default:
			c = depths[id]
			if len(g.Outgoing(id)) == 0 {
				c = n - 1
			}
		}
		cols[id] = max(0, min(n-1, c))
	}
	return cols, n
}

// centerColumn keeps nodes with inputs at their depth and moves pure sources
// to just left of their nearest target.
func centerColumn(g *flow.Graph, depths map[string]int, id string) int {
	if len(g.Incoming(id)) > 0 {
		return depths[id]
	}
	out := g.Outgoing(id)
	if len(out) == 0 {
		return 0
	}
	best := -1
	for _, eid := range out {
		e, _ := g.Edge(eid)
		if d, ok := depths[e.Target]; ok && (best < 0 || d < best) {
			best = d
		}
	}
	return best - 1
}
