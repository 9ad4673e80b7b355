package transform

import (
	"slices"

	"github.com/matzehuels/sankeyflow/pkg/flow"
)

// CountCrossings returns the total number of edge crossings for the given
// column orderings. order[i] lists the node IDs of column i from top to
// bottom. Only edges between consecutive columns are counted.
func CountCrossings(g *flow.Graph, order [][]string) int {
	crossings := 0
	for i := 0; i+1 < len(order); i++ {
		crossings += CountColumnCrossings(g, order[i], order[i+1])
	}
	return crossings
}

// CountColumnCrossings counts crossings between two adjacent columns using a
// Fenwick tree, in O(E log V) where E is the number of edges between the
// columns and V the size of the right column.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// which is the number of inversions in the sequence of target positions when
// edges are sorted by source position. Parallel edges never cross each other.
func CountColumnCrossings(g *flow.Graph, left, right []string) int {
	if len(left) == 0 || len(right) == 0 {
		return 0
	}

	rightPos := flow.PosMap(right)

	type edge struct{ left, right int }
	edges := make([]edge, 0, len(left)*2)
	for i, id := range left {
		for _, eid := range g.Outgoing(id) {
			e, _ := g.Edge(eid)
			if pos, ok := rightPos[e.Target]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	slices.SortFunc(edges, func(a, b edge) int {
		if a.left != b.left {
			return a.left - b.left
		}
		return a.right - b.right
	})

	fenwick := make([]int, len(right)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// edges seen so far with target <= e.right
		lessOrEqual := 0
		for q := e.right + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += total - lessOrEqual

		total++
		for q := e.right + 1; q <= len(right); q += q & (-q) {
			fenwick[q]++
		}
	}
	return crossings
}
