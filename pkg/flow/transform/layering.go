package transform

import "github.com/matzehuels/sankeyflow/pkg/flow"

// Depths assigns each node the length of the longest path from any source.
//
// Sources (no incoming edges) get depth 0 and every edge target gets at least
// one more than its source. Nodes on a cycle never reach zero in-degree and
// keep depth 0; validation rejects cycles before layout, so this only matters
// for callers that skip it.
//
// Time complexity is O(V + E).
func Depths(g *flow.Graph) map[string]int {
	return longestPath(g, g.Incoming, g.Outgoing, func(e flow.Edge) string { return e.Target })
}

// Heights assigns each node the length of the longest path to any sink.
// Sinks get height 0.
func Heights(g *flow.Graph) map[string]int {
	return longestPath(g, g.Outgoing, g.Incoming, func(e flow.Edge) string { return e.Source })
}

// longestPath runs Kahn's algorithm in the direction given by next/follow.
// blockers lists the edges that must be processed before a node is released.
func longestPath(g *flow.Graph, blockers, next func(string) []int, follow func(flow.Edge) string) map[string]int {
	nodes := g.Nodes()
	pending := make(map[string]int, len(nodes))
	levels := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		levels[n.ID] = 0
		degree := len(blockers(n.ID))
		pending[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, eid := range next(curr) {
			e, _ := g.Edge(eid)
			child := follow(e)
			if !g.HasNode(child) {
				continue
			}
			if level := levels[curr] + 1; level > levels[child] {
				levels[child] = level
			}
			pending[child]--
			if pending[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	return levels
}
