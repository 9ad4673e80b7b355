package flow

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matzehuels/sankeyflow/pkg/errors"
)

// Validate checks the structural invariants of the graph.
//
// The checks run in a fixed order and the first failure is returned as a
// VALIDATION_ERROR:
//
//  1. The node set and the edge set are non-empty
//  2. Every node ID is a usable identifier
//  3. For each edge in ID order: the source exists, the target exists,
//     source != target, and the value is finite and > 0
//  4. The graph has no directed cycle
//
// Cycle detection runs in O(N+E) using depth-first search with
// white/gray/black colouring, visiting nodes in insertion order so the
// reported cycle is deterministic.
func (g *Graph) Validate() error {
	if len(g.nodes) == 0 {
		return errors.Validation("nodes must not be empty")
	}
	if len(g.edges) == 0 {
		return errors.Validation("links must not be empty")
	}
	for _, n := range g.nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return err
		}
	}
	for _, e := range g.edges {
		if err := g.validateEdge(e); err != nil {
			return err
		}
	}
	if cycle := g.FindCycle(); cycle != nil {
		return errors.Validation("cycle detected: %s", strings.Join(cycle, " -> ")).
			WithSuggestion("flows must run in one direction; remove one of the links on the cycle")
	}
	return nil
}

func (g *Graph) validateEdge(e Edge) error {
	if e.Source == "" {
		return errors.Validation("link %d is missing its source", e.ID+1)
	}
	if e.Target == "" {
		return errors.Validation("link %d is missing its target", e.ID+1)
	}
	if !g.HasNode(e.Source) {
		return errors.Validation("link %d: source node %q does not exist", e.ID+1, e.Source)
	}
	if !g.HasNode(e.Target) {
		return errors.Validation("link %d: target node %q does not exist", e.ID+1, e.Target)
	}
	if e.Source == e.Target {
		return errors.Validation("link %d: self-loop detected on node %q", e.ID+1, e.Source).
			WithSuggestion("a node cannot link to itself; remove the link or split the node")
	}
	if err := errors.ValidateFlowValue(e.Value); err != nil {
		return errors.Validation("link %d (%s -> %s): %s", e.ID+1, e.Source, e.Target, errors.UserMessage(err))
	}
	return nil
}

// FindCycle returns the node IDs of a directed cycle, with the first node
// repeated at the end, or nil if the graph is acyclic. Edges pointing at
// unknown nodes are ignored.
func (g *Graph) FindCycle() []string {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(g.nodes))
	var stack []string
	var cycle []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		color[id] = gray
		stack = append(stack, id)
		for _, eid := range g.outgoing[id] {
			child := g.edges[eid].Target
			if !g.HasNode(child) {
				continue
			}
			switch color[child] {
			case white:
				if dfs(child) {
					return true
				}
			case gray:
				start := slices.Index(stack, child)
				cycle = append(slices.Clone(stack[start:]), child)
				return true
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
		return false
	}

	for _, n := range g.nodes {
		if color[n.ID] == white && dfs(n.ID) {
			return cycle
		}
	}
	return nil
}

// Equal reports whether two graphs have the same content regardless of node
// and edge order: the same node IDs with the same names and declared values,
// and the same multiset of (source, target, value) edges.
func Equal(a, b *Graph) bool {
	if a.NodeCount() != b.NodeCount() || a.EdgeCount() != b.EdgeCount() {
		return false
	}
	for _, n := range a.nodes {
		m, ok := b.Node(n.ID)
		if !ok || m.Name != n.Name || m.Value != n.Value {
			return false
		}
	}
	return slices.Equal(sortedEdges(a), sortedEdges(b))
}

type edgeKey struct {
	source, target string
	value          float64
}

func sortedEdges(g *Graph) []edgeKey {
	keys := make([]edgeKey, len(g.edges))
	for i, e := range g.edges {
		keys[i] = edgeKey{e.Source, e.Target, e.Value}
	}
	slices.SortFunc(keys, func(x, y edgeKey) int {
		return cmp.Or(
			cmp.Compare(x.source, y.source),
			cmp.Compare(x.target, y.target),
			cmp.Compare(x.value, y.value),
		)
	})
	return keys
}
