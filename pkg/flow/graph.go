package flow

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")
)

// Node is a named vertex of the flow graph.
//
// Value is the declared magnitude from the input. It may be zero; the layout
// engine recomputes the effective value as the maximum of inflow, outflow and
// this declared value.
type Node struct {
	ID    string  // Unique identifier
	Name  string  // Display label (may be empty)
	Value float64 // Declared magnitude
}

// Label returns the node's display name, falling back to its ID.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Edge is a directed, valued connection between two nodes.
// ID is assigned by [Graph.AddEdge] and equals the edge's insertion index.
type Edge struct {
	ID     int
	Source string
	Target string
	Value  float64
}

// Graph is a weighted directed flow graph.
//
// The zero value is not usable - use New.
type Graph struct {
	nodes    []*Node
	index    map[string]int
	edges    []Edge
	outgoing map[string][]int // nodeID -> outgoing edge IDs
	incoming map[string][]int // nodeID -> incoming edge IDs
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index:    make(map[string]int),
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
	}
}

// AddNode adds a node to the graph.
// Returns ErrInvalidNodeID if the ID is empty or ErrDuplicateNodeID if the
// ID is already taken.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	g.index[n.ID] = len(g.nodes)
	node := n
	g.nodes = append(g.nodes, &node)
	return nil
}

// EnsureNode adds a node with the given ID (and the ID as its name) unless it
// already exists. It reports whether a node was added. Row-based parsers use
// it to build the implicit node set from edge endpoints.
func (g *Graph) EnsureNode(id string) bool {
	if _, exists := g.index[id]; exists || id == "" {
		return false
	}
	_ = g.AddNode(Node{ID: id, Name: id})
	return true
}

// AddEdge appends an edge and returns its ID.
//
// Endpoints are not checked here; [Graph.Validate] reports dangling
// references, self-loops and invalid values.
func (g *Graph) AddEdge(source, target string, value float64) int {
	id := len(g.edges)
	g.edges = append(g.edges, Edge{ID: id, Source: source, Target: target, Value: value})
	g.outgoing[source] = append(g.outgoing[source], id)
	g.incoming[target] = append(g.incoming[target], id)
	return id
}

// Nodes returns the nodes in insertion order.
// The returned pointers refer to the graph's nodes.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return g.nodes[i], true
}

// Index returns the insertion position of the node, or -1 if absent.
// Colour resolution uses this ordinal.
func (g *Graph) Index(id string) int {
	if i, ok := g.index[id]; ok {
		return i
	}
	return -1
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Edges returns a copy of all edges in ID order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Edge returns the edge with the given ID and true, or a zero Edge and false.
func (g *Graph) Edge(id int) (Edge, bool) {
	if id < 0 || id >= len(g.edges) {
		return Edge{}, false
	}
	return g.edges[id], true
}

// Outgoing returns the IDs of edges leaving the node, in insertion order.
// The returned slice should not be modified.
func (g *Graph) Outgoing(id string) []int { return g.outgoing[id] }

// Incoming returns the IDs of edges entering the node, in insertion order.
// The returned slice should not be modified.
func (g *Graph) Incoming(id string) []int { return g.incoming[id] }

// OutFlow returns the sum of the values of the node's outgoing edges.
func (g *Graph) OutFlow(id string) float64 { return g.sum(g.outgoing[id]) }

// InFlow returns the sum of the values of the node's incoming edges.
func (g *Graph) InFlow(id string) float64 { return g.sum(g.incoming[id]) }

func (g *Graph) sum(ids []int) float64 {
	var total float64
	for _, id := range ids {
		total += g.edges[id].Value
	}
	return total
}

// Throughput returns max(inflow, outflow, declared value) for the node.
// Returns 0 if the node does not exist.
func (g *Graph) Throughput(id string) float64 {
	n, ok := g.Node(id)
	if !ok {
		return 0
	}
	return max(g.InFlow(id), g.OutFlow(id), n.Value)
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Sources returns nodes with no incoming edges, in insertion order.
func (g *Graph) Sources() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if len(g.incoming[n.ID]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Sinks returns nodes with no outgoing edges, in insertion order.
func (g *Graph) Sinks() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if len(g.outgoing[n.ID]) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// TotalFlow returns the sum of all edge values.
func (g *Graph) TotalFlow() float64 {
	var total float64
	for _, e := range g.edges {
		total += e.Value
	}
	return total
}

// Clone returns a deep copy of the graph. Edge IDs are preserved.
func (g *Graph) Clone() *Graph {
	c := New()
	for _, n := range g.nodes {
		_ = c.AddNode(*n)
	}
	for _, e := range g.edges {
		c.AddEdge(e.Source, e.Target, e.Value)
	}
	return c
}

// NodeIDs extracts the ID from each node in a slice.
func NodeIDs(nodes []*Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// PosMap creates a position lookup map from a slice of node IDs.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}
