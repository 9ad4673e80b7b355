// Package flow provides the weighted directed graph that every sankeyflow
// stage consumes.
//
// # Overview
//
// A flow graph consists of named nodes and valued edges that represent some
// quantity moving from one node to another: energy from coal to power plants,
// users from a landing page to checkout, budget from revenue to departments.
//
// Nodes are keyed by a unique string ID and keep their insertion order so
// that every downstream computation is deterministic. Edges receive a stable
// integer ID when they are added; each node stores the IDs of its outgoing
// and incoming edges in insertion order. Later stages reorder those ID lists
// but never identify an edge by anything other than its ID, so two edges
// that share endpoints and value can never be confused.
//
// # Basic Usage
//
//	g := flow.New()
//	_ = g.AddNode(flow.Node{ID: "coal", Name: "Coal"})
//	_ = g.AddNode(flow.Node{ID: "power", Name: "Power"})
//	g.AddEdge("coal", "power", 100)
//	if err := g.Validate(); err != nil {
//	    // VALIDATION_ERROR with a human-readable message
//	}
//
// # Validation
//
// [Graph.AddEdge] accepts any endpoints so that parsers can report every
// structural problem through [Graph.Validate] with a consistent message.
// A valid graph has at least one node and one edge, no dangling endpoints,
// no self-loops, only finite positive edge values and no directed cycles.
//
// # Concurrency
//
// Graph is not safe for concurrent mutation. A validated graph that is no
// longer modified may be read from multiple goroutines.
package flow
