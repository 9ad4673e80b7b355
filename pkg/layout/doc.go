// Package layout computes the geometry of a Sankey diagram from a flow graph.
//
// # Overview
//
// [Compute] places every node of a validated [flow.Graph] in a column and
// gives it a vertical span proportional to its throughput, the larger of its
// total inflow, total outflow and declared value. Every edge receives a
// width proportional to its value and a band inside its source node and
// inside its target node. The result is a [Payload], an immutable value
// that any renderer can draw without running layout math.
//
// # Algorithm
//
// The engine follows the well known d3-sankey scheme:
//
//  1. Columns come from [transform.Columns] under the configured alignment
//     and are spread evenly across the usable width.
//  2. A single vertical scale is chosen so that the densest column, values
//     plus padding, fits the usable height. Nodes are stacked top-down and
//     leftover space is distributed evenly.
//  3. A fixed number of relaxation rounds move each node towards the
//     weighted centre of its neighbours' bands, then resolve overlaps
//     around the middle node of every column.
//  4. Outgoing edges at a node are ordered by target position and incoming
//     edges by source position, ties broken by edge ID. Band offsets are
//     prefix sums over those ordered ID lists.
//
// There is no randomness: the same graph and [Config] always produce
// bit-identical output.
//
// # Errors
//
// Invalid graphs yield the VALIDATION_ERROR from [flow.Graph.Validate]. If
// any computed coordinate is not finite or any edge width is not positive,
// [Compute] returns a LAYOUT_ERROR and no payload.
package layout
