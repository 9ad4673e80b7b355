// Package transform provides the column assignment used by the layout engine.
//
// # Layering
//
// [Depths] places every node one column to the right of its deepest
// predecessor using a longest-path traversal (Kahn's algorithm). [Heights]
// computes the mirror quantity, the longest path to any sink. Both assume an
// acyclic graph; run [flow.Graph.Validate] first.
//
// # Alignment
//
// [Columns] combines depths and heights according to an [Align] mode:
//
//   - [AlignJustify] (default): like left, but sinks move to the last column
//   - [AlignLeft]: column = depth
//   - [AlignRight]: column = last column - height
//   - [AlignCenter]: like left, but pure sources move next to their targets
//
// Every mode keeps each edge's source strictly left of its target.
//
// # Crossings
//
// [CountCrossings] counts edge crossings between adjacent columns for a
// given vertical ordering. The layout engine does not minimise crossings
// exactly; the count is reported as a quality diagnostic.
package transform
