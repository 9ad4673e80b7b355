// Package ribbon turns positioned edges into closed outlines.
//
// A ribbon connects an edge's band on the right side of its source node to
// its band on the left side of its target node. [Straight] joins the four
// corners with lines. [Curved] replaces both long sides with cubic Bézier
// curves whose control points sit at the horizontal midpoint, giving the
// familiar S-shaped Sankey link. The gradient style reuses the curved
// outline; only the fill differs, and that is decided by the renderer.
//
// Outlines are plain command lists in layout coordinates. [Outline.SVGPath]
// formats them as SVG path data and [Outline.Transform] maps them into
// another frame.
package ribbon
