// Package palette resolves node and link colours.
//
// A [Palette] is an ordered list of node colours plus one link colour. Nodes
// are coloured by ordinal position: node i gets Colors[i mod len(Colors)],
// so the same input always yields the same colours. Named schemes cover the
// common cases and a custom list replaces the scheme's node colours.
//
// The helpers [Gradient], [AdjustBrightness], [Harmonious], [Mix] and
// [IsLight] operate on "#rrggbb" strings. They never fail: malformed input
// is passed through unchanged so a bad colour degrades a drawing instead of
// aborting it.
package palette
