// Package layout assigns deterministic coordinates to knowledge graph nodes.
//
// # Layered Layout
//
// [Layered] is the default: nodes are grouped into horizontal bands by their
// level, each band centered on x = 0, bands stacked downward. It makes a
// single pass over the graph plus a sort of the distinct levels, and never
// iterates toward an optimum, so the same graph always yields the same
// picture:
//
//	l := layout.Layered(g, layout.DefaultOptions())
//	p, _ := l.At("aspirin")
//
// # Tree Layout
//
// [Tree] draws the part of the graph reachable from one root as a top-down
// tree, splitting horizontal space evenly among children.
//
// # Fallback Column
//
// Both layouts are total: nodes a layout cannot place (negative levels,
// nodes unreachable from the tree root) are stacked in a column to the right
// of everything else and listed in [Layout.Fallback].
//
// # Hit Testing
//
// [Layout.NodeAt] maps a pointer position back to a node, using a square
// tolerance box around each node center.
package layout
