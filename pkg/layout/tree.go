package layout

import "github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"

// DefaultTreeWidth is the horizontal extent shared among the leaves of a
// [Tree] layout.
const DefaultTreeWidth = 1000.0

// TreeOptions configures [Tree].
type TreeOptions struct {
	Width       float64 `json:"width" toml:"width"`
	VerticalGap float64 `json:"vertical_gap" toml:"vertical_gap"`
	// FallbackGap is the distance between the rightmost tree node and the
	// fallback column.
	FallbackGap float64 `json:"fallback_gap" toml:"fallback_gap"`
}

func (o TreeOptions) withDefaults() TreeOptions {
	if !usable(o.Width) {
		o.Width = DefaultTreeWidth
	}
	if !usable(o.VerticalGap) {
		o.VerticalGap = DefaultVerticalGap
	}
	if !usable(o.FallbackGap) {
		o.FallbackGap = DefaultHorizontalGap
	}
	return o
}

type treeSlot struct {
	id          string
	left, right float64
	depth       int
}

// Tree lays out the nodes reachable from root as a top-down tree. The root is
// centered in [-Width/2, Width/2] at y = 0; each node splits its interval
// evenly among the successors it reaches first, one band per depth.
//
// A node reached by several parents keeps the slot of its first parent in
// pre-order, so shared subtrees and cycles are drawn once. An empty root
// selects the first root of g. Nodes not reachable from root, or every node
// when root is unknown or g has no roots, go to the fallback column.
func Tree(g *kgraph.Graph, root string, opts TreeOptions) Layout {
	opts = opts.withDefaults()
	pos := make(map[string]Point, g.NodeCount())

	if root == "" {
		if roots := g.Roots(); len(roots) > 0 {
			root = roots[0]
		}
	}

	if g.HasNode(root) {
		claimed := map[string]struct{}{root: {}}
		stack := []treeSlot{{id: root, left: -opts.Width / 2, right: opts.Width / 2}}
		for len(stack) > 0 {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			pos[s.id] = Point{X: (s.left + s.right) / 2, Y: float64(-s.depth) * opts.VerticalGap}

			var children []string
			for _, c := range g.Successors(s.id) {
				if _, ok := claimed[c]; ok {
					continue
				}
				claimed[c] = struct{}{}
				children = append(children, c)
			}
			if len(children) == 0 {
				continue
			}
			w := (s.right - s.left) / float64(len(children))
			// Push in reverse so children pop in successor order.
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, treeSlot{
					id:    children[i],
					left:  s.left + float64(i)*w,
					right: s.left + float64(i+1)*w,
					depth: s.depth + 1,
				})
			}
		}
	}

	fallback := placeFallback(g, pos, opts.FallbackGap, opts.VerticalGap)
	return Layout{Positions: pos, Order: g.NodeIDs(), Fallback: fallback}
}
