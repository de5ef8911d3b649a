package paths

import (
	"slices"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
)

// HighlightSet is the emphasis a presentation layer applies for a query.
type HighlightSet struct {
	Nodes []string      `json:"nodes"`
	Edges []kgraph.Edge `json:"edges"`
}

// Empty reports whether nothing is highlighted.
func (h HighlightSet) Empty() bool { return len(h.Nodes) == 0 }

// HasNode reports whether id is highlighted.
func (h HighlightSet) HasNode(id string) bool { return slices.Contains(h.Nodes, id) }

// HasEdge reports whether the stored edge from -> to is highlighted.
func (h HighlightSet) HasEdge(from, to string) bool {
	return slices.Contains(h.Edges, kgraph.Edge{From: from, To: to})
}

// Highlight projects the paths of res onto g. Nodes are the union of all path
// nodes; edges are the union of consecutive path pairs, each matched against
// the stored direction: a pair (b, a) is reported as the stored edge a -> b,
// and a pair with no stored edge either way is skipped. Both lists follow
// the graph's insertion order.
func Highlight(g *kgraph.Graph, res Result) HighlightSet {
	nodes := make(map[string]struct{})
	edges := make(map[kgraph.Edge]struct{})

	add := func(path []string) {
		for i, id := range path {
			nodes[id] = struct{}{}
			if i == 0 {
				continue
			}
			a, b := path[i-1], id
			switch {
			case g.HasEdge(a, b):
				edges[kgraph.Edge{From: a, To: b}] = struct{}{}
			case g.HasEdge(b, a):
				edges[kgraph.Edge{From: b, To: a}] = struct{}{}
			}
		}
	}
	for _, p := range res.Ancestors {
		add(p)
	}
	for _, p := range res.Descendants {
		add(p)
	}

	hs := HighlightSet{Nodes: []string{}, Edges: []kgraph.Edge{}}
	for _, id := range g.NodeIDs() {
		if _, ok := nodes[id]; ok {
			hs.Nodes = append(hs.Nodes, id)
		}
	}
	for _, e := range g.Edges() {
		if _, ok := edges[e]; ok {
			hs.Edges = append(hs.Edges, e)
		}
	}
	return hs
}
