package transform

import "github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"

// Options selects the rewrites applied by [Prepare].
type Options struct {
	Collapse     bool `json:"collapse" toml:"collapse"`
	DropIsolated bool `json:"drop_isolated" toml:"drop_isolated"`
}

// Result reports what [Prepare] changed.
type Result struct {
	Chains      []Chain  `json:"chains,omitempty"`
	Isolated    []string `json:"isolated,omitempty"`
	NodesBefore int      `json:"nodes_before"`
	NodesAfter  int      `json:"nodes_after"`
	EdgesBefore int      `json:"edges_before"`
	EdgesAfter  int      `json:"edges_after"`
}

// Collapsed returns the number of nodes removed by chain collapsing.
func (r Result) Collapsed() int {
	n := 0
	for _, c := range r.Chains {
		n += len(c) - 1
	}
	return n
}

// Prepare applies the selected rewrites to g in place: chain collapsing
// first, then isolated-node removal. Collapsing never creates isolated
// nodes, but dropping isolates after it also catches nodes that were
// isolated in the input.
func Prepare(g *kgraph.Graph, opts Options) Result {
	res := Result{
		NodesBefore: g.NodeCount(),
		EdgesBefore: g.EdgeCount(),
	}
	if opts.Collapse {
		res.Chains = CollapseChains(g)
	}
	if opts.DropIsolated {
		res.Isolated = RemoveIsolated(g)
	}
	res.NodesAfter = g.NodeCount()
	res.EdgesAfter = g.EdgeCount()
	return res
}
