package transform

import "github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"

// RemoveIsolated deletes every node without incoming or outgoing edges and
// returns their IDs in insertion order. Nodes that only have a self-loop are
// not isolated and are kept.
func RemoveIsolated(g *kgraph.Graph) []string {
	isolated := g.IsolatedNodes()
	for _, id := range isolated {
		g.RemoveNode(id)
	}
	return isolated
}
