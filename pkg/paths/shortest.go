package paths

import (
	"slices"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
)

// ShortestFromRoot returns a shortest path to target from the first root, in
// insertion order, that reaches it. A root target yields [target] unless an
// earlier root reaches it. Returns nil when no root reaches target or target
// is unknown.
func ShortestFromRoot(g *kgraph.Graph, target string) []string {
	if !g.HasNode(target) {
		return nil
	}
	for _, r := range g.Roots() {
		if p := bfs(g, r, target); p != nil {
			return p
		}
	}
	return nil
}

func bfs(g *kgraph.Graph, from, to string) []string {
	if from == to {
		return []string{from}
	}
	parent := map[string]string{from: ""}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, s := range g.Successors(cur) {
			if _, seen := parent[s]; seen {
				continue
			}
			parent[s] = cur
			if s == to {
				path := []string{to}
				for n := cur; n != ""; n = parent[n] {
					path = append(path, n)
				}
				slices.Reverse(path)
				return path
			}
			queue = append(queue, s)
		}
	}
	return nil
}
