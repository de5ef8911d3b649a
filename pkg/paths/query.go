package paths

import (
	"slices"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
)

// DefaultMaxDepth bounds descendant paths, in edges, when Options.MaxDepth
// is not positive.
const DefaultMaxDepth = 12

// Options configures [Query].
type Options struct {
	// MaxDepth is the longest descendant path reported, in edges.
	MaxDepth int `json:"max_depth" toml:"max_depth"`
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Result holds the paths through a query node. Every path is a list of node
// IDs in edge direction.
type Result struct {
	Target string `json:"target"`
	// Ancestors are all simple paths from a root to Target, root first.
	Ancestors [][]string `json:"ancestor_paths"`
	// Descendants are all simple paths leaving Target, up to MaxDepth edges,
	// in pre-order: each path is followed by its extensions.
	Descendants [][]string `json:"descendant_paths"`
}

// Empty reports whether the query found no paths at all.
func (r Result) Empty() bool { return len(r.Ancestors) == 0 && len(r.Descendants) == 0 }

// Query finds every path used to highlight q. An unknown q yields empty path
// sets. g is only read.
func Query(g *kgraph.Graph, q string, opts Options) Result {
	res := Result{Target: q, Ancestors: [][]string{}, Descendants: [][]string{}}
	if !g.HasNode(q) {
		return res
	}
	res.Ancestors = ancestors(g, q)
	res.Descendants = descendants(g, q, opts.maxDepth())
	return res
}

// frame is one level of an explicit DFS: the node and the index of the next
// neighbor to try.
type frame struct {
	id   string
	next int
}

// ancestors walks predecessor edges from q. Each time the walk stands on a
// root the current path, reversed, is one ancestor path. The on-path set
// keeps paths simple, so cycles terminate.
func ancestors(g *kgraph.Graph, q string) [][]string {
	if g.InDegree(q) == 0 {
		return [][]string{{q}}
	}

	out := [][]string{}
	path := []string{q}
	onPath := map[string]struct{}{q: {}}
	stack := []frame{{id: q}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		preds := g.Predecessors(top.id)
		if top.next >= len(preds) {
			stack = stack[:len(stack)-1]
			delete(onPath, path[len(path)-1])
			path = path[:len(path)-1]
			continue
		}
		p := preds[top.next]
		top.next++
		if _, seen := onPath[p]; seen {
			continue
		}
		path = append(path, p)
		if g.InDegree(p) == 0 {
			found := slices.Clone(path)
			slices.Reverse(found)
			out = append(out, found)
			path = path[:len(path)-1]
			continue
		}
		onPath[p] = struct{}{}
		stack = append(stack, frame{id: p})
	}
	return out
}

// descendants records every simple path leaving q, in pre-order, stopping
// extension at maxDepth edges.
func descendants(g *kgraph.Graph, q string, maxDepth int) [][]string {
	out := [][]string{}
	path := []string{q}
	onPath := map[string]struct{}{q: {}}
	stack := []frame{{id: q}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		succ := g.Successors(top.id)
		if top.next >= len(succ) || len(path)-1 >= maxDepth {
			stack = stack[:len(stack)-1]
			delete(onPath, path[len(path)-1])
			path = path[:len(path)-1]
			continue
		}
		s := succ[top.next]
		top.next++
		if _, seen := onPath[s]; seen {
			continue
		}
		path = append(path, s)
		onPath[s] = struct{}{}
		out = append(out, slices.Clone(path))
		stack = append(stack, frame{id: s})
	}
	return out
}
