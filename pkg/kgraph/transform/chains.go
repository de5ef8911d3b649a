package transform

import "github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"

// Chain is a collapsed run of nodes, listed in walk order. The last element
// is the node that survived the rewrite.
type Chain []string

// Last returns the surviving node of the chain.
func (c Chain) Last() string { return c[len(c)-1] }

// CollapseChains merges every maximal run of same-category nodes linked by
// unique edges into a single edge, rewriting g in place.
//
// Nodes are visited in insertion order. From an unvisited node n the walk
// extends to the next node while:
//   - the current node has exactly one outgoing edge,
//   - that edge is not a self-loop,
//   - the next node has exactly one incoming edge,
//   - the next node has n's category,
//   - the next node is not already part of the chain.
//
// For a run of two or more nodes, every predecessor p of the first node
// (other than the last node) gets an edge p -> last, and all chain nodes
// except the last are removed together with their edges.
//
// Interior chain nodes have out-degree 1. The rewrite relies on it: the last
// node's own outgoing edges are the only ones the chain had, so nothing is
// lost when the interior disappears.
//
// After CollapseChains no edge u -> v with out-degree(u) == 1,
// in-degree(v) == 1 and equal categories remains, and running it again is a
// no-op. The returned chains are in discovery order.
//
// # Performance
//
// Each node is walked at most once. Removals cost O(V+E) each, so the worst
// case is O(V·(V+E)); graphs of this domain stay in the low thousands.
func CollapseChains(g *kgraph.Graph) []Chain {
	var chains []Chain
	absorbed := make(map[string]struct{})

	for _, start := range g.NodeIDs() {
		if _, done := absorbed[start]; done {
			continue
		}
		if !g.HasNode(start) {
			continue
		}

		chain := walkChain(g, start)
		if len(chain) < 2 {
			continue
		}
		for _, id := range chain {
			absorbed[id] = struct{}{}
		}
		rewriteChain(g, chain)
		chains = append(chains, chain)
	}
	return chains
}

func walkChain(g *kgraph.Graph, start string) Chain {
	first, _ := g.Node(start)
	chain := Chain{start}
	onChain := map[string]struct{}{start: {}}

	current := start
	for {
		if g.OutDegree(current) != 1 {
			break
		}
		next := g.Successors(current)[0]
		if next == current {
			break
		}
		if _, seen := onChain[next]; seen {
			break
		}
		if g.InDegree(next) != 1 {
			break
		}
		if n, _ := g.Node(next); n.Category != first.Category {
			break
		}
		chain = append(chain, next)
		onChain[next] = struct{}{}
		current = next
	}
	return chain
}

func rewriteChain(g *kgraph.Graph, chain Chain) {
	last := chain.Last()
	preds := append([]string(nil), g.Predecessors(chain[0])...)
	for _, p := range preds {
		if p == last {
			continue
		}
		// Both endpoints exist, so this cannot fail.
		_ = g.AddEdge(p, last)
	}
	for _, id := range chain[:len(chain)-1] {
		g.RemoveNode(id)
	}
}
