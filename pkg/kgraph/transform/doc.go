// Package transform provides in-place rewrites that simplify a knowledge
// graph before layout.
//
// # Chain Collapsing
//
// Knowledge graphs extracted from drug monographs often contain long runs of
// single-parent, single-child nodes of the same category ("prepare" steps,
// successive metabolites). [CollapseChains] replaces every maximal run with
// one edge from the run's predecessors to its last node:
//
//	Before: Z → A → B → C → D   (A..D all "prepare", Z "group")
//	After:  Z → D
//
// Self-loops and cycles terminate a run, so collapsing always finishes and
// never produces self-loops. The rewrite is idempotent.
//
// # Isolated Nodes
//
// [RemoveIsolated] drops nodes that have no edges at all.
//
// # Usage
//
//	res := transform.Prepare(g, transform.Options{Collapse: true})
//	fmt.Println(res.Collapsed(), "nodes merged")
package transform
