// Package kgraph provides the mutable directed-graph container behind the
// knowledge-graph visualizer.
//
// # Overview
//
// A knowledge graph describes drug interactions: nodes carry a semantic
// [Category] (prepare, action, metabol, ...) and a hierarchy level, edges
// describe causal or derivation relationships. Every other package (chain
// collapsing, layout, path queries, rendering) reads or rewrites a [Graph].
//
// # Basic Usage
//
//	g := kgraph.New()
//	g.AddNode(kgraph.Node{ID: "lisinopril", Category: kgraph.CategoryPrepare, Level: 0})
//	g.AddNode(kgraph.Node{ID: "ace", Category: kgraph.CategoryMechanism, Level: 1})
//	g.AddEdge("lisinopril", "ace")
//
// [Graph.AddNode] upserts: adding an existing ID replaces its attributes
// wholesale and keeps its insertion position. [Graph.AddEdge] only inserts
// an edge when both endpoints already exist; otherwise it returns a
// [*DanglingEdgeError] and leaves the graph unchanged. Callers that ingest
// untrusted data should report that error as a diagnostic and carry on.
//
// # Ordering
//
// Nodes and edges remember insertion order. [Graph.Nodes], [Graph.Roots],
// [Graph.IsolatedNodes], [Graph.Successors] and [Graph.Predecessors] all
// return results in that order, which makes layouts and query results
// reproducible across runs.
//
// # Degenerate Graphs
//
// Self-loops, cycles, graphs without roots and the empty graph are all valid.
// A self-loop counts towards both the in-degree and the out-degree of its
// node.
//
// # Concurrency
//
// Graph performs no internal locking. Concurrent readers are safe only while
// no mutation is in flight; hosts that serve several requests must guard
// rebuilds and rewrites with their own lock.
package kgraph
