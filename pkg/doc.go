// Package pkg provides the libraries behind graphvis, a viewer for drug
// interaction knowledge graphs.
//
// # Overview
//
// A graph document lists drugs, the mechanisms and effects they lead to, and
// the links between them. Every node carries a category (group, prepare,
// mechanism, side effect, ...) and a level. The packages are organized as:
//
//  1. [kgraph] - the graph store and its transforms (chain collapse, isolated nodes)
//  2. [io] - reading graph documents and writing layout documents
//  3. [layout] - layered and tree coordinates, hit testing
//  4. [paths] - ancestor, descendant and shortest paths, highlight sets
//  5. [render] - DOT, SVG, PNG and PDF output through Graphviz
//  6. [pipeline] - orchestration (ingest → prepare → layout → query → render)
//  7. [cache], [session], [config], [observability], [errors] - infrastructure
//
// # Data Flow
//
//	graph.json
//	     ↓
//	[io.ReadJSON] → [kgraph.Graph] + diagnostics
//	     ↓
//	[transform.Prepare] (collapse chains, drop isolated nodes)
//	     ↓
//	[layout.Layered] or [layout.Tree]
//	     ↓
//	[paths.Query] → [paths.HighlightSet]
//	     ↓
//	[render] → SVG / DOT / PNG / PDF, or [io.LayoutDocument] as JSON
//
// The command line tool, HTTP server and MCP server in internal/ are thin
// layers over [pipeline.Runner].
package pkg
