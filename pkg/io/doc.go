// Package io reads and writes knowledge graph documents.
//
// # JSON Format
//
// A graph document has a "nodes" array, a "links" array and an optional
// "name":
//
//	{
//	  "name": ["allopurinol"],
//	  "nodes": [
//	    {"id": 1, "name": "allopurinol", "label": "group", "level": 0},
//	    {"id": 2, "name": "xanthine oxidase", "label": "mechanism", "weight": 2}
//	  ],
//	  "links": [
//	    {"source": 1, "target": 2}
//	  ]
//	}
//
// Ids may be strings or integers; integers are converted to their decimal
// string form. The "label" field holds the node category (see
// [kgraph.ParseCategory]).
//
// # Import
//
// [ReadJSON] and [ImportJSON] build a fresh [kgraph.Graph] and return a
// [Report]. Bad records never abort the import: they become diagnostics and
// the rest of the document is used.
//
//	g, rep, err := io.ImportJSON("drug_allopurinol.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range rep.DroppedEdges() {
//	    log.Warn("dropped link", "source", d.Source, "target", d.Target)
//	}
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the same format back, typically after
// chain collapsing. [WriteLayoutJSON] writes node positions and highlight
// flags for front ends that draw the graph themselves.
//
// # Concurrency
//
// Reading creates an independent graph. Writing only reads g and must not
// race with mutations of it.
package io
