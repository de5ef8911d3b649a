package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
)

// ReadJSON decodes a graph document from r.
//
// The input is a JSON object with "nodes" and "links" arrays and an optional
// "name" (string or list of strings) used as the graph title:
//
//	{
//	  "name": ["spironolactone", "lisinopril"],
//	  "nodes": [{"id": 1, "name": "spironolactone", "label": "group", "level": 0}],
//	  "links": [{"source": 1, "target": 2}]
//	}
//
// Node fields other than id are optional: name defaults to "", label (the
// category) to unknown, level to 1 and weight to 1.
//
// Problems with individual records never fail the import. They are collected
// in the returned Report and the record is skipped, defaulted or dropped:
//   - a node that cannot be decoded or has no id is skipped
//   - level and weight may be numbers or numeric strings; an integral float
//     such as 2.0 is a valid level
//   - a level that is negative or not an integer, or a weight that is not a
//     positive number, is reset to its default
//   - a label outside the known categories becomes unknown
//   - a repeated id replaces the earlier node's attributes
//   - a link that cannot be decoded, or names a missing node, is dropped
//
// ReadJSON returns an error only when r does not hold a JSON object of this
// shape. It does not close r.
func ReadJSON(r io.Reader) (*kgraph.Graph, Report, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, Report{}, fmt.Errorf("decode: %w", err)
	}

	g := kgraph.New()
	g.SetTitle(decodeTitle(doc.Name))

	var rep Report
	diag := func(d Diagnostic) { rep.Diagnostics = append(rep.Diagnostics, d) }

	for i, raw := range doc.Nodes {
		var n node
		if err := json.Unmarshal(raw, &n); err != nil {
			diag(Diagnostic{Kind: KindSkippedNode, Index: i, Reason: err.Error()})
			continue
		}
		if n.ID == "" {
			diag(Diagnostic{Kind: KindSkippedNode, Index: i, Reason: "missing id"})
			continue
		}
		id := string(n.ID)

		nd := kgraph.Node{
			ID:       id,
			Name:     n.Name,
			Category: kgraph.ParseCategory(n.Label),
			Level:    kgraph.DefaultLevel,
			Weight:   kgraph.DefaultWeight,
		}
		if n.Label != "" && !nd.Category.Known() {
			diag(Diagnostic{Kind: KindDefaultedField, Index: i, NodeID: id,
				Reason: fmt.Sprintf("unknown label %q", n.Label)})
		}
		if n.Level.set {
			switch lvl, ok := n.Level.integer(); {
			case !ok:
				diag(Diagnostic{Kind: KindDefaultedField, Index: i, NodeID: id,
					Reason: fmt.Sprintf("level %s is not an integer", n.Level.text)})
			case lvl < 0:
				diag(Diagnostic{Kind: KindDefaultedField, Index: i, NodeID: id,
					Reason: fmt.Sprintf("negative level %d", lvl)})
			default:
				nd.Level = lvl
			}
		}
		if n.Weight.set {
			switch {
			case !n.Weight.valid:
				diag(Diagnostic{Kind: KindDefaultedField, Index: i, NodeID: id,
					Reason: fmt.Sprintf("weight %s is not a number", n.Weight.text)})
			case n.Weight.value <= 0:
				diag(Diagnostic{Kind: KindDefaultedField, Index: i, NodeID: id,
					Reason: fmt.Sprintf("non-positive weight %g", n.Weight.value)})
			default:
				nd.Weight = n.Weight.value
			}
		}

		if g.HasNode(id) {
			diag(Diagnostic{Kind: KindReplacedNode, Index: i, NodeID: id, Reason: "duplicate id"})
		}
		// The id is non-empty, so AddNode cannot fail.
		_ = g.AddNode(nd)
	}

	for i, raw := range doc.Links {
		var l link
		if err := json.Unmarshal(raw, &l); err != nil {
			diag(Diagnostic{Kind: KindDroppedEdge, Index: i, Reason: err.Error()})
			continue
		}
		src, dst := string(l.Source), string(l.Target)
		if src == "" || dst == "" {
			diag(Diagnostic{Kind: KindDroppedEdge, Index: i, Source: src, Target: dst,
				Reason: "missing source or target"})
			continue
		}
		if err := g.AddEdge(src, dst); err != nil {
			var dangling *kgraph.DanglingEdgeError
			reason := err.Error()
			if errors.As(err, &dangling) {
				reason = dangling.Err.Error()
			}
			diag(Diagnostic{Kind: KindDroppedEdge, Index: i, Source: src, Target: dst, Reason: reason})
		}
	}

	rep.Nodes = g.NodeCount()
	rep.Edges = g.EdgeCount()
	return g, rep, nil
}

// ImportJSON reads the graph document at path. See [ReadJSON].
func ImportJSON(path string) (*kgraph.Graph, Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	g, rep, err := ReadJSON(f)
	if err != nil {
		return nil, Report{}, fmt.Errorf("%s: %w", path, err)
	}
	return g, rep, nil
}
