package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
)

type outDocument struct {
	Name  string    `json:"name,omitempty"`
	Nodes []outNode `json:"nodes"`
	Links []outLink `json:"links"`
}

type outNode struct {
	ID     string  `json:"id"`
	Name   string  `json:"name,omitempty"`
	Label  string  `json:"label,omitempty"`
	Level  int     `json:"level"`
	Weight float64 `json:"weight"`
}

type outLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

func toOutNode(n kgraph.Node) outNode {
	out := outNode{ID: n.ID, Name: n.Name, Level: n.Level, Weight: n.Weight}
	if n.Category.Known() {
		out.Label = string(n.Category)
	}
	return out
}

// WriteJSON encodes g in the document format read by [ReadJSON] and writes it
// to w. Unknown categories are written without a label, so a graph survives
// a write/read round trip unchanged.
func WriteJSON(g *kgraph.Graph, w io.Writer) error {
	nodes := g.Nodes()
	edges := g.Edges()
	out := outDocument{
		Name:  g.Title(),
		Nodes: make([]outNode, len(nodes)),
		Links: make([]outLink, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = toOutNode(n)
	}
	for i, e := range edges {
		out.Links[i] = outLink{Source: e.From, Target: e.To}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *kgraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
