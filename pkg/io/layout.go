package io

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/layout"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/paths"
)

// LayoutDocument is the JSON form of a positioned graph, ready for a
// front end to draw.
type LayoutDocument struct {
	Title    string       `json:"title,omitempty"`
	Bounds   layout.Rect  `json:"bounds"`
	Nodes    []LayoutNode `json:"nodes"`
	Edges    []LayoutEdge `json:"edges"`
	Fallback []string     `json:"fallback,omitempty"`
	Target   string       `json:"target,omitempty"`
}

// LayoutNode is a node with its position.
type LayoutNode struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Label       string  `json:"label"`
	Level       int     `json:"level"`
	Weight      float64 `json:"weight"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Highlighted bool    `json:"highlighted,omitempty"`
}

// LayoutEdge is a stored edge.
type LayoutEdge struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Highlighted bool   `json:"highlighted,omitempty"`
}

// NewLayoutDocument combines g, its layout l and an optional highlight set.
func NewLayoutDocument(g *kgraph.Graph, l layout.Layout, hs *paths.HighlightSet) LayoutDocument {
	var hn map[string]struct{}
	var he map[kgraph.Edge]struct{}
	if hs != nil {
		hn = make(map[string]struct{}, len(hs.Nodes))
		for _, id := range hs.Nodes {
			hn[id] = struct{}{}
		}
		he = make(map[kgraph.Edge]struct{}, len(hs.Edges))
		for _, e := range hs.Edges {
			he[e] = struct{}{}
		}
	}

	nodes := g.Nodes()
	edges := g.Edges()
	doc := LayoutDocument{
		Title:    g.Title(),
		Bounds:   l.Bounds(),
		Nodes:    make([]LayoutNode, len(nodes)),
		Edges:    make([]LayoutEdge, len(edges)),
		Fallback: l.Fallback,
	}
	for i, n := range nodes {
		p, _ := l.At(n.ID)
		_, lit := hn[n.ID]
		doc.Nodes[i] = LayoutNode{
			ID: n.ID, Name: n.Name, Label: string(n.Category),
			Level: n.Level, Weight: n.Weight,
			X: p.X, Y: p.Y, Highlighted: lit,
		}
	}
	for i, e := range edges {
		_, lit := he[e]
		doc.Edges[i] = LayoutEdge{From: e.From, To: e.To, Highlighted: lit}
	}
	return doc
}

// WriteLayoutJSON writes the positioned graph to w. hs may be nil.
func WriteLayoutJSON(w io.Writer, g *kgraph.Graph, l layout.Layout, hs *paths.HighlightSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewLayoutDocument(g, l, hs)); err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	return nil
}
