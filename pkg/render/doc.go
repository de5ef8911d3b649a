// Package render draws knowledge graphs with Graphviz.
//
// # Overview
//
// [ToDOT] turns a graph into DOT source. Nodes are filled with their
// category color and labelled with their name, wrapped at [LabelWidth]
// runes. When a [layout.Layout] is supplied every node is pinned to its
// computed position and the graph is drawn with neato; otherwise dot ranks
// the graph top to bottom.
//
// A non-empty [paths.HighlightSet] emphasizes its nodes and edges and fades
// everything else, the same way the interactive viewers do.
//
// # Usage
//
//	l := layout.Layered(g, layout.DefaultOptions())
//	hs := paths.Highlight(g, paths.Query(g, "warfarin", paths.Options{}))
//	svg, err := render.Render(ctx, g, render.FormatSVG, render.Options{Layout: &l, Highlight: &hs})
//
// PDF and PNG are produced from the SVG with rsvg-convert (librsvg).
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package render
