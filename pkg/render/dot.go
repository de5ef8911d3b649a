package render

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/layout"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/paths"
)

// LabelWidth is the number of runes after which node labels wrap.
const LabelWidth = 18

// DefaultScale converts layout units to points.
const DefaultScale = 1.5

const (
	edgeColor    = "#D3D3D3"
	fadedAlpha   = 0x1A // ~10% opacity for nodes off the highlighted paths
	fadedEdge    = 0x4D // ~30% for edges
	highlightPen = "2"
)

// Options configures DOT generation.
type Options struct {
	// Layout pins every node to its position. Nil lets dot place nodes.
	Layout *layout.Layout

	// Highlight emphasizes a node and edge set. Nil or empty draws
	// everything at full opacity.
	Highlight *paths.HighlightSet

	// Scale multiplies layout coordinates. Zero means DefaultScale.
	Scale float64
}

// Pinned reports whether the options carry fixed node positions.
func (o Options) Pinned() bool { return o.Layout != nil }

// ToDOT converts g to Graphviz DOT source.
func ToDOT(g *kgraph.Graph, opts Options) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultScale
	}
	hs := opts.Highlight
	active := hs != nil && !hs.Empty()

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if opts.Pinned() {
		buf.WriteString("  inputscale=72;\n")
		buf.WriteString("  splines=true;\n")
	} else {
		buf.WriteString("  rankdir=TB;\n")
		buf.WriteString("  ranksep=0.8;\n")
		buf.WriteString("  nodesep=0.3;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if t := g.Title(); t != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontsize=20;\n", t)
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12, margin=\"0.15,0.05\"];\n")
	fmt.Fprintf(&buf, "  edge [color=%q, arrowsize=0.6];\n", edgeColor)
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := nodeAttrs(n, active && !hs.HasNode(n.ID))
		if opts.Pinned() {
			if p, ok := opts.Layout.At(n.ID); ok {
				attrs = append(attrs, fmt.Sprintf("pos=\"%.2f,%.2f!\"", p.X*scale, p.Y*scale))
			}
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		switch {
		case active && hs.HasEdge(e.From, e.To):
			fmt.Fprintf(&buf, "  %q -> %q [color=black, penwidth=%s];\n", e.From, e.To, highlightPen)
		case active:
			fmt.Fprintf(&buf, "  %q -> %q [color=%q];\n", e.From, e.To, faded(edgeColor, fadedEdge))
		default:
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n kgraph.Node, dim bool) []string {
	name := n.Name
	if name == "" {
		name = n.ID
	}
	fill := Color(n.Category)
	font := fontColor(n.Category)
	if dim {
		fill = faded(fill, fadedAlpha)
		font = faded("#000000", 0x66)
	}
	return []string{
		fmt.Sprintf("label=%q", WrapLabel(name, LabelWidth)),
		fmt.Sprintf("tooltip=%q", fmt.Sprintf("%s (%s, level %d)", name, n.Category, n.Level)),
		fmt.Sprintf("fillcolor=%q", fill),
		fmt.Sprintf("fontcolor=%q", font),
	}
}

// WrapLabel breaks s into lines of at most width runes, preferring
// spaces. Words longer than width are split.
func WrapLabel(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}

	var lines []string
	var line []rune
	flush := func() {
		if len(line) > 0 {
			lines = append(lines, string(line))
			line = line[:0]
		}
	}
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		for len(w) > width {
			flush()
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(line) == 0:
			line = append(line, w...)
		case len(line)+1+len(w) <= width:
			line = append(line, ' ')
			line = append(line, w...)
		default:
			flush()
			line = append(line, w...)
		}
	}
	flush()
	return strings.Join(lines, "\n")
}
