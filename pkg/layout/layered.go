package layout

import (
	"math"
	"slices"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
)

// Options configures [Layered].
type Options struct {
	HorizontalGap float64 `json:"horizontal_gap" toml:"horizontal_gap"`
	VerticalGap   float64 `json:"vertical_gap" toml:"vertical_gap"`
}

// DefaultOptions returns the spacing used when none is configured.
func DefaultOptions() Options {
	return Options{HorizontalGap: DefaultHorizontalGap, VerticalGap: DefaultVerticalGap}
}

// WithDefaults replaces gaps that are not positive finite numbers with the
// defaults.
func (o Options) WithDefaults() Options {
	if !usable(o.HorizontalGap) {
		o.HorizontalGap = DefaultHorizontalGap
	}
	if !usable(o.VerticalGap) {
		o.VerticalGap = DefaultVerticalGap
	}
	return o
}

// usable reports whether v is a positive finite distance. NaN fails the
// comparison.
func usable(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// Layered places nodes in horizontal bands by level.
//
// A node on level L gets y = -L * VerticalGap. The k nodes of a level are
// spread in insertion order at
//
//	x_i = i*HorizontalGap - (k-1)*HorizontalGap/2
//
// so every band is centered on x = 0. Nodes with a negative level are not
// part of any band and go to the fallback column (see [Layout.Fallback]).
//
// The result is a pure function of the graph and options.
func Layered(g *kgraph.Graph, opts Options) Layout {
	opts = opts.WithDefaults()

	bands := make(map[int][]string)
	for _, n := range g.Nodes() {
		if n.Level < 0 {
			continue
		}
		bands[n.Level] = append(bands[n.Level], n.ID)
	}

	pos := make(map[string]Point, g.NodeCount())
	levels := make([]int, 0, len(bands))
	for lvl := range bands {
		levels = append(levels, lvl)
	}
	slices.Sort(levels)

	for _, lvl := range levels {
		ids := bands[lvl]
		y := float64(-lvl) * opts.VerticalGap
		offset := float64(len(ids)-1) * opts.HorizontalGap / 2
		for i, id := range ids {
			pos[id] = Point{X: float64(i)*opts.HorizontalGap - offset, Y: y}
		}
	}

	fallback := placeFallback(g, pos, opts.HorizontalGap, opts.VerticalGap)
	return Layout{Positions: pos, Order: g.NodeIDs(), Fallback: fallback}
}
