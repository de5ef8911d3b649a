package layout

import (
	"math"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
)

// Default spacing between layout slots, in presentation units.
const (
	DefaultHorizontalGap = 100.0
	DefaultVerticalGap   = 200.0
)

// DefaultHitTolerance is the half-width of the box [Layout.NodeAt] accepts
// around a node center.
const DefaultHitTolerance = 10.0

// Point is a node center.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned bounding box.
type Rect struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

// Width returns MaxX - MinX.
func (r Rect) Width() float64 { return r.MaxX - r.MinX }

// Height returns MaxY - MinY.
func (r Rect) Height() float64 { return r.MaxY - r.MinY }

// Layout maps every node of a graph to a coordinate.
//
// Order lists node IDs in graph insertion order. Fallback lists, in the same
// order, the nodes that the layout pass could not place and that were put in
// the fallback column instead.
type Layout struct {
	Positions map[string]Point `json:"positions"`
	Order     []string         `json:"order"`
	Fallback  []string         `json:"fallback,omitempty"`
}

// At returns the position of id.
func (l Layout) At(id string) (Point, bool) {
	p, ok := l.Positions[id]
	return p, ok
}

// Len returns the number of positioned nodes.
func (l Layout) Len() int { return len(l.Positions) }

// Bounds returns the bounding box of all positions. An empty layout has a
// zero Rect.
func (l Layout) Bounds() Rect {
	if len(l.Order) == 0 {
		return Rect{}
	}
	r := Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, id := range l.Order {
		p := l.Positions[id]
		r.MinX = min(r.MinX, p.X)
		r.MinY = min(r.MinY, p.Y)
		r.MaxX = max(r.MaxX, p.X)
		r.MaxY = max(r.MaxY, p.Y)
	}
	return r
}

// NodeAt returns the first node, in insertion order, whose center lies
// strictly within tolerance of (x, y) on both axes. A non-positive tolerance
// means [DefaultHitTolerance].
func (l Layout) NodeAt(x, y, tolerance float64) (string, bool) {
	if tolerance <= 0 {
		tolerance = DefaultHitTolerance
	}
	for _, id := range l.Order {
		p := l.Positions[id]
		if math.Abs(p.X-x) < tolerance && math.Abs(p.Y-y) < tolerance {
			return id, true
		}
	}
	return "", false
}

// placeFallback gives every node of g missing from pos a position in a
// single column one horizontal gap right of the rightmost placed node (x = 0
// when nothing was placed), stacked downward by insertion index. It returns
// the IDs it placed.
func placeFallback(g *kgraph.Graph, pos map[string]Point, hgap, vgap float64) []string {
	ids := g.NodeIDs()
	if len(pos) == len(ids) {
		return nil
	}

	x := 0.0
	if len(pos) > 0 {
		maxX := math.Inf(-1)
		for _, p := range pos {
			maxX = max(maxX, p.X)
		}
		x = maxX + hgap
	}

	var placed []string
	for i, id := range ids {
		if _, ok := pos[id]; ok {
			continue
		}
		pos[id] = Point{X: x, Y: float64(-i) * vgap}
		placed = append(placed, id)
	}
	return placed
}
