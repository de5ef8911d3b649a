package layout

import (
	"math"
	"slices"
	"testing"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
)

type lvlNode struct {
	id    string
	level int
}

func leveled(t *testing.T, nodes []lvlNode, edges [][2]string) *kgraph.Graph {
	t.Helper()
	g := kgraph.New()
	for _, n := range nodes {
		if err := g.AddNode(kgraph.Node{ID: n.id, Level: n.level}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestLayered_ThreeNodes(t *testing.T) {
	g := leveled(t,
		[]lvlNode{{"A", 0}, {"B", 1}, {"C", 1}},
		[][2]string{{"A", "B"}, {"A", "C"}},
	)

	l := Layered(g, Options{HorizontalGap: 100, VerticalGap: 200})

	want := map[string]Point{
		"A": {0, 0},
		"B": {-50, -200},
		"C": {50, -200},
	}
	for id, p := range want {
		if got, _ := l.At(id); got != p {
			t.Errorf("%s = %+v, want %+v", id, got, p)
		}
	}
	if len(l.Fallback) != 0 {
		t.Errorf("Fallback = %v, want none", l.Fallback)
	}
}

func TestLayered_BandsSymmetric(t *testing.T) {
	var nodes []lvlNode
	for i, id := range []string{"z", "a", "m", "b", "y", "c", "x"} {
		nodes = append(nodes, lvlNode{id, i % 3})
	}
	g := leveled(t, nodes, nil)

	l := Layered(g, Options{HorizontalGap: 30, VerticalGap: 70})

	bands := map[int][]string{}
	for _, n := range g.Nodes() {
		bands[n.Level] = append(bands[n.Level], n.ID)
	}
	for lvl, ids := range bands {
		var xs []float64
		for _, id := range ids {
			p, _ := l.At(id)
			if p.Y != -float64(lvl)*70 {
				t.Errorf("%s: y = %v, want %v", id, p.Y, -float64(lvl)*70)
			}
			xs = append(xs, p.X)
		}
		if !slices.IsSorted(xs) {
			t.Errorf("level %d: x not increasing in insertion order: %v", lvl, xs)
		}
		for i := range xs {
			if xs[i] != -xs[len(xs)-1-i] {
				t.Errorf("level %d: x not symmetric: %v", lvl, xs)
				break
			}
		}
	}
}

func TestLayered_SingleNodeCentered(t *testing.T) {
	g := leveled(t, []lvlNode{{"only", 3}}, nil)
	l := Layered(g, DefaultOptions())
	if p, _ := l.At("only"); p != (Point{0, -600}) {
		t.Errorf("only = %+v, want {0 -600}", p)
	}
}

func TestLayered_DefaultsForUnusableGaps(t *testing.T) {
	g := leveled(t, []lvlNode{{"A", 1}, {"B", 1}}, nil)
	tests := []struct {
		name string
		opts Options
	}{
		{"negative", Options{HorizontalGap: -5}},
		{"nan", Options{HorizontalGap: math.NaN(), VerticalGap: math.NaN()}},
		{"infinite", Options{HorizontalGap: math.Inf(1), VerticalGap: math.Inf(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Layered(g, tt.opts)
			if p, _ := l.At("B"); p != (Point{50, -200}) {
				t.Errorf("B = %+v, want {50 -200}", p)
			}
		})
	}
}

func TestTree_DefaultsForUnusableGaps(t *testing.T) {
	g := leveled(t, []lvlNode{{"A", 1}, {"B", 1}}, [][2]string{{"A", "B"}})
	l := Tree(g, "A", TreeOptions{Width: math.Inf(1), VerticalGap: math.NaN(), FallbackGap: math.NaN()})
	if p, _ := l.At("B"); p != (Point{0, -200}) {
		t.Errorf("B = %+v, want {0 -200}", p)
	}
}

func TestLayered_FallbackColumn(t *testing.T) {
	g := leveled(t,
		[]lvlNode{{"A", 0}, {"lost", -1}, {"B", 1}, {"C", 1}, {"gone", -3}},
		nil,
	)

	l := Layered(g, Options{HorizontalGap: 100, VerticalGap: 200})

	if !slices.Equal(l.Fallback, []string{"lost", "gone"}) {
		t.Fatalf("Fallback = %v, want [lost gone]", l.Fallback)
	}
	// Rightmost placed x is 50.
	if p, _ := l.At("lost"); p != (Point{150, -200}) {
		t.Errorf("lost = %+v, want {150 -200}", p)
	}
	if p, _ := l.At("gone"); p != (Point{150, -800}) {
		t.Errorf("gone = %+v, want {150 -800}", p)
	}
	if l.Len() != g.NodeCount() {
		t.Errorf("Len() = %d, want %d", l.Len(), g.NodeCount())
	}
}

func TestLayered_AllFallback(t *testing.T) {
	g := leveled(t, []lvlNode{{"A", -1}, {"B", -1}}, nil)
	l := Layered(g, DefaultOptions())
	if p, _ := l.At("A"); p != (Point{0, 0}) {
		t.Errorf("A = %+v, want origin", p)
	}
	if p, _ := l.At("B"); p != (Point{0, -200}) {
		t.Errorf("B = %+v, want {0 -200}", p)
	}
}

func TestLayered_Empty(t *testing.T) {
	l := Layered(kgraph.New(), DefaultOptions())
	if l.Len() != 0 || l.Bounds() != (Rect{}) {
		t.Errorf("empty layout = %+v", l)
	}
}

func TestLayered_Deterministic(t *testing.T) {
	g := leveled(t, []lvlNode{{"q", 2}, {"w", 0}, {"e", 2}, {"r", 1}}, [][2]string{{"w", "r"}})
	a := Layered(g, DefaultOptions())
	b := Layered(g.Clone(), DefaultOptions())
	for _, id := range a.Order {
		if a.Positions[id] != b.Positions[id] {
			t.Errorf("%s differs: %+v vs %+v", id, a.Positions[id], b.Positions[id])
		}
	}
}

func TestBounds(t *testing.T) {
	g := leveled(t, []lvlNode{{"A", 0}, {"B", 2}, {"C", 2}, {"D", 2}}, nil)
	r := Layered(g, DefaultOptions()).Bounds()
	want := Rect{MinX: -100, MinY: -400, MaxX: 100, MaxY: 0}
	if r != want {
		t.Errorf("Bounds() = %+v, want %+v", r, want)
	}
	if r.Width() != 200 || r.Height() != 400 {
		t.Errorf("size = %vx%v", r.Width(), r.Height())
	}
}

func TestNodeAt(t *testing.T) {
	g := leveled(t, []lvlNode{{"A", 0}, {"B", 1}, {"C", 1}}, nil)
	l := Layered(g, DefaultOptions())

	tests := []struct {
		x, y, tol float64
		want      string
		ok        bool
	}{
		{0, 0, 0, "A", true},
		{9, -9, 0, "A", true},
		{10, 0, 0, "", false},
		{-45, -195, 0, "B", true},
		{56, -200, 0, "C", true},
		{56, -200, 5, "", false},
	}
	for _, tt := range tests {
		got, ok := l.NodeAt(tt.x, tt.y, tt.tol)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NodeAt(%v, %v, %v) = %q, %v; want %q, %v", tt.x, tt.y, tt.tol, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTree(t *testing.T) {
	// D is shared by A and B; D → A closes a cycle.
	g := leveled(t,
		[]lvlNode{{"R", 1}, {"A", 1}, {"B", 1}, {"C", 1}, {"D", 1}, {"island", 1}},
		[][2]string{{"R", "A"}, {"R", "B"}, {"A", "C"}, {"A", "D"}, {"B", "D"}, {"D", "A"}},
	)

	l := Tree(g, "", TreeOptions{Width: 400, VerticalGap: 100})

	want := map[string]Point{
		"R": {0, 0},
		"A": {-100, -100},
		"B": {100, -100},
		"C": {-150, -200},
		"D": {-50, -200},
	}
	for id, p := range want {
		if got, _ := l.At(id); got != p {
			t.Errorf("%s = %+v, want %+v", id, got, p)
		}
	}
	if !slices.Equal(l.Fallback, []string{"island"}) {
		t.Errorf("Fallback = %v, want [island]", l.Fallback)
	}
	if p, _ := l.At("island"); p != (Point{200, -500}) {
		t.Errorf("island = %+v, want {200 -500}", p)
	}
}

func TestTree_ExplicitRootAndUnknown(t *testing.T) {
	g := leveled(t, []lvlNode{{"A", 1}, {"B", 1}}, [][2]string{{"A", "B"}, {"B", "A"}})

	l := Tree(g, "B", TreeOptions{})
	if p, _ := l.At("B"); p != (Point{0, 0}) {
		t.Errorf("B = %+v, want origin", p)
	}
	if p, _ := l.At("A"); p != (Point{0, -200}) {
		t.Errorf("A = %+v, want {0 -200}", p)
	}

	// Pure cycle: no roots, everything in the fallback column.
	l = Tree(g, "", TreeOptions{})
	if !slices.Equal(l.Fallback, []string{"A", "B"}) {
		t.Errorf("Fallback = %v, want [A B]", l.Fallback)
	}

	l = Tree(g, "missing", TreeOptions{})
	if len(l.Fallback) != 2 {
		t.Errorf("Fallback = %v, want both nodes", l.Fallback)
	}
}
