package layout_test

import (
	"fmt"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/layout"
)

func ExampleLayered() {
	g := kgraph.New()
	_ = g.AddNode(kgraph.Node{ID: "ibuprofen", Level: 0})
	_ = g.AddNode(kgraph.Node{ID: "COX-1", Level: 1})
	_ = g.AddNode(kgraph.Node{ID: "COX-2", Level: 1})
	_ = g.AddEdge("ibuprofen", "COX-1")
	_ = g.AddEdge("ibuprofen", "COX-2")

	l := layout.Layered(g, layout.Options{HorizontalGap: 100, VerticalGap: 200})
	for _, id := range l.Order {
		p, _ := l.At(id)
		fmt.Printf("%s (%g, %g)\n", id, p.X, p.Y)
	}
	// Output:
	// ibuprofen (0, 0)
	// COX-1 (-50, -200)
	// COX-2 (50, -200)
}

func ExampleLayout_NodeAt() {
	g := kgraph.New()
	_ = g.AddNode(kgraph.Node{ID: "aspirin", Level: 1})

	l := layout.Layered(g, layout.DefaultOptions())
	id, ok := l.NodeAt(4, -197, 0)
	fmt.Println(id, ok)
	// Output: aspirin true
}
