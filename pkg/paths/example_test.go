package paths_test

import (
	"fmt"

	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/kgraph"
	"github.com/KubrakovDmitry/the-graph-visualizer/pkg/paths"
)

func ExampleQuery() {
	g := kgraph.New()
	for _, id := range []string{"clarithromycin", "CYP3A4", "simvastatin", "myopathy"} {
		_ = g.AddNode(kgraph.Node{ID: id, Level: kgraph.DefaultLevel})
	}
	_ = g.AddEdge("clarithromycin", "CYP3A4")
	_ = g.AddEdge("CYP3A4", "simvastatin")
	_ = g.AddEdge("simvastatin", "myopathy")

	res := paths.Query(g, "simvastatin", paths.Options{})
	fmt.Println("ancestors:", res.Ancestors)
	fmt.Println("descendants:", res.Descendants)

	hs := paths.Highlight(g, res)
	fmt.Println("edges:", len(hs.Edges))
	// Output:
	// ancestors: [[clarithromycin CYP3A4 simvastatin]]
	// descendants: [[simvastatin myopathy]]
	// edges: 3
}
