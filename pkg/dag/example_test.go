package dag_test

import (
	"fmt"

	"github.com/Arch-Mind/frontend-sub001/pkg/dag"
)

func ExampleDAG_basic() {
	// app imports lib, lib imports core
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "app", Row: 0})
	_ = g.AddNode(dag.Node{ID: "lib", Row: 1})
	_ = g.AddNode(dag.Node{ID: "core", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.Rows())
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: [[app] [lib] [core]]
	// Valid: true
}

func ExampleCountLayerCrossings() {
	g := dag.New()
	for _, id := range []string{"a", "b", "x", "y"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	fmt.Println(dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"x", "y"}))
	fmt.Println(dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"y", "x"}))
	// Output:
	// 1
	// 0
}
