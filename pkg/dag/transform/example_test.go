package transform_test

import (
	"fmt"

	"github.com/Arch-Mind/frontend-sub001/pkg/dag"
	"github.com/Arch-Mind/frontend-sub001/pkg/dag/transform"
)

func ExamplePrepare() {
	g := dag.New()
	for _, id := range []string{"main.go", "util.go", "db.go"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "main.go", To: "util.go"})
	_ = g.AddEdge(dag.Edge{From: "util.go", To: "db.go"})
	_ = g.AddEdge(dag.Edge{From: "main.go", To: "db.go"})

	s := transform.Prepare(g, 0)
	fmt.Println("rows:", s.Rows, "dummies:", s.Dummies)
	fmt.Println(g.Rows())
	// Output:
	// rows: 3 dummies: 1
	// [[main.go] [util.go main.go~db.go~1] [db.go]]
}
