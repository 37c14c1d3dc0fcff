package layout_test

import (
	"fmt"

	"github.com/Arch-Mind/frontend-sub001/pkg/layout"
)

func ExampleLayered() {
	nodes := []layout.Node{
		{ID: "main.go", Width: 100, Height: 30},
		{ID: "db.go", Width: 100, Height: 30},
	}
	edges := []layout.Edge{{ID: "e1", Source: "main.go", Target: "db.go"}}

	r := layout.Layered{RankSep: 50}.Layout(nodes, edges)
	fmt.Println(r["main.go"], r["db.go"])
	// Output: {0 0} {0 80}
}

func ExampleGet() {
	s, err := layout.Get("by-module")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(s.Name())

	_, err = layout.Get("radial")
	fmt.Println(err != nil)
	// Output:
	// by-module
	// true
}
