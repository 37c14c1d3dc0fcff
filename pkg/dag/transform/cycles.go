package transform

import "github.com/Arch-Mind/frontend-sub001/pkg/dag"

// BreakCycles makes g acyclic by reversing every back edge found by a
// depth-first search that starts from the sources and then from any node
// left unvisited, in insertion order. Reversed edges are marked
// [dag.Edge].Reversed. It returns the number of distinct edges reversed.
//
// The search keeps an explicit stack, so arbitrarily long chains are safe.
func BreakCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)
	type frame struct {
		id   string
		next int
	}

	color := make(map[string]int, g.NodeCount())
	seen := make(map[[2]string]bool)
	var back [][2]string

	visit := func(root string) {
		color[root] = gray
		stack := []frame{{id: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Children(top.id)
			if top.next == len(children) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}
			from, child := top.id, children[top.next]
			top.next++
			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child})
			case gray:
				if k := [2]string{from, child}; !seen[k] {
					seen[k] = true
					back = append(back, k)
				}
			}
		}
	}

	for _, n := range g.Sources() {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}
	for _, n := range g.Nodes() {
		if color[n.ID] == white {
			visit(n.ID)
		}
	}

	for _, e := range back {
		g.ReverseEdge(e[0], e[1])
	}
	return len(back)
}
