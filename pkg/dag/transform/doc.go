// Package transform prepares a [dag.DAG] for layered layout.
//
// The steps run in this order:
//
//  1. [BreakCycles] reverses back edges so the graph is acyclic. Reversed
//     edges keep a mark so callers can draw them in their original
//     direction.
//  2. [AssignLayers] gives every node the row equal to its longest path
//     from a source.
//  3. [Subdivide] replaces edges that skip rows with chains of dummy
//     nodes. Afterwards [dag.DAG.Validate] succeeds.
//
// [Prepare] runs all three. Every step is iterative; deep or long graphs
// do not grow the goroutine stack.
package transform

import "github.com/Arch-Mind/frontend-sub001/pkg/dag"

// Stats reports what [Prepare] changed.
type Stats struct {
	Reversed int
	Dummies  int
	Rows     int
}

// Prepare breaks cycles, assigns rows and subdivides long edges in place.
func Prepare(g *dag.DAG, dummyWidth float64) Stats {
	var s Stats
	s.Reversed = BreakCycles(g)
	AssignLayers(g)
	s.Dummies = Subdivide(g, dummyWidth)
	if g.NodeCount() > 0 {
		s.Rows = g.MaxRow() + 1
	}
	return s
}
