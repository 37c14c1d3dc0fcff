package transform

import (
	"fmt"

	"github.com/Arch-Mind/frontend-sub001/pkg/dag"
)

// Subdivide replaces every edge spanning more than one row with a chain of
// [dag.NodeKindDummy] nodes, one per intermediate row, so all edges connect
// consecutive rows:
//
//	Before: app (row 0) -> core (row 3)
//	After:  app -> app~core~1 -> app~core~2 -> core
//
// Dummies get the given width and zero height and carry the original
// source as MasterID. It returns the number of dummies added.
func Subdivide(g *dag.DAG, dummyWidth float64) int {
	gen := newIDGen(g.Nodes())
	added := 0

	for _, e := range g.Edges() {
		src, _ := g.Node(e.From)
		dst, _ := g.Node(e.To)
		if dst.Row <= src.Row+1 {
			continue
		}

		g.RemoveEdge(e.From, e.To)
		prev := src.ID
		for row := src.Row + 1; row < dst.Row; row++ {
			id := gen.next(fmt.Sprintf("%s~%s~%d", src.ID, dst.ID, row))
			_ = g.AddNode(dag.Node{
				ID:       id,
				Row:      row,
				Width:    dummyWidth,
				Kind:     dag.NodeKindDummy,
				MasterID: src.ID,
			})
			_ = g.AddEdge(dag.Edge{From: prev, To: id, Reversed: e.Reversed})
			prev = id
			added++
		}
		_ = g.AddEdge(dag.Edge{From: prev, To: dst.ID, Reversed: e.Reversed})
	}
	return added
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string) string {
	id := base
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", base, i)
	}
}
