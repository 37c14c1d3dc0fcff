package transform

import (
	"testing"

	"github.com/Arch-Mind/frontend-sub001/pkg/dag"
)

func TestAssignLayers(t *testing.T) {
	g := build(t,
		[]string{"app", "auth", "db", "log", "lonely"},
		[][2]string{{"app", "auth"}, {"app", "db"}, {"auth", "db"}, {"db", "log"}},
	)
	AssignLayers(g)

	want := map[string]int{"app": 0, "auth": 1, "db": 2, "log": 3, "lonely": 0}
	for id, row := range want {
		n, _ := g.Node(id)
		if n.Row != row {
			t.Errorf("%s.Row = %d, want %d", id, n.Row, row)
		}
	}
}

func TestSubdivide(t *testing.T) {
	g := build(t,
		[]string{"app", "auth", "db"},
		[][2]string{{"app", "auth"}, {"auth", "db"}, {"app", "db"}},
	)
	AssignLayers(g)
	added := Subdivide(g, 10)

	if added != 1 {
		t.Fatalf("Subdivide() added %d dummies, want 1", added)
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	var dummy *dag.Node
	for _, n := range g.Nodes() {
		if n.IsDummy() {
			dummy = n
		}
	}
	if dummy == nil || dummy.Row != 1 || dummy.MasterID != "app" || dummy.Width != 10 {
		t.Errorf("unexpected dummy: %+v", dummy)
	}
}

func TestPrepare(t *testing.T) {
	g := build(t,
		[]string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "a"}, {"a", "d"}, {"c", "d"}},
	)
	s := Prepare(g, 0)
	if s.Reversed != 1 {
		t.Errorf("Reversed = %d, want 1", s.Reversed)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() after Prepare = %v", err)
	}
	if s.Rows != g.MaxRow()+1 {
		t.Errorf("Rows = %d, want %d", s.Rows, g.MaxRow()+1)
	}
}

func TestPrepareEmpty(t *testing.T) {
	s := Prepare(dag.New(), 0)
	if s != (Stats{}) {
		t.Errorf("Prepare(empty) = %+v, want zero", s)
	}
}
