package cluster

import (
	"testing"

	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
)

func fixture() ([]graph.Node, []graph.Edge, []Cluster) {
	nodes := []graph.Node{
		file("src/a.go", "src/a.go"),
		file("src/b.go", "src/b.go"),
		file("lib/c.go", "lib/c.go"),
		file("lib/d.go", "lib/d.go"),
		file("main.go", "main.go"),
	}
	edges := []graph.Edge{
		{ID: "1", Source: "src/a.go", Target: "src/b.go", Type: graph.EdgeCalls},
		{ID: "2", Source: "src/a.go", Target: "lib/c.go", Type: graph.EdgeImports},
		{ID: "3", Source: "main.go", Target: "src/a.go", Type: graph.EdgeImports},
		{ID: "4", Source: "lib/c.go", Target: "lib/d.go", Type: graph.EdgeCalls},
		{ID: "5", Source: "main.go", Target: "lib/d.go", Type: graph.EdgeImports},
	}
	return nodes, edges, Build(nodes, Options{MinSize: 2})
}

func ids[T any](items []T, id func(T) string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, it := range items {
		out[id(it)] = true
	}
	return out
}

func TestFilter_AllExpanded(t *testing.T) {
	nodes, edges, clusters := fixture()

	for _, state := range []*State{nil, NewState()} {
		v := Filter(nodes, edges, clusters, state)
		if len(v.Nodes) != len(nodes) || len(v.Edges) != len(edges) {
			t.Errorf("visible = %d nodes, %d edges, want all", len(v.Nodes), len(v.Edges))
		}
		if len(v.Placeholders) != 0 {
			t.Errorf("placeholders = %d, want 0", len(v.Placeholders))
		}
	}
}

func TestFilter_CollapsedCluster(t *testing.T) {
	nodes, edges, clusters := fixture()
	state := NewState()
	state.Set("cluster-src", false)
	state.Set("cluster-lib", true)

	v := Filter(nodes, edges, clusters, state)

	visible := ids(v.Nodes, func(n graph.Node) string { return n.ID })
	for _, c := range clusters {
		if c.ID != "cluster-src" {
			continue
		}
		for _, n := range c.Nodes {
			if visible[n.ID] {
				t.Errorf("member %s of collapsed cluster is visible", n.ID)
			}
		}
	}
	for _, e := range v.Edges {
		if !visible[e.Source] || !visible[e.Target] {
			t.Errorf("edge %s has a hidden endpoint", e.ID)
		}
	}

	gotEdges := ids(v.Edges, func(e graph.Edge) string { return e.ID })
	if len(gotEdges) != 2 || !gotEdges["4"] || !gotEdges["5"] {
		t.Errorf("visible edges = %v, want 4 and 5", gotEdges)
	}
	if len(v.Placeholders) != 1 || v.Placeholders[0].ID != "cluster-src" {
		t.Fatalf("placeholders = %+v", v.Placeholders)
	}
	if v.Placeholders[0].Metrics.Files != 2 {
		t.Errorf("placeholder files = %d, want 2", v.Placeholders[0].Metrics.Files)
	}
	if v.Hidden != 2 {
		t.Errorf("hidden = %d, want 2", v.Hidden)
	}
	if !visible["main.go"] {
		t.Error("unclustered node hidden")
	}
}

func TestFilter_StaleStateIgnored(t *testing.T) {
	nodes, edges, clusters := fixture()
	state := NewState()
	state.Set("cluster-gone", false)

	v := Filter(nodes, edges, clusters, state)
	if len(v.Nodes) != len(nodes) || len(v.Placeholders) != 0 {
		t.Errorf("stale entry affected output: %d nodes, %d placeholders", len(v.Nodes), len(v.Placeholders))
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	nodes, edges, clusters := fixture()
	state := NewState()
	state.CollapseAll(clusters)

	Filter(nodes, edges, clusters, state)
	if len(nodes) != 5 || len(edges) != 5 || nodes[0].ID != "src/a.go" {
		t.Error("input mutated")
	}
}

func TestPlaceholderNode(t *testing.T) {
	p := Placeholder{ID: "cluster-src", Label: "src", Path: "src", Depth: 1}
	n := p.Node()
	if n.ID != "cluster-src" || n.Type != graph.NodeDirectory || n.FilePath != "src" {
		t.Errorf("node = %+v", n)
	}
}
