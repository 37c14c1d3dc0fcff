package layout

import (
	"testing"

	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
)

func TestByFile(t *testing.T) {
	nodes, _ := sample()
	r := ByFile{}.Layout(nodes, nil)

	if r["src"].X != 0 || r["src/a.ts"].X != 0 {
		t.Errorf("owners should be flush left: %+v", r)
	}
	if r["src/a.ts::run"].X != DefaultIndent {
		t.Errorf("symbol X = %v, want %v", r["src/a.ts::run"].X, DefaultIndent)
	}
	// run belongs to a.ts by ParentID, Store to b.ts by FilePath.
	if !(r["src/a.ts"].Y < r["src/a.ts::run"].Y && r["src/a.ts::run"].Y < r["src/b.ts"].Y) {
		t.Errorf("run not listed under a.ts: %+v", r)
	}
	if !(r["src/b.ts"].Y < r["src/b.ts::Store"].Y && r["src/b.ts::Store"].Y < r["lib/util.ts"].Y) {
		t.Errorf("Store not listed under b.ts: %+v", r)
	}
}

func TestByFileOrphans(t *testing.T) {
	nodes := []Node{
		{ID: "a.go", Height: 30, Type: graph.NodeFile},
		{ID: "loose", Height: 20, Type: graph.NodeFunction},
	}
	r := ByFile{}.Layout(nodes, nil)
	if r["loose"].X != 0 || r["loose"].Y <= r["a.go"].Y {
		t.Errorf("orphan placement: %+v", r)
	}
}

func TestByModule(t *testing.T) {
	nodes := []Node{
		{ID: "src/ui/button.ts", Height: 30, Type: graph.NodeFile, FilePath: "src/ui/button.ts"},
		{ID: "src/main.ts", Height: 30, Type: graph.NodeFile, FilePath: "src/main.ts"},
		{ID: "src", Height: 40, Type: graph.NodeDirectory},
		{ID: "README.md", Height: 30, Type: graph.NodeFile},
		{ID: "helper", Height: 20, Type: graph.NodeFunction},
	}
	r := ByModule{}.Layout(nodes, nil)

	if r["README.md"].X != 0 {
		t.Errorf("top-level file X = %v, want 0", r["README.md"].X)
	}
	if r["src"].X != DefaultLevelIndent || r["src/main.ts"].X != DefaultLevelIndent {
		t.Errorf("src module X = %v/%v, want %v", r["src"].X, r["src/main.ts"].X, DefaultLevelIndent)
	}
	if r["src/ui/button.ts"].X != 2*DefaultLevelIndent {
		t.Errorf("src/ui X = %v, want %v", r["src/ui/button.ts"].X, 2*DefaultLevelIndent)
	}
	if !(r["src"].Y < r["src/main.ts"].Y && r["src/main.ts"].Y < r["src/ui/button.ts"].Y) {
		t.Errorf("outline order wrong: %+v", r)
	}
	for id, p := range r {
		if id != "helper" && p.Y >= r["helper"].Y {
			t.Errorf("pathless node should trail, but %s is below it", id)
		}
	}
}

func TestByModuleDeepPaths(t *testing.T) {
	path := "d"
	for range 3000 {
		path += "/d"
	}
	nodes := []Node{{ID: path + "/f.go", Height: 10, Type: graph.NodeFile}}
	r := ByModule{}.Layout(nodes, nil)
	if len(r) != 1 {
		t.Fatalf("got %d positions", len(r))
	}
}
