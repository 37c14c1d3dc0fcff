package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Arch-Mind/frontend-sub001/pkg/cluster"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m clusterModel, keys ...string) clusterModel {
	for _, k := range keys {
		next, _ := m.Update(key(k))
		m = next.(clusterModel)
	}
	return m
}

func testClusters() []cluster.Cluster {
	return []cluster.Cluster{
		{ID: "cluster-src", Path: "src", Depth: 1},
		{ID: "cluster-src/api", Path: "src/api", Depth: 2},
	}
}

func TestClusterModelToggle(t *testing.T) {
	loaded := cluster.NewState()
	m := newClusterModel("repo", testClusters(), loaded)

	m = press(m, "down", "space")
	if m.state.IsExpanded("cluster-src/api") {
		t.Error("space did not collapse the selected cluster")
	}
	if !m.state.IsExpanded("cluster-src") {
		t.Error("unselected cluster changed")
	}
	if !loaded.IsExpanded("cluster-src/api") {
		t.Error("model edited the loaded state in place")
	}
	if m.save {
		t.Error("save set before enter")
	}

	m = press(m, "enter")
	if !m.save {
		t.Error("enter did not request save")
	}
}

func TestClusterModelBulk(t *testing.T) {
	m := newClusterModel("repo", testClusters(), nil)

	m = press(m, "c")
	for _, c := range m.clusters {
		if m.state.IsExpanded(c.ID) {
			t.Errorf("%s expanded after collapse all", c.ID)
		}
	}
	m = press(m, "a")
	for _, c := range m.clusters {
		if !m.state.IsExpanded(c.ID) {
			t.Errorf("%s collapsed after expand all", c.ID)
		}
	}
}

func TestClusterModelCursorBounds(t *testing.T) {
	m := newClusterModel("repo", testClusters(), nil)
	m = press(m, "k", "k", "j", "j", "j")
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
}

func TestClusterModelView(t *testing.T) {
	st := cluster.NewState()
	st.Collapse("cluster-src/api")
	view := newClusterModel("github.com/acme/app", testClusters(), st).View()

	for _, want := range []string{"github.com/acme/app", "src/api", iconCollapsed, iconExpanded, "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q", want)
		}
	}
}
