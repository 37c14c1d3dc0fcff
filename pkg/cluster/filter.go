package cluster

import "github.com/Arch-Mind/frontend-sub001/pkg/graph"

// Placeholder stands in for a collapsed cluster in the visible graph.
type Placeholder struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Path    string  `json:"path"`
	Depth   int     `json:"depth"`
	Metrics Metrics `json:"metrics"`
}

// Node returns the placeholder as a graph node so layout strategies can
// place it like any other directory.
func (p Placeholder) Node() graph.Node {
	return graph.Node{
		ID:       p.ID,
		Label:    p.Label,
		Type:     graph.NodeDirectory,
		FilePath: p.Path,
		Depth:    p.Depth,
	}
}

// Visible is the node/edge subset left after applying cluster state.
type Visible struct {
	Nodes        []graph.Node
	Edges        []graph.Edge
	Placeholders []Placeholder
	Hidden       int
}

// Filter applies cluster state to a graph. A node in a cluster is visible
// unless the cluster is explicitly collapsed; nodes in no cluster are
// always visible. Each collapsed cluster yields one placeholder. An edge is
// visible only when both endpoints are visible.
//
// Inputs are not modified.
func Filter(nodes []graph.Node, edges []graph.Edge, clusters []Cluster, state *State) Visible {
	collapsed := make(map[string]bool)
	var v Visible
	for _, c := range clusters {
		if state.IsExpanded(c.ID) {
			continue
		}
		for _, n := range c.Nodes {
			collapsed[n.ID] = true
		}
		v.Placeholders = append(v.Placeholders, Placeholder{
			ID:      c.ID,
			Label:   c.Label,
			Path:    c.Path,
			Depth:   c.Depth,
			Metrics: c.Metrics,
		})
	}

	v.Nodes = make([]graph.Node, 0, len(nodes))
	visible := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if collapsed[n.ID] {
			v.Hidden++
			continue
		}
		visible[n.ID] = true
		v.Nodes = append(v.Nodes, n)
	}

	v.Edges = make([]graph.Edge, 0, len(edges))
	for _, e := range edges {
		if visible[e.Source] && visible[e.Target] {
			v.Edges = append(v.Edges, e)
		}
	}
	return v
}
