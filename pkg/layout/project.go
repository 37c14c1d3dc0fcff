package layout

import "github.com/Arch-Mind/frontend-sub001/pkg/graph"

// Default node sizes in pixels.
const (
	ContainerWidth  = 180.0
	ContainerHeight = 44.0
	FileWidth       = 160.0
	FileHeight      = 36.0
	ClassWidth      = 140.0
	ClassHeight     = 32.0
	FunctionWidth   = 120.0
	FunctionHeight  = 28.0
)

// DefaultSize returns the box used for a node of type t.
func DefaultSize(t graph.NodeType) (width, height float64) {
	switch t {
	case graph.NodeDirectory, graph.NodeModule:
		return ContainerWidth, ContainerHeight
	case graph.NodeClass:
		return ClassWidth, ClassHeight
	case graph.NodeFunction:
		return FunctionWidth, FunctionHeight
	default:
		return FileWidth, FileHeight
	}
}

// Project converts canonical nodes to layout nodes with default sizes.
func Project(nodes []graph.Node) []Node {
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		w, h := DefaultSize(n.Type)
		out[i] = Node{
			ID:       n.ID,
			Width:    w,
			Height:   h,
			Depth:    n.Depth,
			Type:     n.Type,
			FilePath: n.FilePath,
			ParentID: n.ParentID,
		}
	}
	return out
}

// ProjectEdges converts canonical edges to layout edges.
func ProjectEdges(edges []graph.Edge) []Edge {
	out := make([]Edge, len(edges))
	for i, e := range edges {
		out[i] = Edge{ID: e.ID, Source: e.Source, Target: e.Target, Type: e.Type}
	}
	return out
}

// Apply attaches positions and default sizes to nodes. Nodes missing from
// r are placed at the origin.
func Apply(nodes []graph.Node, r Result) []graph.PositionedNode {
	out := make([]graph.PositionedNode, len(nodes))
	for i, n := range nodes {
		w, h := DefaultSize(n.Type)
		p := r[n.ID]
		out[i] = graph.PositionedNode{Node: n, X: p.X, Y: p.Y, Width: w, Height: h}
	}
	return out
}
