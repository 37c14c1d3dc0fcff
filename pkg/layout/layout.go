package layout

import (
	"context"
	"math"

	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
)

// Node is the minimal view of a vertex a strategy needs: an identity, a
// size and enough metadata to group it.
type Node struct {
	ID       string         `json:"id"`
	Width    float64        `json:"width"`
	Height   float64        `json:"height"`
	Depth    int            `json:"depth,omitempty"`
	Type     graph.NodeType `json:"type,omitempty"`
	FilePath string         `json:"filePath,omitempty"`
	ParentID string         `json:"parentId,omitempty"`
}

// Edge is a directed connection between two laid-out nodes.
type Edge struct {
	ID     string         `json:"id"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Type   graph.EdgeType `json:"type,omitempty"`
}

// Position is the top-left corner of a node.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result maps node IDs to positions. A strategy's result holds exactly one
// entry per distinct input node ID.
type Result map[string]Position

// Strategy computes positions for a graph. Implementations never mutate
// their arguments, never fail, and return an empty result for empty input.
type Strategy interface {
	Name() string
	Layout(nodes []Node, edges []Edge) Result
}

// AsyncResult is delivered by [AsyncStrategy.LayoutAsync].
type AsyncResult struct {
	Result Result

	// Fallback is set when the primary engine failed and Result came from
	// the layered strategy instead. Cause holds the engine error.
	Fallback bool
	Cause    error

	// Err is set only when the context ended first. Result is nil then.
	Err error
}

// AsyncStrategy is a strategy backed by an external engine.
//
// LayoutAsync sends exactly one value on the returned channel and closes
// it. LayoutContext blocks on the same computation and returns ctx.Err()
// if the context ends first.
type AsyncStrategy interface {
	Strategy
	LayoutAsync(ctx context.Context, nodes []Node, edges []Edge) <-chan AsyncResult
	LayoutContext(ctx context.Context, nodes []Node, edges []Edge) (Result, error)
}

// Bounds returns the width and height of the box enclosing all positioned
// nodes, measured from the origin.
func Bounds(nodes []Node, r Result) (width, height float64) {
	for _, n := range nodes {
		p, ok := r[n.ID]
		if !ok {
			continue
		}
		width = math.Max(width, p.X+n.Width)
		height = math.Max(height, p.Y+n.Height)
	}
	return width, height
}

// translate shifts r so the smallest X and Y are zero.
func translate(r Result) {
	if len(r) == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	for _, p := range r {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
	}
	for id, p := range r {
		r[id] = Position{X: p.X - minX, Y: p.Y - minY}
	}
}

// uniqueNodes drops repeated IDs, keeping the first occurrence.
func uniqueNodes(nodes []Node) []Node {
	seen := make(map[string]bool, len(nodes))
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out
}
