package layout

import (
	"cmp"
	"math"
	"slices"

	"github.com/Arch-Mind/frontend-sub001/pkg/dag"
	"github.com/Arch-Mind/frontend-sub001/pkg/dag/transform"
)

// Direction is the flow of a layered layout.
type Direction string

const (
	TopToBottom Direction = "TB"
	LeftToRight Direction = "LR"
)

// Layered spacing defaults in pixels.
const (
	DefaultNodeSep = 40.0
	DefaultRankSep = 80.0
	DefaultEdgeSep = 20.0
)

const (
	orderingPasses  = 12
	placementPasses = 4
)

// Layered is a Sugiyama-style layout: cycles are broken by reversing back
// edges, nodes are ranked by longest path, long edges get dummy nodes, rows
// are ordered by barycenter to reduce crossings, and coordinates are
// assigned per row. Zero spacing fields take the defaults.
type Layered struct {
	Direction Direction
	NodeSep   float64
	RankSep   float64
	EdgeSep   float64
}

func (l Layered) Name() string {
	if l.Direction == LeftToRight {
		return NameLayeredLR
	}
	return NameLayered
}

func (l Layered) withDefaults() Layered {
	if l.Direction == "" {
		l.Direction = TopToBottom
	}
	if l.NodeSep <= 0 {
		l.NodeSep = DefaultNodeSep
	}
	if l.RankSep <= 0 {
		l.RankSep = DefaultRankSep
	}
	if l.EdgeSep <= 0 {
		l.EdgeSep = DefaultEdgeSep
	}
	return l
}

// Layout implements [Strategy]. Edges with unknown endpoints and self
// loops are ignored.
func (l Layered) Layout(nodes []Node, edges []Edge) Result {
	l = l.withDefaults()
	nodes = uniqueNodes(nodes)
	r := make(Result, len(nodes))
	if len(nodes) == 0 {
		return r
	}
	lr := l.Direction == LeftToRight

	// Work in (cross, rank) space: Width is the extent along a row, Height
	// the extent across rows.
	g := dag.New()
	for _, n := range nodes {
		cross, rank := n.Width, n.Height
		if lr {
			cross, rank = n.Height, n.Width
		}
		_ = g.AddNode(dag.Node{ID: n.ID, Width: cross, Height: rank})
	}
	for _, e := range edges {
		_ = g.AddEdge(dag.Edge{From: e.Source, To: e.Target})
	}
	transform.Prepare(g, l.EdgeSep)

	orders := orderRows(g)
	centers := l.assignCross(g, orders)
	rowTop, rowHeight := l.assignRanks(g, orders)

	for _, n := range nodes {
		dn, ok := g.Node(n.ID)
		if !ok {
			r[n.ID] = Position{}
			continue
		}
		cross := centers[n.ID] - dn.Width/2
		rank := rowTop[dn.Row] + rowHeight[dn.Row]/2 - dn.Height/2
		if lr {
			r[n.ID] = Position{X: rank, Y: cross}
		} else {
			r[n.ID] = Position{X: cross, Y: rank}
		}
	}
	translate(r)
	return r
}

// orderRows runs alternating barycenter sweeps with a transposition pass
// and keeps the ordering with the fewest crossings.
func orderRows(g *dag.DAG) [][]string {
	orders := g.Rows()
	best := cloneOrders(orders)
	bestCrossings := dag.CountCrossings(g, best)

	for pass := 0; pass < orderingPasses && bestCrossings > 0; pass++ {
		if pass%2 == 0 {
			for i := 1; i < len(orders); i++ {
				sortByBarycenter(g, orders[i], dag.PosMap(orders[i-1]), true)
			}
		} else {
			for i := len(orders) - 2; i >= 0; i-- {
				sortByBarycenter(g, orders[i], dag.PosMap(orders[i+1]), false)
			}
		}
		transpose(g, orders)

		if c := dag.CountCrossings(g, orders); c < bestCrossings {
			bestCrossings = c
			best = cloneOrders(orders)
		}
	}
	return best
}

func sortByBarycenter(g *dag.DAG, row []string, adjPos map[string]int, useParents bool) {
	bary := make(map[string]float64, len(row))
	for i, id := range row {
		neighbors := g.Children(id)
		if useParents {
			neighbors = g.Parents(id)
		}
		sum, n := 0.0, 0
		for _, nb := range neighbors {
			if p, ok := adjPos[nb]; ok {
				sum += float64(p)
				n++
			}
		}
		if n == 0 {
			bary[id] = float64(i)
			continue
		}
		bary[id] = sum / float64(n)
	}
	slices.SortStableFunc(row, func(a, b string) int {
		return cmp.Compare(bary[a], bary[b])
	})
}

// transpose swaps adjacent nodes while that lowers crossings against both
// neighboring rows.
func transpose(g *dag.DAG, orders [][]string) {
	for i, row := range orders {
		var above, below map[string]int
		if i > 0 {
			above = dag.PosMap(orders[i-1])
		}
		if i+1 < len(orders) {
			below = dag.PosMap(orders[i+1])
		}
		pair := func(u, v string) int {
			c := 0
			if above != nil {
				c += dag.CountPairCrossings(g, u, v, above, true)
			}
			if below != nil {
				c += dag.CountPairCrossings(g, u, v, below, false)
			}
			return c
		}

		for improved, rounds := true, 0; improved && rounds < len(row); rounds++ {
			improved = false
			for j := 0; j+1 < len(row); j++ {
				if pair(row[j+1], row[j]) < pair(row[j], row[j+1]) {
					row[j], row[j+1] = row[j+1], row[j]
					improved = true
				}
			}
		}
	}
}

// assignCross returns the center of every node along its row. Each row is
// pulled toward the mean position of its neighbors in the previous row,
// alternating downward and upward sweeps.
func (l Layered) assignCross(g *dag.DAG, orders [][]string) map[string]float64 {
	centers := make(map[string]float64, g.NodeCount())
	for _, row := range orders {
		l.place(g, row, centers, nil)
	}

	desiredFrom := func(row []string, useParents bool) map[string]float64 {
		desired := make(map[string]float64, len(row))
		for _, id := range row {
			neighbors := g.Children(id)
			if useParents {
				neighbors = g.Parents(id)
			}
			if len(neighbors) == 0 {
				desired[id] = centers[id]
				continue
			}
			sum := 0.0
			for _, nb := range neighbors {
				sum += centers[nb]
			}
			desired[id] = sum / float64(len(neighbors))
		}
		return desired
	}

	for pass := 0; pass < placementPasses; pass++ {
		for i := 1; i < len(orders); i++ {
			l.place(g, orders[i], centers, desiredFrom(orders[i], true))
		}
		for i := len(orders) - 2; i >= 0; i-- {
			l.place(g, orders[i], centers, desiredFrom(orders[i], false))
		}
	}
	return centers
}

// place positions a row left to right as close to desired as the minimum
// separation allows, then shifts the whole row by the mean residual. A nil
// desired map packs the row from zero.
func (l Layered) place(g *dag.DAG, row []string, centers, desired map[string]float64) {
	prevRight := math.Inf(-1)
	var prev *dag.Node
	residual := 0.0
	for _, id := range row {
		n, _ := g.Node(id)
		want := 0.0
		if desired != nil {
			want = desired[id]
		}
		c := want
		if prev != nil {
			sep := l.NodeSep
			if prev.IsDummy() || n.IsDummy() {
				sep = l.EdgeSep
			}
			c = math.Max(c, prevRight+sep+n.Width/2)
		} else if desired == nil {
			c = n.Width / 2
		}
		centers[id] = c
		residual += want - c
		prevRight = c + n.Width/2
		prev = n
	}
	if desired == nil || len(row) == 0 {
		return
	}
	shift := residual / float64(len(row))
	for _, id := range row {
		centers[id] += shift
	}
}

// assignRanks returns the top offset and thickness of every row.
func (l Layered) assignRanks(g *dag.DAG, orders [][]string) (top, height []float64) {
	top = make([]float64, len(orders))
	height = make([]float64, len(orders))
	offset := 0.0
	for i, row := range orders {
		for _, id := range row {
			n, _ := g.Node(id)
			height[i] = math.Max(height[i], n.Height)
		}
		top[i] = offset
		offset += height[i] + l.RankSep
	}
	return top, height
}

func cloneOrders(orders [][]string) [][]string {
	out := make([][]string, len(orders))
	for i, row := range orders {
		out[i] = slices.Clone(row)
	}
	return out
}
