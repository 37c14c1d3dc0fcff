package dag

import "slices"

// CountCrossings returns the total number of crossings between consecutive
// rows of orders, where orders[i] lists row i left to right.
func CountCrossings(g *DAG, orders [][]string) int {
	total := 0
	for i := 0; i+1 < len(orders); i++ {
		total += CountLayerCrossings(g, orders[i], orders[i+1])
	}
	return total
}

// CountLayerCrossings counts crossings between edges running from upper to
// lower. Edges (u1,v1) and (u2,v2) cross when u1 is left of u2 and v1 is
// right of v2, so the count equals the number of inversions in the target
// positions once edges are sorted by source. Inversions are counted with a
// Fenwick tree in O(E log V).
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}
	lowerPos := PosMap(lower)

	type span struct{ from, to int }
	spans := make([]span, 0, len(upper)*2)
	for i, id := range upper {
		for _, c := range g.Children(id) {
			if p, ok := lowerPos[c]; ok {
				spans = append(spans, span{i, p})
			}
		}
	}
	if len(spans) < 2 {
		return 0
	}
	slices.SortFunc(spans, func(a, b span) int {
		if a.from != b.from {
			return a.from - b.from
		}
		return a.to - b.to
	})

	tree := make([]int, len(lower)+1)
	crossings := 0
	for seen, s := range spans {
		atOrLeft := 0
		for i := s.to + 1; i > 0; i -= i & -i {
			atOrLeft += tree[i]
		}
		crossings += seen - atOrLeft
		for i := s.to + 1; i < len(tree); i += i & -i {
			tree[i]++
		}
	}
	return crossings
}

// CountPairCrossings counts crossings between the edges of two nodes
// placed left and right of each other, against a neighboring row whose
// positions are given in adjPos. With useParents the neighbors are parents,
// otherwise children. Swapping the pair changes the count to the result for
// (right, left).
func CountPairCrossings(g *DAG, left, right string, adjPos map[string]int, useParents bool) int {
	var ln, rn []string
	if useParents {
		ln, rn = g.Parents(left), g.Parents(right)
	} else {
		ln, rn = g.Children(left), g.Children(right)
	}
	crossings := 0
	for _, a := range ln {
		ap, ok := adjPos[a]
		if !ok {
			continue
		}
		for _, b := range rn {
			if bp, ok := adjPos[b]; ok && ap > bp {
				crossings++
			}
		}
	}
	return crossings
}
