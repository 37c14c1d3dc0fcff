package transform

import "github.com/Arch-Mind/frontend-sub001/pkg/dag"

// AssignLayers sets each node's Row to the length of the longest path
// reaching it from a source, so every edge points strictly downward.
// Sources sit in row 0; isolated nodes too.
//
// The traversal is Kahn's algorithm in insertion order and runs in
// O(V + E). The graph must be acyclic; run [BreakCycles] first. Nodes on a
// cycle never reach zero in-degree and stay in row 0.
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		inDegree[n.ID] = g.InDegree(n.ID)
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	for _, n := range nodes {
		n.Row = rows[n.ID]
	}
}
