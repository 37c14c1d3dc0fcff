package transform

import "github.com/Arch-Mind/frontend-sub001/pkg/graph"

// HierarchyStats reports what ReconstructHierarchy added.
type HierarchyStats struct {
	AddedNodes int
	AddedEdges int

	// RaisedDepths counts existing nodes whose depth was lifted below
	// their container.
	RaisedDepths int
}

type edgeKey struct{ source, target string }

// ReconstructHierarchy synthesizes missing directory ancestors for file
// nodes and wires contains edges from each directory to its children.
//
// The stage is additive: existing nodes are never removed or re-identified,
// and nodes that declare a ParentID get no new incoming edge. The only field
// it changes is Depth: once the hierarchy is wired, every node sits at least
// one rank below its container (contains edge or ParentID), so a file under
// src/ui gets depth 3. Depths are only raised, never lowered.
// A contains edge is added only when no edge with the same source and
// target exists, whatever its type or id. Running it on its own output adds
// nothing. Synthesized directories take their path segment count as depth
// and always appear before their descendants.
//
// Function and class nodes without a ParentID whose FilePath names an
// existing file node are attached to that file the same way.
//
// The input graph is not modified.
func ReconstructHierarchy(g graph.Graph) (graph.Graph, HierarchyStats) {
	out := graph.Graph{
		Nodes: make([]graph.Node, len(g.Nodes), len(g.Nodes)+len(g.Nodes)/2),
		Edges: make([]graph.Edge, len(g.Edges), len(g.Edges)+len(g.Nodes)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Edges, g.Edges)

	var stats HierarchyStats
	index := out.Index()
	pairs := make(map[edgeKey]bool, len(out.Edges))
	for _, e := range out.Edges {
		pairs[edgeKey{e.Source, e.Target}] = true
	}

	link := func(parent, child string) {
		k := edgeKey{parent, child}
		if pairs[k] {
			return
		}
		pairs[k] = true
		out.Edges = append(out.Edges, graph.Edge{
			ID:     EdgeID(parent, child, graph.EdgeContains),
			Source: parent,
			Target: child,
			Type:   graph.EdgeContains,
		})
		stats.AddedEdges++
	}

	// ensureDir walks the ancestor chain of dir top-down, creating each
	// missing directory before its children.
	ensureDir := func(dir string) {
		segs := graph.Segments(dir)
		prefix := ""
		if len(dir) > 0 && dir[0] == '/' {
			prefix = "/"
		}
		parent := ""
		for i, seg := range segs {
			p := prefix + seg
			if i > 0 {
				p = parent + "/" + seg
			}
			idx, exists := index[p]
			if !exists {
				out.Nodes = append(out.Nodes, graph.Node{
					ID:       p,
					Label:    seg,
					Type:     graph.NodeDirectory,
					FilePath: p,
					Depth:    i + 1,
				})
				idx = len(out.Nodes) - 1
				index[p] = idx
				stats.AddedNodes++
			}
			if parent != "" && out.Nodes[idx].ParentID == "" {
				link(parent, p)
			}
			parent = p
		}
	}

	// Only the original nodes are visited; synthesized ones are directories.
	for i := range g.Nodes {
		n := g.Nodes[i]
		if n.ParentID != "" {
			continue
		}
		switch {
		case n.Type == graph.NodeFile:
			file := n.FilePath
			if file == "" {
				file = n.ID
			}
			dir := graph.Dir(file)
			if dir == "" {
				continue
			}
			ensureDir(dir)
			if dir != n.ID {
				link(dir, n.ID)
			}
		case n.Type.IsSymbol() && n.FilePath != "":
			if j, ok := index[n.FilePath]; ok && out.Nodes[j].Type == graph.NodeFile && n.FilePath != n.ID {
				link(n.FilePath, n.ID)
			}
		}
	}
	stats.RaisedDepths = raiseDepths(&out, index)
	return out, stats
}

// raiseDepths walks the containment forest top-down and lifts each child to
// its parent's depth plus one. Nodes on a containment cycle are skipped.
func raiseDepths(g *graph.Graph, index map[string]int) int {
	children := make([][]int, len(g.Nodes))
	indeg := make([]int, len(g.Nodes))
	seen := make(map[edgeKey]bool, len(g.Edges))
	add := func(parent, child string) {
		k := edgeKey{parent, child}
		pi, ok := index[parent]
		ci, ok2 := index[child]
		if !ok || !ok2 || pi == ci || seen[k] {
			return
		}
		seen[k] = true
		children[pi] = append(children[pi], ci)
		indeg[ci]++
	}
	for _, e := range g.Edges {
		if e.Type == graph.EdgeContains {
			add(e.Source, e.Target)
		}
	}
	for _, n := range g.Nodes {
		if n.ParentID != "" {
			add(n.ParentID, n.ID)
		}
	}

	queue := make([]int, 0, len(g.Nodes))
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	raised := make([]bool, len(g.Nodes))
	count := 0
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, c := range children[i] {
			if want := g.Nodes[i].Depth + 1; g.Nodes[c].Depth < want {
				g.Nodes[c].Depth = want
				if !raised[c] {
					raised[c] = true
					count++
				}
			}
			indeg[c]--
			if indeg[c] == 0 {
				queue = append(queue, c)
			}
		}
	}
	return count
}
