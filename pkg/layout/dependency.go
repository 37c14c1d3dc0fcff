package layout

// Dependency is a left-to-right layered layout over call and import edges
// only. Containment and inheritance edges are ignored; every node is
// still positioned.
type Dependency struct {
	NodeSep float64
	RankSep float64
}

func (Dependency) Name() string { return NameDependency }

// Layout implements [Strategy].
func (d Dependency) Layout(nodes []Node, edges []Edge) Result {
	deps := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if e.Type.IsDependency() {
			deps = append(deps, e)
		}
	}
	return Layered{Direction: LeftToRight, NodeSep: d.NodeSep, RankSep: d.RankSep}.Layout(nodes, deps)
}
