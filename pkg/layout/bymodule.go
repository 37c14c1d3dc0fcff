package layout

import (
	"cmp"
	"slices"

	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
)

// ByModule spacing defaults in pixels.
const (
	DefaultLevelIndent = 40.0
	DefaultModuleGap   = 36.0
	DefaultMemberGap   = 12.0
)

// ByModule arranges nodes as an outline of the directory tree implied by
// their paths. Each module is indented by its depth, its members are
// stacked below it, and sibling modules are separated by a larger gap.
// Symbols with no recoverable path are placed in a trailing group.
type ByModule struct {
	LevelIndent float64
	MemberGap   float64
	ModuleGap   float64
}

func (ByModule) Name() string { return NameByModule }

// module is one entry of the tree arena. Children are arena indices.
type module struct {
	name     string
	children []int
	index    map[string]int
	members  []Node
}

type moduleTree struct {
	arena []module
}

func newModuleTree() *moduleTree {
	return &moduleTree{arena: []module{{index: map[string]int{}}}}
}

// insert returns the arena index of path, creating missing ancestors.
func (t *moduleTree) insert(path string) int {
	at := 0
	for _, seg := range graph.Segments(path) {
		next, ok := t.arena[at].index[seg]
		if !ok {
			next = len(t.arena)
			t.arena = append(t.arena, module{name: seg, index: map[string]int{}})
			t.arena[at].index[seg] = next
			t.arena[at].children = append(t.arena[at].children, next)
		}
		at = next
	}
	return at
}

// modulePath returns the module a node belongs to. Containers are the
// module itself, files and symbols belong to the file's directory.
func modulePath(n Node) (string, bool) {
	switch {
	case n.Type.IsContainer():
		p := n.FilePath
		if p == "" {
			p = n.ID
		}
		return graph.SlashPath(p), true
	case n.Type.IsSymbol():
		file := n.FilePath
		if file == "" {
			f, _, ok := graph.SplitSymbolID(n.ID)
			if !ok {
				return "", false
			}
			file = f
		}
		return graph.Dir(graph.SlashPath(file)), true
	default:
		p := n.FilePath
		if p == "" {
			p = n.ID
		}
		return graph.Dir(graph.SlashPath(p)), true
	}
}

// Layout implements [Strategy].
func (b ByModule) Layout(nodes []Node, _ []Edge) Result {
	if b.LevelIndent <= 0 {
		b.LevelIndent = DefaultLevelIndent
	}
	if b.MemberGap <= 0 {
		b.MemberGap = DefaultMemberGap
	}
	if b.ModuleGap <= 0 {
		b.ModuleGap = DefaultModuleGap
	}

	nodes = uniqueNodes(nodes)
	r := make(Result, len(nodes))
	tree := newModuleTree()
	var unplaced []Node
	for _, n := range nodes {
		p, ok := modulePath(n)
		if !ok {
			unplaced = append(unplaced, n)
			continue
		}
		idx := tree.insert(p)
		tree.arena[idx].members = append(tree.arena[idx].members, n)
	}

	type frame struct{ idx, level int }
	stack := []frame{{0, 0}}
	y := 0.0
	placed := false
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m := &tree.arena[f.idx]

		children := slices.Clone(m.children)
		slices.SortFunc(children, func(p, q int) int {
			return cmp.Compare(tree.arena[q].name, tree.arena[p].name)
		})
		for _, c := range children {
			stack = append(stack, frame{c, f.level + 1})
		}

		if len(m.members) == 0 {
			continue
		}
		if placed {
			y += b.ModuleGap
		}
		x := float64(f.level) * b.LevelIndent
		members := slices.Clone(m.members)
		slices.SortStableFunc(members, func(p, q Node) int {
			return cmp.Compare(memberRank(p), memberRank(q))
		})
		for i, n := range members {
			if i > 0 {
				y += b.MemberGap
			}
			r[n.ID] = Position{X: x, Y: y}
			y += n.Height
		}
		placed = true
	}

	for i, n := range unplaced {
		if i == 0 && placed {
			y += b.ModuleGap
		} else if i > 0 {
			y += b.MemberGap
		}
		r[n.ID] = Position{X: 0, Y: y}
		y += n.Height
	}
	return r
}

// memberRank puts a module's own node first, then files, then symbols.
func memberRank(n Node) int {
	switch {
	case n.Type.IsContainer():
		return 0
	case n.Type.IsSymbol():
		return 2
	default:
		return 1
	}
}
