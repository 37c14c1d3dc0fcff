package layout

import "github.com/Arch-Mind/frontend-sub001/pkg/graph"

// ByFile spacing defaults in pixels.
const (
	DefaultIndent    = 40.0
	DefaultFileGap   = 24.0
	DefaultSymbolGap = 8.0
)

// ByFile stacks files and directories in one column in input order and
// lists each file's functions and classes beneath it, indented. A symbol
// belongs to the node named by its ParentID, else to the file matching its
// FilePath or the file part of its ID. Symbols without an owner follow the
// last group.
type ByFile struct {
	Indent    float64
	FileGap   float64
	SymbolGap float64
}

func (ByFile) Name() string { return NameByFile }

// Layout implements [Strategy].
func (b ByFile) Layout(nodes []Node, _ []Edge) Result {
	if b.Indent <= 0 {
		b.Indent = DefaultIndent
	}
	if b.FileGap <= 0 {
		b.FileGap = DefaultFileGap
	}
	if b.SymbolGap <= 0 {
		b.SymbolGap = DefaultSymbolGap
	}

	nodes = uniqueNodes(nodes)
	r := make(Result, len(nodes))

	var owners []Node
	isOwner := make(map[string]bool)
	ownerByPath := make(map[string]string)
	for _, n := range nodes {
		if n.Type.IsSymbol() {
			continue
		}
		owners = append(owners, n)
		isOwner[n.ID] = true
		if n.Type == graph.NodeFile {
			for _, p := range []string{n.FilePath, n.ID} {
				if _, taken := ownerByPath[p]; p != "" && !taken {
					ownerByPath[p] = n.ID
				}
			}
		}
	}

	symbols := make(map[string][]Node)
	var orphans []Node
	for _, n := range nodes {
		if !n.Type.IsSymbol() {
			continue
		}
		if owner := ownerOf(n, isOwner, ownerByPath); owner != "" {
			symbols[owner] = append(symbols[owner], n)
		} else {
			orphans = append(orphans, n)
		}
	}

	y := 0.0
	for i, o := range owners {
		if i > 0 {
			y += b.FileGap
		}
		r[o.ID] = Position{X: 0, Y: y}
		y += o.Height
		for _, s := range symbols[o.ID] {
			y += b.SymbolGap
			r[s.ID] = Position{X: b.Indent, Y: y}
			y += s.Height
		}
	}
	for i, s := range orphans {
		if i == 0 && len(owners) > 0 {
			y += b.FileGap
		} else if i > 0 {
			y += b.SymbolGap
		}
		r[s.ID] = Position{X: 0, Y: y}
		y += s.Height
	}
	return r
}

func ownerOf(n Node, isOwner map[string]bool, ownerByPath map[string]string) string {
	if isOwner[n.ParentID] {
		return n.ParentID
	}
	if id, ok := ownerByPath[n.FilePath]; ok && n.FilePath != "" {
		return id
	}
	if file, _, ok := graph.SplitSymbolID(n.ID); ok {
		return ownerByPath[file]
	}
	return ""
}
