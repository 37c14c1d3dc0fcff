package transform

import (
	"fmt"
	"path"
	"strings"

	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
)

// Fixed hierarchy ranks. Directories have no fixed rank; they use an
// explicit depth property or their path segment count.
var typeDepth = map[graph.NodeType]int{
	graph.NodeModule:   0,
	graph.NodeFile:     1,
	graph.NodeClass:    2,
	graph.NodeFunction: 3,
}

var extLanguage = map[string]string{
	".go":   "go",
	".ts":   "typescript",
	".tsx":  "typescript",
	".js":   "javascript",
	".jsx":  "javascript",
	".mjs":  "javascript",
	".py":   "python",
	".rs":   "rust",
	".java": "java",
	".kt":   "kotlin",
	".rb":   "ruby",
	".php":  "php",
	".c":    "c",
	".h":    "c",
	".cpp":  "cpp",
	".cs":   "csharp",
}

// NormalizeOptions configures identifier normalization.
type NormalizeOptions struct {
	// Prefixes are absolute path prefixes stripped from file paths, such as
	// the temp checkout of a backend run or the root of a local scan.
	Prefixes []string

	// KeepTempRoots disables stripping of well-known OS temp roots.
	KeepTempRoots bool
}

// NormalizeStats reports what normalization did.
type NormalizeStats struct {
	Nodes        int // canonical nodes emitted
	Edges        int // edges kept
	DroppedEdges int // edges with an unresolvable endpoint
	NameResolved int // endpoints resolved through the name map
	Duplicates   int // raw nodes that collapsed onto an existing canonical id
}

// Normalized is the result of [Normalize].
type Normalized struct {
	Graph graph.Graph

	// IDs maps every raw id (and every canonical id) to its canonical id.
	IDs map[string]string

	// Names maps a display name to canonical ids in raw input order.
	Names map[string][]string

	Stats NormalizeStats
}

// Resolve maps an edge endpoint onto a canonical id. The raw id map is
// consulted first, then the name map. Names are not unique; the first
// canonical id registered under a name wins, in raw input order.
func (n *Normalized) Resolve(ref string) (id string, byName bool, ok bool) {
	if id, ok := n.IDs[ref]; ok {
		return id, false, true
	}
	if ids := n.Names[ref]; len(ids) > 0 {
		return ids[0], true, true
	}
	return "", false, false
}

// Normalize reconciles raw identifiers into one canonical id space and
// resolves edge endpoints against it. It never fails: nodes with missing
// metadata fall back to their raw id, and edges whose endpoints cannot be
// resolved are dropped and counted in Stats.DroppedEdges.
func Normalize(raw graph.RawGraph, opts NormalizeOptions) *Normalized {
	strip := NewPathStripper(opts.Prefixes, !opts.KeepTempRoots)
	res := &Normalized{
		IDs:   make(map[string]string, len(raw.Nodes)*2),
		Names: make(map[string][]string),
	}

	nodes := make([]graph.Node, len(raw.Nodes))
	fileByRaw := make(map[string]string)

	// Containers and files first so symbols can borrow the file path of
	// their parent when they carry none of their own.
	for i := range raw.Nodes {
		rn := &raw.Nodes[i]
		if t := nodeType(rn); !t.IsSymbol() {
			nodes[i] = normalizeNode(rn, t, strip, "")
			if _, dup := res.IDs[rn.ID]; !dup {
				res.IDs[rn.ID] = nodes[i].ID
			}
			if t == graph.NodeFile {
				fileByRaw[rn.ID] = nodes[i].FilePath
			}
		}
	}
	for i := range raw.Nodes {
		rn := &raw.Nodes[i]
		if t := nodeType(rn); t.IsSymbol() {
			nodes[i] = normalizeNode(rn, t, strip, fileByRaw[rn.Prop(graph.PropParentID)])
			if _, dup := res.IDs[rn.ID]; !dup {
				res.IDs[rn.ID] = nodes[i].ID
			}
		}
	}

	seen := make(map[string]bool, len(nodes))
	out := make([]graph.Node, 0, len(nodes))
	for i, n := range nodes {
		if seen[n.ID] {
			res.Stats.Duplicates++
			continue
		}
		seen[n.ID] = true
		if _, ok := res.IDs[n.ID]; !ok {
			res.IDs[n.ID] = n.ID
		}
		name := displayName(&raw.Nodes[i], &n)
		res.Names[name] = append(res.Names[name], n.ID)
		out = append(out, n)
	}

	// Parent references resolve through the same maps as edges.
	for i := range out {
		pid := out[i].ParentID
		if pid == "" {
			continue
		}
		out[i].ParentID = ""
		if id, _, ok := res.Resolve(pid); ok && id != out[i].ID {
			out[i].ParentID = id
		}
	}

	res.Graph.Nodes = out
	res.Graph.Edges = res.resolveEdges(raw.Edges, seen)
	res.Stats.Nodes = len(out)
	res.Stats.Edges = len(res.Graph.Edges)
	return res
}

func (n *Normalized) resolveEdges(raw []graph.RawEdge, present map[string]bool) []graph.Edge {
	edges := make([]graph.Edge, 0, len(raw))
	ids := make(map[string]int, len(raw))
	for _, re := range raw {
		src, srcByName, ok1 := n.Resolve(re.Source)
		dst, dstByName, ok2 := n.Resolve(re.Target)
		if !ok1 || !ok2 || !present[src] || !present[dst] {
			n.Stats.DroppedEdges++
			continue
		}
		if srcByName {
			n.Stats.NameResolved++
		}
		if dstByName {
			n.Stats.NameResolved++
		}
		e := graph.Edge{
			ID:     re.ID,
			Source: src,
			Target: dst,
			Type:   graph.ParseEdgeType(re.Type),
		}
		if e.ID == "" {
			e.ID = EdgeID(e.Source, e.Target, e.Type)
		}
		if k := ids[e.ID]; k > 0 {
			ids[e.ID]++
			e.ID = fmt.Sprintf("%s#%d", e.ID, k)
		} else {
			ids[e.ID] = 1
		}
		edges = append(edges, e)
	}
	return edges
}

// EdgeID returns the deterministic id given to edges that arrive without
// one.
func EdgeID(source, target string, t graph.EdgeType) string {
	return string(t) + ":" + source + "->" + target
}

func nodeType(rn *graph.RawNode) graph.NodeType {
	if t, ok := graph.ParseNodeType(rn.Type); ok {
		return t
	}
	return graph.NodeFile
}

func normalizeNode(rn *graph.RawNode, t graph.NodeType, strip *PathStripper, ownerFile string) graph.Node {
	filePath := strip.Strip(rn.Prop(graph.PropFilePath))
	name := rn.Prop(graph.PropName)

	n := graph.Node{
		Type:     t,
		ParentID: rn.Prop(graph.PropParentID),
		Label:    rn.Label,
		Status:   graph.Status(strings.ToLower(rn.Prop(graph.PropStatus))),
		Language: rn.Prop(graph.PropLanguage),
	}

	if t.IsSymbol() {
		if filePath == "" {
			filePath = ownerFile
		}
		n.FilePath = filePath
		switch {
		case filePath != "" && name != "":
			n.ID = graph.SymbolID(filePath, name)
		case name != "":
			n.ID = name
		default:
			n.ID = rn.ID
		}
	} else {
		p := filePath
		if p == "" {
			p = strip.Strip(rn.ID)
		}
		n.ID = p
		n.FilePath = p
		if n.ID == "" {
			n.ID = rn.ID
		}
	}

	if n.Label == "" {
		switch {
		case name != "":
			n.Label = name
		case !t.IsSymbol() && n.FilePath != "":
			n.Label = graph.Base(n.FilePath)
		default:
			n.Label = n.ID
		}
	}

	n.Depth = depthFor(rn, t, n.FilePath)
	n.LineNumber, _ = rn.IntProp(graph.PropStartLine)
	n.EndLineNumber, _ = rn.IntProp(graph.PropEndLine)

	if t == graph.NodeFile {
		n.Extension = rn.Prop(graph.PropExtension)
		if n.Extension == "" {
			n.Extension = path.Ext(n.FilePath)
		}
		if n.Language == "" {
			n.Language = extLanguage[strings.ToLower(n.Extension)]
		}
	}
	return n
}

func depthFor(rn *graph.RawNode, t graph.NodeType, filePath string) int {
	if d, ok := typeDepth[t]; ok {
		return d
	}
	if d, ok := rn.IntProp(graph.PropDepth); ok && d >= 0 {
		return d
	}
	return graph.SegmentCount(filePath)
}

func displayName(rn *graph.RawNode, n *graph.Node) string {
	if name := rn.Prop(graph.PropName); name != "" {
		return name
	}
	return n.Label
}
