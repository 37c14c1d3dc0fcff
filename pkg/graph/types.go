package graph

import (
	"encoding/json"
	"strconv"
	"strings"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// NodeType is the canonical kind of a node after normalization.
type NodeType string

// Canonical node types.
const (
	NodeModule    NodeType = "module"
	NodeDirectory NodeType = "directory"
	NodeFile      NodeType = "file"
	NodeClass     NodeType = "class"
	NodeFunction  NodeType = "function"
)

// EdgeType is the canonical relationship kind of an edge.
type EdgeType string

// Canonical edge types.
const (
	EdgeContains EdgeType = "contains"
	EdgeImports  EdgeType = "imports"
	EdgeCalls    EdgeType = "calls"
	EdgeInherits EdgeType = "inherits"
)

// Status marks a node as part of a change set.
type Status string

// Change statuses.
const (
	StatusUnchanged Status = "unchanged"
	StatusModified  Status = "modified"
	StatusAdded     Status = "added"
	StatusDeleted   Status = "deleted"
)

// Node kinds used in positioned output.
const (
	KindPlaceholder = "cluster"
)

// Property keys understood on raw nodes. These match the vocabulary of the
// analysis backend.
const (
	PropFilePath  = "file_path"
	PropName      = "name"
	PropParentID  = "parent_id"
	PropStartLine = "start_line"
	PropEndLine   = "end_line"
	PropDepth     = "depth"
	PropLanguage  = "language"
	PropExtension = "extension"
	PropStatus    = "status"
)

// ParseNodeType maps a backend or scanner type string onto a canonical
// NodeType. Matching is case-insensitive. The second result is false when
// the string names no known type.
func ParseNodeType(s string) (NodeType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "module", "package":
		return NodeModule, true
	case "directory", "dir", "folder":
		return NodeDirectory, true
	case "file":
		return NodeFile, true
	case "class", "struct", "interface":
		return NodeClass, true
	case "function", "method", "func":
		return NodeFunction, true
	}
	return "", false
}

// ParseEdgeType maps backend relationship names onto canonical edge types.
// DEFINES becomes contains; every other name is lowercased.
func ParseEdgeType(s string) EdgeType {
	t := strings.ToLower(strings.TrimSpace(s))
	if t == "defines" {
		return EdgeContains
	}
	return EdgeType(t)
}

// IsSymbol reports whether t is a code symbol owned by a file.
func (t NodeType) IsSymbol() bool { return t == NodeFunction || t == NodeClass }

// IsContainer reports whether t groups other nodes by path.
func (t NodeType) IsContainer() bool { return t == NodeDirectory || t == NodeModule }

// IsDependency reports whether t is a call or import relationship.
func (t EdgeType) IsDependency() bool { return t == EdgeCalls || t == EdgeImports }

// =============================================================================
// Graph - Canonical Node/Edge Snapshot
// =============================================================================

// Graph is a normalized node/edge snapshot. Every edge endpoint names a node
// in Nodes.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is a canonical node. ParentID is a lookup key into the node set,
// not an ownership pointer.
type Node struct {
	ID            string   `json:"id"`
	Label         string   `json:"label,omitempty"`
	Type          NodeType `json:"type"`
	ParentID      string   `json:"parentId,omitempty"`
	FilePath      string   `json:"filePath,omitempty"`
	Depth         int      `json:"depth"`
	Extension     string   `json:"extension,omitempty"`
	Language      string   `json:"language,omitempty"`
	LineNumber    int      `json:"lineNumber,omitempty"`
	EndLineNumber int      `json:"endLineNumber,omitempty"`
	Status        Status   `json:"status,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed relationship between two canonical nodes.
type Edge struct {
	ID     string   `json:"id"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
}

// Index returns a lookup from node ID to position in g.Nodes.
func (g *Graph) Index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		idx[n.ID] = i
	}
	return idx
}

// =============================================================================
// Raw Input
// =============================================================================

// RawGraph is graph data as delivered by an analysis backend or a local
// scan, before identifiers are reconciled.
type RawGraph struct {
	Nodes []RawNode `json:"nodes"`
	Edges []RawEdge `json:"edges"`
}

// RawNode carries backend-specific identifiers and a free-form properties
// bag. Local scanners may set the top-level path fields directly instead.
type RawNode struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Label      string         `json:"label,omitempty"`
	FilePath   string         `json:"filePath,omitempty"`
	Name       string         `json:"name,omitempty"`
	ParentID   string         `json:"parentId,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// RawEdge references its endpoints by raw id or by display name.
type RawEdge struct {
	ID     string `json:"id,omitempty"`
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// Prop returns a property as a string. The properties bag takes precedence
// over the equivalent top-level field. Missing keys yield "".
func (n *RawNode) Prop(key string) string {
	if v, ok := n.Properties[key]; ok {
		if s := stringify(v); s != "" {
			return s
		}
	}
	switch key {
	case PropFilePath:
		return n.FilePath
	case PropName:
		return n.Name
	case PropParentID:
		return n.ParentID
	}
	return ""
}

// IntProp returns a numeric property. Numbers decoded from JSON, native
// integers and numeric strings are accepted.
func (n *RawNode) IntProp(key string) (int, bool) {
	v, ok := n.Properties[key]
	if !ok || v == nil {
		return 0, false
	}
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case json.Number:
		i, err := x.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		return i, err == nil
	}
	return 0, false
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}
