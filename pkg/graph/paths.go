package graph

import (
	"path"
	"strings"
)

// SymbolSeparator joins a file path and a symbol name in canonical ids.
const SymbolSeparator = "::"

// RootPath names the bucket for nodes that carry no usable path.
const RootPath = "root"

// SlashPath converts backslashes to forward slashes, collapses duplicate
// separators and removes a leading "./". Absolute paths stay absolute.
func SlashPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	if p == "" {
		return ""
	}
	p = path.Clean(p)
	if p == "." {
		return ""
	}
	return p
}

// Segments returns the non-empty segments of a slash path.
func Segments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SegmentCount returns the number of non-empty segments in p.
func SegmentCount(p string) int {
	n := 0
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			n++
		}
	}
	return n
}

// Dir returns the parent directory of a slash path, or "" for top-level
// entries.
func Dir(p string) string {
	p = strings.TrimSuffix(p, "/")
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return ""
	}
	return p[:i]
}

// Base returns the last segment of a slash path.
func Base(p string) string {
	p = strings.TrimSuffix(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// SymbolID builds the canonical id of a function or class.
func SymbolID(filePath, name string) string {
	return filePath + SymbolSeparator + name
}

// SplitSymbolID splits a canonical symbol id into its file path and name.
// ok is false when id has no separator.
func SplitSymbolID(id string) (filePath, name string, ok bool) {
	i := strings.Index(id, SymbolSeparator)
	if i < 0 {
		return "", id, false
	}
	return id[:i], id[i+len(SymbolSeparator):], true
}

// DirectoryOf returns the directory path a node is grouped under:
// directories map to themselves, files to their containing directory, and
// symbols to the directory of their owning file. Nodes without a usable
// path map to RootPath.
func DirectoryOf(n *Node) string {
	var dir string
	switch {
	case n.Type.IsContainer():
		dir = n.FilePath
		if dir == "" {
			dir = n.ID
		}
	case n.Type.IsSymbol():
		file, _, ok := SplitSymbolID(n.ID)
		if !ok || file == "" {
			file = n.FilePath
		}
		dir = Dir(file)
	default:
		file := n.FilePath
		if file == "" {
			file = n.ID
		}
		dir = Dir(file)
	}
	if dir == "" || dir == "/" {
		return RootPath
	}
	return dir
}
