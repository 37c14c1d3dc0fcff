// Package cluster groups nodes by directory into collapsible clusters and
// filters the visible graph by expand/collapse state.
//
// # Grouping
//
// Every node maps to a directory path: directories to themselves, files to
// their parent directory, functions and classes to the directory of their
// owning file (taken from the "file::name" id or from FilePath). Nodes with
// no usable path fall into the "root" bucket.
//
// A group becomes a [Cluster] when its path depth is at most
// [Options].MaxDepth (default 3) and it has at least [Options].MinSize
// members (default 5). Clusters are ordered by depth, then path.
//
// # Visibility
//
// [Filter] hides the members of every collapsed cluster and reports one
// [Placeholder] per collapsed cluster. Edges survive only when both
// endpoints are visible.
//
// # State
//
// [State] maps cluster ids to expanded (true) or collapsed (false). Absent
// ids are expanded. It serializes as a flat JSON object:
//
//	{"cluster-src": false, "cluster-src/ui": true}
package cluster
