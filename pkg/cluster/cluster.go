package cluster

import (
	"sort"

	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
)

// Default thresholds.
const (
	DefaultMinSize  = 5
	DefaultMaxDepth = 3
)

// IDPrefix is prepended to a directory path to form a cluster id.
const IDPrefix = "cluster-"

// Options controls which directory groups become clusters.
// Zero values select the defaults.
type Options struct {
	MinSize  int `json:"min_size,omitempty"`
	MaxDepth int `json:"max_depth,omitempty"`
}

// DefaultOptions returns the default clustering thresholds.
func DefaultOptions() Options {
	return Options{MinSize: DefaultMinSize, MaxDepth: DefaultMaxDepth}
}

func (o Options) withDefaults() Options {
	if o.MinSize <= 0 {
		o.MinSize = DefaultMinSize
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// Cluster is a group of nodes sharing a directory path.
type Cluster struct {
	ID      string        `json:"id"`
	Label   string        `json:"label"`
	Path    string        `json:"path"`
	Depth   int           `json:"depth"`
	Nodes   []*graph.Node `json:"-"`
	Metrics Metrics       `json:"metrics"`
}

// Metrics counts cluster members by type.
type Metrics struct {
	Total     int `json:"total_count"`
	Files     int `json:"file_count"`
	Functions int `json:"function_count"`
	Classes   int `json:"class_count"`
}

// ID returns the cluster id for a directory path.
func ID(path string) string { return IDPrefix + path }

// PathDepth returns the number of non-empty segments in a directory path.
// The root bucket has depth 0.
func PathDepth(path string) int {
	if path == graph.RootPath {
		return 0
	}
	return graph.SegmentCount(path)
}

// Build groups nodes by directory and returns the groups that qualify as
// clusters, shallowest first and then by path. Cluster members point into
// nodes; the slice must outlive the clusters.
func Build(nodes []graph.Node, opts Options) []Cluster {
	opts = opts.withDefaults()

	groups := make(map[string][]*graph.Node)
	for i := range nodes {
		dir := graph.DirectoryOf(&nodes[i])
		if PathDepth(dir) > opts.MaxDepth {
			continue
		}
		groups[dir] = append(groups[dir], &nodes[i])
	}

	clusters := make([]Cluster, 0, len(groups))
	for path, members := range groups {
		if len(members) < opts.MinSize {
			continue
		}
		clusters = append(clusters, Cluster{
			ID:      ID(path),
			Label:   graph.Base(path),
			Path:    path,
			Depth:   PathDepth(path),
			Nodes:   members,
			Metrics: measure(members),
		})
	}

	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].Depth != clusters[j].Depth {
			return clusters[i].Depth < clusters[j].Depth
		}
		return clusters[i].Path < clusters[j].Path
	})
	return clusters
}

func measure(members []*graph.Node) Metrics {
	m := Metrics{Total: len(members)}
	for _, n := range members {
		switch n.Type {
		case graph.NodeFile:
			m.Files++
		case graph.NodeFunction:
			m.Functions++
		case graph.NodeClass:
			m.Classes++
		}
	}
	return m
}

// Summaries converts clusters into output descriptors carrying their
// collapsed flag under state.
func Summaries(clusters []Cluster, state *State) []graph.ClusterSummary {
	out := make([]graph.ClusterSummary, len(clusters))
	for i, c := range clusters {
		out[i] = graph.ClusterSummary{
			ID:        c.ID,
			Label:     c.Label,
			Path:      c.Path,
			Depth:     c.Depth,
			Collapsed: !state.IsExpanded(c.ID),
			Total:     c.Metrics.Total,
			Files:     c.Metrics.Files,
			Functions: c.Metrics.Functions,
			Classes:   c.Metrics.Classes,
		}
	}
	return out
}
