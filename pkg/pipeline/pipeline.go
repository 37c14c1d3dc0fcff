// Package pipeline runs raw graph data through every stage and produces a
// positioned graph.
//
// # Stages
//
//  1. Normalize: canonical IDs, types, depths and resolved edges
//  2. Hierarchy: synthesized directory ancestors and contains edges
//  3. Cluster: directory clusters and expand/collapse filtering (optional)
//  4. Layout: coordinates from the selected strategy, cached by graph hash
//
// No stage fails on graph content. Errors come only from invalid options
// and context cancellation; cache failures are logged and ignored.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, raw, pipeline.Options{
//	    Strategy: "layered",
//	    Cluster:  true,
//	    State:    state,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = graph.WriteLayoutFile(result.Layout, "layout.json")
//
// [Runner.ExecuteAll] computes several strategies over one normalized graph
// concurrently.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Arch-Mind/frontend-sub001/pkg/cache"
	"github.com/Arch-Mind/frontend-sub001/pkg/cluster"
	"github.com/Arch-Mind/frontend-sub001/pkg/errors"
	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
	"github.com/Arch-Mind/frontend-sub001/pkg/layout"
)

// Stage names reported to observability hooks.
const (
	StageNormalize = "normalize"
	StageHierarchy = "hierarchy"
	StageCluster   = "cluster"
	StageLayout    = "layout"
)

// DefaultSeed seeds the force layout.
const DefaultSeed = uint64(42)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Normalize options
	Prefixes      []string `json:"prefixes,omitempty"`
	KeepTempRoots bool     `json:"keep_temp_roots,omitempty"`

	// SkipHierarchy disables directory reconstruction.
	SkipHierarchy bool `json:"skip_hierarchy,omitempty"`

	// Cluster options
	Cluster         bool `json:"cluster,omitempty"`
	MinClusterSize  int  `json:"min_cluster_size,omitempty"`
	MaxClusterDepth int  `json:"max_cluster_depth,omitempty"`

	// Layout options
	Strategy string `json:"strategy,omitempty"`
	Seed     uint64 `json:"seed,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	State         *cluster.State `json:"-"`
	EngineTimeout time.Duration  `json:"-"`
	CacheTTL      time.Duration  `json:"-"`
	Logger        *log.Logger    `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Strategy == "" {
		o.Strategy = layout.DefaultStrategy
	}
	if _, err := layout.Get(o.Strategy); err != nil {
		return errors.Wrap(errors.ErrCodeUnknownStrategy, err, "strategy %q", o.Strategy)
	}
	if o.MinClusterSize < 0 || o.MaxClusterDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cluster thresholds must not be negative")
	}
	if o.MinClusterSize == 0 {
		o.MinClusterSize = cluster.DefaultMinSize
	}
	if o.MaxClusterDepth == 0 {
		o.MaxClusterDepth = cluster.DefaultMaxDepth
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.EngineTimeout <= 0 {
		o.EngineTimeout = layout.DefaultEngineTimeout
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = cache.DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ClusterOptions returns the cluster builder options.
func (o *Options) ClusterOptions() cluster.Options {
	return cluster.Options{MinSize: o.MinClusterSize, MaxDepth: o.MaxClusterDepth}
}

// LayoutStrategy returns the configured strategy.
func (o *Options) LayoutStrategy() (layout.Strategy, error) {
	s, err := layout.Get(o.Strategy)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnknownStrategy, err, "strategy %q", o.Strategy)
	}
	switch v := s.(type) {
	case layout.Advanced:
		v.Timeout = o.EngineTimeout
		v.Logger = o.Logger
		return v, nil
	case layout.Force:
		v.Seed = o.Seed
		return v, nil
	}
	return s, nil
}

// LayoutKeyOpts returns cache key options for layout computation. collapsed
// lists the collapsed cluster IDs.
func (o *Options) LayoutKeyOpts(collapsed []string) cache.LayoutKeyOpts {
	k := cache.LayoutKeyOpts{Strategy: o.Strategy, Clustered: o.Cluster}
	if o.Cluster {
		k.MinSize = o.MinClusterSize
		k.MaxDepth = o.MaxClusterDepth
		k.Collapsed = collapsed
	}
	if o.Strategy == layout.NameForce {
		k.Strategy += ":" + formatSeed(o.Seed)
	}
	return k
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID identifies the run in logs.
	RunID string

	// Graph is the normalized graph with reconstructed hierarchy.
	Graph graph.Graph

	// GraphHash is the content hash of Graph.
	GraphHash string

	// Clusters holds every cluster found, expanded or not.
	Clusters []cluster.Cluster

	// Layout is the positioned visible graph.
	Layout graph.Layout

	Stats Stats

	// CacheHit is set when Layout came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	RawNodes int
	RawEdges int

	Nodes        int
	Edges        int
	DroppedEdges int
	NameResolved int
	Duplicates   int

	AddedNodes int
	AddedEdges int

	Clusters     int
	Collapsed    int
	HiddenNodes  int
	VisibleNodes int

	Fallback bool

	NormalizeTime time.Duration
	HierarchyTime time.Duration
	ClusterTime   time.Duration
	LayoutTime    time.Duration
}
