package pipeline

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Arch-Mind/frontend-sub001/pkg/cache"
	"github.com/Arch-Mind/frontend-sub001/pkg/cluster"
	"github.com/Arch-Mind/frontend-sub001/pkg/errors"
	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
	"github.com/Arch-Mind/frontend-sub001/pkg/graph/transform"
	"github.com/Arch-Mind/frontend-sub001/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs every stage on raw with caching.
func (r *Runner) Execute(ctx context.Context, raw graph.RawGraph, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])

	g, stats, err := r.build(ctx, raw, opts, logger)
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, g, stats, opts, runID, logger)
}

// ExecuteAll normalizes raw once and computes one layout per strategy
// concurrently. The first failure cancels the remaining layouts.
func (r *Runner) ExecuteAll(ctx context.Context, raw graph.RawGraph, opts Options, strategies []string) (map[string]*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	for _, s := range strategies {
		o := opts
		o.Strategy = s
		if _, err := o.LayoutStrategy(); err != nil {
			return nil, err
		}
	}
	runID := uuid.NewString()
	logger := r.Logger.With("run", runID[:8])

	g, stats, err := r.build(ctx, raw, opts, logger)
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results = make(map[string]*Result, len(strategies))
	)
	eg, egCtx := errgroup.WithContext(ctx)
	for _, s := range slices.Compact(slices.Sorted(slices.Values(strategies))) {
		o := opts
		o.Strategy = s
		if o.State != nil {
			o.State = o.State.Clone()
		}
		eg.Go(func() error {
			res, err := r.execute(egCtx, g, stats, o, runID, logger.With("strategy", s))
			if err != nil {
				return err
			}
			mu.Lock()
			results[s] = res
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Build runs normalization and hierarchy reconstruction only.
func (r *Runner) Build(ctx context.Context, raw graph.RawGraph, opts Options) (graph.Graph, Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return graph.Graph{}, Stats{}, err
	}
	return r.build(ctx, raw, opts, r.Logger)
}

func (r *Runner) build(ctx context.Context, raw graph.RawGraph, opts Options, logger *log.Logger) (graph.Graph, Stats, error) {
	hooks := observability.Pipeline()
	stats := Stats{RawNodes: len(raw.Nodes), RawEdges: len(raw.Edges)}

	if err := ctx.Err(); err != nil {
		return graph.Graph{}, stats, errors.FromContext(err, "normalize")
	}
	hooks.OnStageStart(ctx, StageNormalize)
	start := time.Now()
	norm := transform.Normalize(raw, transform.NormalizeOptions{
		Prefixes:      opts.Prefixes,
		KeepTempRoots: opts.KeepTempRoots,
	})
	stats.NormalizeTime = time.Since(start)
	stats.DroppedEdges = norm.Stats.DroppedEdges
	stats.NameResolved = norm.Stats.NameResolved
	stats.Duplicates = norm.Stats.Duplicates
	hooks.OnStageComplete(ctx, StageNormalize, stats.NormalizeTime, nil)
	hooks.OnGraphNormalized(ctx, norm.Stats.Nodes, norm.Stats.Edges, norm.Stats.DroppedEdges)
	logger.Debug("normalized graph",
		"nodes", norm.Stats.Nodes,
		"edges", norm.Stats.Edges,
		"dropped_edges", norm.Stats.DroppedEdges,
		"duration", stats.NormalizeTime)

	g := norm.Graph
	if !opts.SkipHierarchy {
		if err := ctx.Err(); err != nil {
			return graph.Graph{}, stats, errors.FromContext(err, "hierarchy")
		}
		hooks.OnStageStart(ctx, StageHierarchy)
		start = time.Now()
		var hs transform.HierarchyStats
		g, hs = transform.ReconstructHierarchy(g)
		stats.HierarchyTime = time.Since(start)
		stats.AddedNodes = hs.AddedNodes
		stats.AddedEdges = hs.AddedEdges
		hooks.OnStageComplete(ctx, StageHierarchy, stats.HierarchyTime, nil)
		logger.Debug("reconstructed hierarchy",
			"added_nodes", hs.AddedNodes,
			"added_edges", hs.AddedEdges,
			"duration", stats.HierarchyTime)
	}

	stats.Nodes = len(g.Nodes)
	stats.Edges = len(g.Edges)
	return g, stats, nil
}

func (r *Runner) execute(ctx context.Context, g graph.Graph, stats Stats, opts Options, runID string, logger *log.Logger) (*Result, error) {
	result := &Result{RunID: runID, Graph: g, Stats: stats}

	hash, err := cache.HashJSON(g)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash graph")
	}
	result.GraphHash = hash

	visible := graph.Graph{Nodes: g.Nodes, Edges: g.Edges}
	var placeholders map[string]bool
	if opts.Cluster {
		if err := ctx.Err(); err != nil {
			return nil, errors.FromContext(err, "cluster")
		}
		hooks := observability.Pipeline()
		hooks.OnStageStart(ctx, StageCluster)
		start := time.Now()

		nodes := slices.Clone(g.Nodes)
		clusters := cluster.Build(nodes, opts.ClusterOptions())
		v := cluster.Filter(nodes, g.Edges, clusters, opts.State)

		visible = graph.Graph{Nodes: v.Nodes, Edges: v.Edges}
		placeholders = make(map[string]bool, len(v.Placeholders))
		for _, p := range v.Placeholders {
			visible.Nodes = append(visible.Nodes, p.Node())
			placeholders[p.ID] = true
		}

		result.Clusters = clusters
		result.Stats.ClusterTime = time.Since(start)
		result.Stats.Clusters = len(clusters)
		result.Stats.Collapsed = len(v.Placeholders)
		result.Stats.HiddenNodes = v.Hidden
		hooks.OnStageComplete(ctx, StageCluster, result.Stats.ClusterTime, nil)
		logger.Debug("built clusters",
			"clusters", len(clusters),
			"collapsed", len(v.Placeholders),
			"hidden", v.Hidden)
	}
	result.Stats.VisibleNodes = len(visible.Nodes)

	var collapsed []string
	for id := range placeholders {
		collapsed = append(collapsed, id)
	}
	slices.Sort(collapsed)
	key := r.Keyer.LayoutKey(hash, opts.LayoutKeyOpts(collapsed))

	start := time.Now()
	l, hit, err := r.computeLayout(ctx, visible, placeholders, key, opts, logger)
	if err != nil {
		return nil, err
	}
	result.Stats.LayoutTime = time.Since(start)
	if opts.Cluster {
		l.Clusters = cluster.Summaries(result.Clusters, opts.State)
	}
	result.Layout = l
	result.CacheHit = hit
	result.Stats.Fallback = l.Fallback

	logger.Info("computed layout",
		"strategy", opts.Strategy,
		"nodes", len(l.Nodes),
		"edges", len(l.Edges),
		"cached", hit,
		"fallback", l.Fallback,
		"duration", result.Stats.LayoutTime)
	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func formatSeed(seed uint64) string {
	return strconv.FormatUint(seed, 10)
}
