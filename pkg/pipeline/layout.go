package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Arch-Mind/frontend-sub001/pkg/errors"
	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
	"github.com/Arch-Mind/frontend-sub001/pkg/layout"
	"github.com/Arch-Mind/frontend-sub001/pkg/observability"
)

// =============================================================================
// Layout Stage
// =============================================================================

// computeLayout returns the layout for the visible graph, reading and
// populating the cache under key. Cached layouts computed by a fallback
// engine are never stored, so a later run retries the primary engine.
func (r *Runner) computeLayout(ctx context.Context, g graph.Graph, placeholders map[string]bool, key string, opts Options, logger *log.Logger) (graph.Layout, bool, error) {
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err != nil {
			logger.Warn("cache read failed", "key", key, "err", err)
		} else if ok {
			if l, err := graph.UnmarshalLayout(data); err == nil {
				cacheHooks.OnCacheHit(ctx, "layout")
				return l, true, nil
			}
			logger.Warn("discarding corrupt cache entry", "key", key)
		}
		cacheHooks.OnCacheMiss(ctx, "layout")
	}

	l, err := runLayout(ctx, g, placeholders, opts, logger)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if !l.Fallback {
		if data, err := graph.MarshalLayout(l); err == nil {
			if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
				logger.Warn("cache write failed", "key", key, "err", err)
			} else {
				cacheHooks.OnCacheSet(ctx, "layout", len(data))
			}
		}
	}
	return l, false, nil
}

// runLayout projects the graph, runs the strategy and attaches positions.
func runLayout(ctx context.Context, g graph.Graph, placeholders map[string]bool, opts Options, logger *log.Logger) (graph.Layout, error) {
	strategy, err := opts.LayoutStrategy()
	if err != nil {
		return graph.Layout{}, err
	}
	if err := ctx.Err(); err != nil {
		return graph.Layout{}, errors.FromContext(err, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, StageLayout)
	start := time.Now()

	nodes := layout.Project(g.Nodes)
	edges := layout.ProjectEdges(g.Edges)

	var (
		positions layout.Result
		fallback  bool
	)
	if async, ok := strategy.(layout.AsyncStrategy); ok {
		res := <-async.LayoutAsync(ctx, nodes, edges)
		if res.Err != nil {
			hooks.OnStageComplete(ctx, StageLayout, time.Since(start), res.Err)
			return graph.Layout{}, errors.FromContext(res.Err, "layout %s", strategy.Name())
		}
		if res.Fallback {
			logger.Warn("layout engine failed, used layered fallback",
				"strategy", strategy.Name(), "err", res.Cause)
		}
		positions, fallback = res.Result, res.Fallback
	} else {
		positions = strategy.Layout(nodes, edges)
	}

	width, height := layout.Bounds(nodes, positions)
	out := graph.Layout{
		Strategy: strategy.Name(),
		Width:    width,
		Height:   height,
		Nodes:    layout.Apply(g.Nodes, positions),
		Edges:    g.Edges,
		Fallback: fallback,
	}
	if out.Edges == nil {
		out.Edges = []graph.Edge{}
	}
	for i := range out.Nodes {
		if placeholders[out.Nodes[i].ID] {
			out.Nodes[i].Kind = graph.KindPlaceholder
		}
	}

	dur := time.Since(start)
	hooks.OnStageComplete(ctx, StageLayout, dur, nil)
	hooks.OnLayoutComplete(ctx, strategy.Name(), len(nodes), dur, fallback)
	return out, nil
}
