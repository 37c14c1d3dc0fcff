package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arch-Mind/frontend-sub001/pkg/cache"
	"github.com/Arch-Mind/frontend-sub001/pkg/cluster"
	"github.com/Arch-Mind/frontend-sub001/pkg/errors"
	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
	"github.com/Arch-Mind/frontend-sub001/pkg/layout"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

// sampleRaw returns six files under src/api importing each other in a
// chain, plus a root-level main.go calling into the first one.
func sampleRaw() graph.RawGraph {
	var raw graph.RawGraph
	for i := range 6 {
		path := fmt.Sprintf("src/api/h%d.go", i)
		raw.Nodes = append(raw.Nodes, graph.RawNode{ID: path, Type: "File", FilePath: path})
		if i > 0 {
			raw.Edges = append(raw.Edges, graph.RawEdge{
				Source: fmt.Sprintf("src/api/h%d.go", i-1),
				Target: path,
				Type:   "IMPORTS",
			})
		}
	}
	raw.Nodes = append(raw.Nodes, graph.RawNode{ID: "main.go", Type: "File", FilePath: "main.go"})
	raw.Edges = append(raw.Edges,
		graph.RawEdge{Source: "main.go", Target: "src/api/h0.go", Type: "CALLS"},
		graph.RawEdge{Source: "main.go", Target: "missing.go", Type: "CALLS"},
	)
	return raw
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	var opts Options
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, layout.DefaultStrategy, opts.Strategy)
	assert.Equal(t, cluster.DefaultMinSize, opts.MinClusterSize)
	assert.Equal(t, cluster.DefaultMaxDepth, opts.MaxClusterDepth)
	assert.Equal(t, DefaultSeed, opts.Seed)
	assert.Equal(t, layout.DefaultEngineTimeout, opts.EngineTimeout)
	assert.Equal(t, cache.DefaultTTL, opts.CacheTTL)
	assert.NotNil(t, opts.Logger)
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Strategy: "force", MinClusterSize: 3}
	require.NoError(t, opts.ValidateAndSetDefaults())
	first := opts
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Equal(t, first.Strategy, opts.Strategy)
	assert.Equal(t, first.MinClusterSize, opts.MinClusterSize)
	assert.Equal(t, first.Seed, opts.Seed)
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"UnknownStrategy", Options{Strategy: "spiral"}, errors.ErrCodeUnknownStrategy},
		{"NegativeMinSize", Options{MinClusterSize: -1}, errors.ErrCodeInvalidInput},
		{"NegativeDepth", Options{MaxClusterDepth: -2}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestOptionsLayoutKeyOpts(t *testing.T) {
	opts := Options{Strategy: "layered"}
	require.NoError(t, opts.ValidateAndSetDefaults())

	k := opts.LayoutKeyOpts([]string{"cluster-src"})
	assert.False(t, k.Clustered)
	assert.Empty(t, k.Collapsed, "collapsed ids only matter when clustering")

	opts.Cluster = true
	k = opts.LayoutKeyOpts([]string{"cluster-src"})
	assert.True(t, k.Clustered)
	assert.Equal(t, []string{"cluster-src"}, k.Collapsed)

	force := Options{Strategy: "force", Seed: 7}
	require.NoError(t, force.ValidateAndSetDefaults())
	assert.Equal(t, "force:7", force.LayoutKeyOpts(nil).Strategy)
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), sampleRaw(), Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.NotEmpty(t, res.GraphHash)
	assert.False(t, res.CacheHit)
	assert.Equal(t, layout.DefaultStrategy, res.Layout.Strategy)

	assert.Equal(t, 7, res.Stats.RawNodes)
	assert.Equal(t, 1, res.Stats.DroppedEdges, "edge to missing.go is dropped")
	assert.Equal(t, 2, res.Stats.AddedNodes, "src and src/api are synthesized")
	assert.Len(t, res.Layout.Nodes, res.Stats.Nodes)

	ids := make(map[string]bool)
	for _, n := range res.Layout.Nodes {
		ids[n.ID] = true
		assert.GreaterOrEqual(t, n.X, 0.0)
		assert.GreaterOrEqual(t, n.Y, 0.0)
		assert.Positive(t, n.Width)
		assert.LessOrEqual(t, n.X+n.Width, res.Layout.Width+1e-9)
		assert.LessOrEqual(t, n.Y+n.Height, res.Layout.Height+1e-9)
	}
	for _, e := range res.Layout.Edges {
		assert.True(t, ids[e.Source], "edge source %s", e.Source)
		assert.True(t, ids[e.Target], "edge target %s", e.Target)
	}
	assert.Empty(t, res.Layout.Clusters)
}

func TestRunnerExecuteEmpty(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), graph.RawGraph{}, Options{Cluster: true})
	require.NoError(t, err)
	assert.Empty(t, res.Layout.Nodes)
	assert.NotNil(t, res.Layout.Edges)
	assert.Zero(t, res.Layout.Width)
}

func TestRunnerExecuteClustered(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	state := cluster.NewState()
	state.Collapse(cluster.ID("src/api"))

	res, err := r.Execute(context.Background(), sampleRaw(), Options{Cluster: true, State: state})
	require.NoError(t, err)

	require.Len(t, res.Clusters, 1)
	assert.Equal(t, "cluster-src/api", res.Clusters[0].ID)
	assert.Equal(t, 1, res.Stats.Collapsed)
	assert.Positive(t, res.Stats.HiddenNodes)

	var placeholder *graph.PositionedNode
	for i, n := range res.Layout.Nodes {
		assert.NotContains(t, n.ID, "src/api/", "collapsed member %s is visible", n.ID)
		if n.IsPlaceholder() {
			placeholder = &res.Layout.Nodes[i]
		}
	}
	require.NotNil(t, placeholder)
	assert.Equal(t, "cluster-src/api", placeholder.ID)

	require.Len(t, res.Layout.Clusters, 1)
	assert.True(t, res.Layout.Clusters[0].Collapsed)
	assert.Equal(t, 6, res.Layout.Clusters[0].Files)

	// Expanding restores every member.
	state.Expand(cluster.ID("src/api"))
	res, err = r.Execute(context.Background(), sampleRaw(), Options{Cluster: true, State: state})
	require.NoError(t, err)
	assert.Zero(t, res.Stats.Collapsed)
	assert.Equal(t, res.Stats.Nodes, len(res.Layout.Nodes))
	assert.False(t, res.Layout.Clusters[0].Collapsed)
}

func TestRunnerExecuteUsesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	r := NewRunner(fc, nil, quietLogger())
	defer r.Close()

	ctx := context.Background()
	first, err := r.Execute(ctx, sampleRaw(), Options{Strategy: "by-file"})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := r.Execute(ctx, sampleRaw(), Options{Strategy: "by-file"})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Layout.Nodes, second.Layout.Nodes)

	refreshed, err := r.Execute(ctx, sampleRaw(), Options{Strategy: "by-file", Refresh: true})
	require.NoError(t, err)
	assert.False(t, refreshed.CacheHit)

	other, err := r.Execute(ctx, sampleRaw(), Options{Strategy: "by-module"})
	require.NoError(t, err)
	assert.False(t, other.CacheHit, "strategy is part of the cache key")
}

func TestRunnerExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(nil, nil, quietLogger())
	_, err := r.Execute(ctx, sampleRaw(), Options{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeCanceled, errors.GetCode(err))
}

func TestRunnerExecuteAll(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	strategies := []string{"layered", "by-file", "force", "layered"}

	results, err := r.ExecuteAll(context.Background(), sampleRaw(), Options{Cluster: true}, strategies)
	require.NoError(t, err)
	require.Len(t, results, 3)

	hash := results["layered"].GraphHash
	for name, res := range results {
		assert.Equal(t, name, res.Layout.Strategy)
		assert.Equal(t, hash, res.GraphHash, "all strategies share one graph")
		assert.Len(t, res.Layout.Nodes, res.Stats.VisibleNodes)
	}
}

func TestRunnerExecuteAllUnknownStrategy(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	_, err := r.ExecuteAll(context.Background(), sampleRaw(), Options{}, []string{"layered", "nope"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUnknownStrategy, errors.GetCode(err))
}

func TestRunnerBuildSkipHierarchy(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	g, stats, err := r.Build(context.Background(), sampleRaw(), Options{SkipHierarchy: true})
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 7)
	assert.Zero(t, stats.AddedNodes)
}

// recordingCache is an in-memory cache that counts writes.
type recordingCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func (c *recordingCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *recordingCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = make(map[string][]byte)
	}
	c.data[key] = data
	c.sets++
	return nil
}

func (c *recordingCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *recordingCache) Close() error { return nil }

func TestRunnerExecuteEngineFallback(t *testing.T) {
	rc := &recordingCache{}
	r := NewRunner(rc, nil, quietLogger())
	opts := Options{Strategy: layout.NameAdvanced, EngineTimeout: time.Nanosecond}

	res, err := r.Execute(context.Background(), sampleRaw(), opts)
	require.NoError(t, err)
	assert.True(t, res.Stats.Fallback)
	assert.True(t, res.Layout.Fallback)
	assert.Len(t, res.Layout.Nodes, res.Stats.VisibleNodes)
	assert.Zero(t, rc.sets, "fallback layouts are not cached")

	again, err := r.Execute(context.Background(), sampleRaw(), opts)
	require.NoError(t, err)
	assert.False(t, again.CacheHit)

	_, err = r.Execute(context.Background(), sampleRaw(), Options{Strategy: "by-file"})
	require.NoError(t, err)
	assert.Equal(t, 1, rc.sets)
}
