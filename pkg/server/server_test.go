package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Arch-Mind/frontend-sub001/pkg/cache"
	"github.com/Arch-Mind/frontend-sub001/pkg/graph"
	"github.com/Arch-Mind/frontend-sub001/pkg/observability"
	"github.com/Arch-Mind/frontend-sub001/pkg/observability/prom"
	"github.com/Arch-Mind/frontend-sub001/pkg/pipeline"
	"github.com/Arch-Mind/frontend-sub001/pkg/state"
)

func newTestServer(t *testing.T) (*httptest.Server, *state.Store) {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	store := state.New(state.NewMemoryBackend())
	srv := &Server{
		Runner: pipeline.NewRunner(cache.NewNullCache(), nil, logger),
		Store:  store,
		Logger: logger,
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func rawFiles(paths ...string) graph.RawGraph {
	var raw graph.RawGraph
	for _, p := range paths {
		raw.Nodes = append(raw.Nodes, graph.RawNode{ID: p, Type: "File", FilePath: p})
	}
	return raw
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", decode[map[string]string](t, resp)["status"])
}

func TestStrategies(t *testing.T) {
	ts, _ := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/v1/strategies", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[struct {
		Default    string   `json:"default"`
		Strategies []string `json:"strategies"`
	}](t, resp)
	assert.Equal(t, "layered", body.Default)
	assert.Contains(t, body.Strategies, "by-module")
}

func TestLayout(t *testing.T) {
	ts, _ := newTestServer(t)
	raw := rawFiles("src/a.go", "src/b.go")
	raw.Edges = []graph.RawEdge{
		{Source: "src/a.go", Target: "src/b.go", Type: "IMPORTS"},
		{Source: "src/a.go", Target: "gone.go", Type: "CALLS"},
	}

	resp := do(t, http.MethodPost, ts.URL+"/api/v1/layout?strategy=by-file", raw)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "miss", resp.Header.Get(HeaderCache))

	l := decode[graph.Layout](t, resp)
	assert.Equal(t, "by-file", l.Strategy)
	assert.Len(t, l.Nodes, 3, "two files and the synthesized src directory")
	for _, e := range l.Edges {
		assert.NotEqual(t, "gone.go", e.Target)
	}
}

func TestLayoutErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   string
	}{
		{"UnknownStrategy", "?strategy=spiral", `{"nodes":[]}`, http.StatusBadRequest, "UNKNOWN_STRATEGY"},
		{"MalformedBody", "", `{"nodes":`, http.StatusBadRequest, "INVALID_INPUT"},
		{"BadClusterFlag", "?cluster=maybe", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/v1/layout"+tt.query, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.code, decode[errorResponse](t, resp).Code)
		})
	}
}

func TestLayoutUsesSavedState(t *testing.T) {
	ts, _ := newTestServer(t)
	repo := url.PathEscape("github.com/acme/app")
	id := url.PathEscape("cluster-src")

	resp := do(t, http.MethodPost, ts.URL+"/api/v1/repos/"+repo+"/clusters/"+id+"/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	toggled := decode[map[string]any](t, resp)
	assert.Equal(t, false, toggled["expanded"])

	raw := rawFiles("src/a.go", "src/b.go", "src/c.go", "src/d.go", "src/e.go", "main.go")
	resp = do(t, http.MethodPost, ts.URL+"/api/v1/layout?cluster=true&repo="+url.QueryEscape("github.com/acme/app"), raw)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	l := decode[graph.Layout](t, resp)
	var placeholders int
	for _, n := range l.Nodes {
		assert.NotContains(t, n.ID, "src/", "collapsed member %s is visible", n.ID)
		if n.Kind == graph.KindPlaceholder {
			placeholders++
		}
	}
	assert.Equal(t, 1, placeholders)
	require.Len(t, l.Clusters, 1)
	assert.True(t, l.Clusters[0].Collapsed)
	assert.Equal(t, 5, l.Clusters[0].Files)
}

func TestClusterState(t *testing.T) {
	ts, store := newTestServer(t)
	base := ts.URL + "/api/v1/repos/" + url.PathEscape("/home/me/project") + "/clusters"

	resp := do(t, http.MethodGet, base+"/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[map[string]bool](t, resp))

	resp = do(t, http.MethodPut, base+"/state", map[string]bool{"cluster-src": false, "cluster-lib": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, base+"/expand-all", []string{"cluster-src", "cluster-docs"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]bool{
		"cluster-src":  true,
		"cluster-lib":  true,
		"cluster-docs": true,
	}, decode[map[string]bool](t, resp))

	resp = do(t, http.MethodPost, base+"/collapse-all", []string{"cluster-lib"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	st, err := store.Load(t.Context(), "/home/me/project")
	require.NoError(t, err)
	assert.False(t, st.IsExpanded("cluster-lib"))
	assert.True(t, st.IsExpanded("cluster-src"))
}

func TestClusterStateRejectsBadInput(t *testing.T) {
	ts, _ := newTestServer(t)
	base := ts.URL + "/api/v1/repos/" + url.PathEscape("repo") + "/clusters"

	resp := do(t, http.MethodPut, base+"/state", map[string]bool{"src": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodPost, base+"/expand-all", map[string]string{"not": "a list"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, http.MethodGet, ts.URL+"/api/v1/repos/"+url.PathEscape("a/../b")+"/clusters/state", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := prom.New(reg)
	observability.SetHTTPHooks(m)
	t.Cleanup(observability.Reset)

	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := &Server{
		Runner:   pipeline.NewRunner(nil, nil, logger),
		Gatherer: reg,
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	do(t, http.MethodGet, ts.URL+"/healthz", nil)

	resp := do(t, http.MethodGet, ts.URL+"/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `archmind_http_requests_total{method="GET",route="/healthz",status="200"} 1`)
}

func TestStateWithoutStore(t *testing.T) {
	srv := &Server{Runner: pipeline.NewRunner(nil, nil, nil)}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := do(t, http.MethodGet, ts.URL+"/api/v1/repos/r/clusters/state", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestConcurrentTogglesKeepEveryChange(t *testing.T) {
	ts, store := newTestServer(t)
	repo := "github.com/acme/app"
	base := ts.URL + "/api/v1/repos/" + url.PathEscape(repo) + "/clusters/"

	const n = 20
	var eg errgroup.Group
	for i := range n {
		eg.Go(func() error {
			id := url.PathEscape(fmt.Sprintf("cluster-pkg%d", i))
			resp, err := http.Post(base+id+"/toggle", "application/json", nil)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("toggle %s: status %d", id, resp.StatusCode)
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())

	st, err := store.Load(t.Context(), repo)
	require.NoError(t, err)
	assert.Equal(t, n, st.Len())
	for i := range n {
		assert.False(t, st.IsExpanded(fmt.Sprintf("cluster-pkg%d", i)))
	}
}
