// Package prom implements the observability hooks with Prometheus metrics.
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Arch-Mind/frontend-sub001/pkg/observability"
)

const namespace = "archmind"

// Metrics implements [observability.PipelineHooks],
// [observability.CacheHooks] and [observability.HTTPHooks].
type Metrics struct {
	StageDuration  *prometheus.HistogramVec
	StageErrors    *prometheus.CounterVec
	GraphNodes     prometheus.Histogram
	DroppedEdges   prometheus.Counter
	Layouts        *prometheus.CounterVec
	LayoutDuration *prometheus.HistogramVec
	CacheEvents    *prometheus.CounterVec
	CacheBytes     prometheus.Counter
	Requests       *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
	InFlight       prometheus.Gauge
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)

// New creates and registers all metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		StageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"stage"}),
		StageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_errors_total",
			Help:      "Pipeline stages that returned an error",
		}, []string{"stage"}),
		GraphNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "graph_nodes",
			Help:      "Node count of normalized graphs",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		}),
		DroppedEdges: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "dropped_edges_total",
			Help:      "Edges dropped because an endpoint could not be resolved",
		}),
		Layouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "runs_total",
			Help:      "Layouts computed by strategy and whether the fallback was used",
		}, []string{"strategy", "fallback"}),
		LayoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "duration_seconds",
			Help:      "Layout duration by strategy",
			Buckets:   prometheus.DefBuckets,
		}, []string{"strategy"}),
		CacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache hits, misses and writes",
		}, []string{"type", "event"}),
		CacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Served requests by route and status",
		}, []string{"method", "route", "status"}),
		RequestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Requests currently being served",
		}),
	}
}

func (m *Metrics) OnStageStart(context.Context, string) {}

func (m *Metrics) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) OnGraphNormalized(_ context.Context, nodes, _, dropped int) {
	m.GraphNodes.Observe(float64(nodes))
	m.DroppedEdges.Add(float64(dropped))
}

func (m *Metrics) OnLayoutComplete(_ context.Context, strategy string, _ int, d time.Duration, fallback bool) {
	m.Layouts.WithLabelValues(strategy, strconv.FormatBool(fallback)).Inc()
	m.LayoutDuration.WithLabelValues(strategy).Observe(d.Seconds())
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheEvents.WithLabelValues(keyType, "set").Inc()
	m.CacheBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.InFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.InFlight.Dec()
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}
