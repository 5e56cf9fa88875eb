// Package prom implements the observability hooks with Prometheus
// collectors. The `serve` command registers them and exposes /metrics.
package prom

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/pipelinedag/pkg/observability"
)

const namespace = "pipelinedag"

// Hooks records engine and cache events as Prometheus metrics.
type Hooks struct {
	validations      *prometheus.CounterVec
	validateDuration prometheus.Histogram
	layoutNodes      *prometheus.HistogramVec
	layoutDuration   *prometheus.HistogramVec
	layouts          *prometheus.CounterVec
	cacheOps         *prometheus.CounterVec
	cacheBytes       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Registering a
// second Hooks on the same registry panics, as with any promauto collector.
func New(reg prometheus.Registerer) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		// Labels: result (valid, invalid)
		validations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validate",
			Name:      "runs_total",
			Help:      "Total validation runs by result",
		}, []string{"result"}),

		validateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "validate",
			Name:      "duration_seconds",
			Help:      "Validation latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),

		layoutNodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "nodes",
			Help:      "Number of nodes per layout request",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"engine"}),

		layoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "duration_seconds",
			Help:      "Layout latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"engine"}),

		// Labels: engine, status (ok, error)
		layouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "layout",
			Name:      "runs_total",
			Help:      "Total layout runs by engine and status",
		}, []string{"engine", "status"}),

		// Labels: key_type, op (hit, miss, set)
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache operations by key type and outcome",
		}, []string{"key_type", "op"}),

		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),
	}
}

// OnValidate implements observability.EngineHooks.
func (h *Hooks) OnValidate(_ context.Context, _ int, valid bool, d time.Duration) {
	result := "invalid"
	if valid {
		result = "valid"
	}
	h.validations.WithLabelValues(result).Inc()
	h.validateDuration.Observe(d.Seconds())
}

// OnLayoutStart implements observability.EngineHooks.
func (h *Hooks) OnLayoutStart(_ context.Context, engine string, nodeCount int) {
	h.layoutNodes.WithLabelValues(engine).Observe(float64(nodeCount))
}

// OnLayoutComplete implements observability.EngineHooks.
func (h *Hooks) OnLayoutComplete(_ context.Context, engine string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.layouts.WithLabelValues(engine, status).Inc()
	h.layoutDuration.WithLabelValues(engine).Observe(d.Seconds())
}

// OnCacheHit implements observability.CacheHooks.
func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss implements observability.CacheHooks.
func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet implements observability.CacheHooks.
func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

var (
	_ observability.EngineHooks = (*Hooks)(nil)
	_ observability.CacheHooks  = (*Hooks)(nil)
)
