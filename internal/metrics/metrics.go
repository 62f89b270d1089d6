// Package metrics exports orbit's observability hooks as Prometheus metrics.
//
// [Metrics] implements every hook interface of pkg/observability. The
// server creates one, registers it, installs it with [Metrics.Install] and
// serves the registry on /metrics.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/orbit/pkg/observability"
)

const namespace = "orbit"

// Metrics holds the Prometheus collectors fed by the hooks.
type Metrics struct {
	ticks       prometheus.Counter
	tickSeconds prometheus.Histogram
	nodes       prometheus.Gauge
	corrections prometheus.Counter
	clamps      prometheus.Counter
	loops       prometheus.Gauge

	settles       *prometheus.CounterVec
	settleSeconds prometheus.Histogram
	renders       *prometheus.CounterVec
	renderSeconds *prometheus.HistogramVec

	cacheLookups *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates an unregistered set of collectors.
func New() *Metrics {
	return &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of layout ticks across all loops",
		}),
		tickSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time spent inside one tick",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tick_nodes",
			Help:      "Node count of the most recent tick",
		}),
		corrections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overlap_corrections_total",
			Help:      "Pairs moved apart by the overlap pass",
		}),
		clamps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "boundary_clamps_total",
			Help:      "Axis clamps applied by the soft bounce",
		}),
		loops: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "loops_running",
			Help:      "Number of running tick loops",
		}),
		settles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settles_total",
			Help:      "Headless settle runs by outcome",
		}, []string{"status"}),
		settleSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settle_duration_seconds",
			Help:      "Duration of headless settle runs",
			Buckets:   prometheus.DefBuckets,
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Rendered artifacts by format and outcome",
		}, []string{"format", "status"}),
		renderSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of artifact rendering",
			Buckets:   prometheus.DefBuckets,
		}, []string{"format"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by key type and result",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache by key type",
		}, []string{"key_type"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Install makes m the process-wide hook implementation.
func (m *Metrics) Install() {
	observability.SetEngineHooks(m)
	observability.SetSettleHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ticks, m.tickSeconds, m.nodes, m.corrections, m.clamps, m.loops,
		m.settles, m.settleSeconds, m.renders, m.renderSeconds,
		m.cacheLookups, m.cacheBytes,
		m.requests, m.requestDuration,
	}
}

// =============================================================================
// Engine hooks
// =============================================================================

func (m *Metrics) OnTick(_ context.Context, nodes, corrections, clamps int, d time.Duration) {
	m.ticks.Inc()
	m.tickSeconds.Observe(d.Seconds())
	m.nodes.Set(float64(nodes))
	m.corrections.Add(float64(corrections))
	m.clamps.Add(float64(clamps))
}

func (m *Metrics) OnLoopStart(context.Context)        { m.loops.Inc() }
func (m *Metrics) OnLoopStop(context.Context, uint64) { m.loops.Dec() }

// =============================================================================
// Settle hooks
// =============================================================================

func (m *Metrics) OnSettleStart(context.Context, int, int) {}

func (m *Metrics) OnSettleComplete(_ context.Context, _ int, d time.Duration, err error) {
	m.settles.WithLabelValues(status(err)).Inc()
	m.settleSeconds.Observe(d.Seconds())
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, d time.Duration, err error) {
	m.renders.WithLabelValues(format, status(err)).Inc()
	m.renderSeconds.WithLabelValues(format).Observe(d.Seconds())
}

// =============================================================================
// Cache hooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTP hooks
// =============================================================================

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

var (
	_ observability.EngineHooks = (*Metrics)(nil)
	_ observability.SettleHooks = (*Metrics)(nil)
	_ observability.CacheHooks  = (*Metrics)(nil)
	_ observability.HTTPHooks   = (*Metrics)(nil)
)
