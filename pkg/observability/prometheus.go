package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/stackdiagram/pkg/errors"
)

// PrometheusHooks implements every hook interface with Prometheus metrics.
type PrometheusHooks struct {
	builds         *prometheus.CounterVec
	buildDuration  prometheus.Histogram
	diagramNodes   prometheus.Histogram
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	artifactBytes  *prometheus.HistogramVec
	cacheEvents    *prometheus.CounterVec
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// It panics if they are already registered, like prometheus.MustRegister.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stackdiagram_builds_total",
			Help: "Diagram builds by result (ok or error code).",
		}, []string{"result"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stackdiagram_build_duration_seconds",
			Help:    "Time to build a diagram from a manifest.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		diagramNodes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stackdiagram_diagram_nodes",
			Help:    "Nodes per successfully built diagram.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stackdiagram_renders_total",
			Help: "Renders by format, backend and result.",
		}, []string{"format", "backend", "result"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stackdiagram_render_duration_seconds",
			Help:    "Time spent in the render backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format", "backend"}),
		artifactBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stackdiagram_artifact_bytes",
			Help:    "Size of rendered artifacts.",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}, []string{"format"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stackdiagram_cache_events_total",
			Help: "Artifact cache events (hit, miss, set, error).",
		}, []string{"event", "format"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stackdiagram_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stackdiagram_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		h.builds, h.buildDuration, h.diagramNodes,
		h.renders, h.renderDuration, h.artifactBytes,
		h.cacheEvents, h.requests, h.requestLatency,
	)
	return h
}

// result labels an outcome: "ok", the error code, or "error" for uncoded
// errors.
func result(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

func (h *PrometheusHooks) OnBuildStart(context.Context, string) {}

func (h *PrometheusHooks) OnBuildComplete(_ context.Context, _ string, nodes, _ int, d time.Duration, err error) {
	h.builds.WithLabelValues(result(err)).Inc()
	h.buildDuration.Observe(d.Seconds())
	if err == nil {
		h.diagramNodes.Observe(float64(nodes))
	}
}

func (h *PrometheusHooks) OnRenderStart(context.Context, string, string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, format, backend string, size int, d time.Duration, err error) {
	h.renders.WithLabelValues(format, backend, result(err)).Inc()
	h.renderDuration.WithLabelValues(format, backend).Observe(d.Seconds())
	if err == nil {
		h.artifactBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, format string) {
	h.cacheEvents.WithLabelValues("hit", format).Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, format string) {
	h.cacheEvents.WithLabelValues("miss", format).Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, format string, _ int) {
	h.cacheEvents.WithLabelValues("set", format).Inc()
}

func (h *PrometheusHooks) OnCacheError(_ context.Context, op string, _ error) {
	h.cacheEvents.WithLabelValues("error", op).Inc()
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
