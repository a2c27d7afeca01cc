package observability

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "chartcore"

// PrometheusHooks implements PipelineHooks, CacheHooks and HTTPHooks with
// Prometheus collectors.
type PrometheusHooks struct {
	layouts        *prometheus.CounterVec
	layoutDuration *prometheus.HistogramVec
	layoutShapes   *prometheus.HistogramVec
	planEntries    *prometheus.CounterVec
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	cacheLookups   *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	requests       *prometheus.CounterVec
	reqDuration    *prometheus.HistogramVec
	inFlight       prometheus.Gauge
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		layouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Layout passes by chart type and outcome.",
		}, []string{"chart", "outcome"}),
		layoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time spent resolving scales and placing shapes.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"chart"}),
		layoutShapes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_shapes",
			Help:      "Shapes per computed snapshot.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"chart"}),
		planEntries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plan_entries_total",
			Help:      "Transition plan entries by kind.",
		}, []string{"chart", "kind"}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Render calls by format set and outcome.",
		}, []string{"formats", "outcome"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent writing output formats.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"formats"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache.",
		}, []string{"key_type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		reqDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_requests_in_flight",
			Help:      "Requests currently being served.",
		}),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnLayoutStart(context.Context, string, int) {}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, chart string, shapes int, d time.Duration, err error) {
	h.layouts.WithLabelValues(chart, outcome(err)).Inc()
	h.layoutDuration.WithLabelValues(chart).Observe(d.Seconds())
	if err == nil {
		h.layoutShapes.WithLabelValues(chart).Observe(float64(shapes))
	}
}

func (h *PrometheusHooks) OnPlan(_ context.Context, chart string, enter, update, exit int) {
	h.planEntries.WithLabelValues(chart, "enter").Add(float64(enter))
	h.planEntries.WithLabelValues(chart, "update").Add(float64(update))
	h.planEntries.WithLabelValues(chart, "exit").Add(float64(exit))
}

func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	label := strings.Join(formats, ",")
	h.renders.WithLabelValues(label, outcome(err)).Inc()
	h.renderDuration.WithLabelValues(label).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {
	h.inFlight.Inc()
}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.inFlight.Dec()
	h.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.reqDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnError(_ context.Context, method, route string, _ error) {
	h.requests.WithLabelValues(method, route, "error").Inc()
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
