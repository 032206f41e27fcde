// Package prom implements the observability hooks with Prometheus metrics.
//
// Metrics collected (namespace "treemap" by default):
//   - treemap_layouts_total: layouts by status (ok, canceled)
//   - treemap_layout_duration_seconds: layout duration
//   - treemap_layout_rects: rectangles placed per layout
//   - treemap_renders_total: renders by format and status
//   - treemap_render_bytes: rendered output size by format
//   - treemap_scans_total: scans by source and status
//   - treemap_scan_duration_seconds: scan duration by source
//   - treemap_cache_requests_total: cache lookups by key type and result
package prom

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matzehuels/treemap/pkg/observability"
)

// Config configures the metric names and destination registry.
type Config struct {
	Namespace string
	Subsystem string
	Buckets   []float64
	Registry  prometheus.Registerer
}

// Option configures [New].
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) { c.Subsystem = subsystem }
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) { c.Buckets = buckets }
}

// WithRegistry sets the registry metrics are registered with.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(c *Config) { c.Registry = reg }
}

func defaultConfig() Config {
	return Config{
		Namespace: "treemap",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Hooks records layout, scan and cache events as Prometheus metrics.
// It implements all hook interfaces of package observability.
type Hooks struct {
	layouts        *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	layoutRects    prometheus.Histogram
	renders        *prometheus.CounterVec
	renderBytes    *prometheus.HistogramVec
	scans          *prometheus.CounterVec
	scanDuration   *prometheus.HistogramVec
	cache          *prometheus.CounterVec
}

var (
	_ observability.LayoutHooks = (*Hooks)(nil)
	_ observability.ScanHooks   = (*Hooks)(nil)
	_ observability.CacheHooks  = (*Hooks)(nil)
)

// New registers the metrics and returns hooks that update them.
// It panics if the metrics are already registered with the registry.
func New(opts ...Option) *Hooks {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	factory := promauto.With(cfg.Registry)

	return &Hooks{
		layouts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "layouts_total",
			Help:      "Total number of treemap layouts",
		}, []string{"status"}),

		layoutDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "layout_duration_seconds",
			Help:      "Layout duration in seconds",
			Buckets:   cfg.Buckets,
		}),

		layoutRects: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "layout_rects",
			Help:      "Rectangles placed per layout",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "renders_total",
			Help:      "Total number of renders by format",
		}, []string{"format", "status"}),

		renderBytes: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "render_bytes",
			Help:      "Rendered output size in bytes",
			Buckets:   []float64{1024, 10240, 102400, 1048576, 10485760},
		}, []string{"format"}),

		scans: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "scans_total",
			Help:      "Total number of tree scans by source",
		}, []string{"source", "status"}),

		scanDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "scan_duration_seconds",
			Help:      "Scan duration in seconds",
			Buckets:   cfg.Buckets,
		}, []string{"source"}),

		cache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by key type and result",
		}, []string{"key_type", "result"}),
	}
}

// Install registers h as the global layout, scan and cache hooks.
func (h *Hooks) Install() {
	observability.SetLayoutHooks(h)
	observability.SetScanHooks(h)
	observability.SetCacheHooks(h)
}

func (h *Hooks) OnLayoutStart(context.Context, int) {}

func (h *Hooks) OnLayoutComplete(_ context.Context, rects int, d time.Duration, err error) {
	h.layouts.WithLabelValues(status(err)).Inc()
	h.layoutDuration.Observe(d.Seconds())
	if err == nil {
		h.layoutRects.Observe(float64(rects))
	}
}

func (h *Hooks) OnRenderComplete(_ context.Context, format string, n int, _ time.Duration, err error) {
	h.renders.WithLabelValues(format, status(err)).Inc()
	if err == nil {
		h.renderBytes.WithLabelValues(format).Observe(float64(n))
	}
}

func (h *Hooks) OnScanStart(context.Context, string, string) {}

func (h *Hooks) OnScanComplete(_ context.Context, source string, _ int, d time.Duration, err error) {
	h.scans.WithLabelValues(source, status(err)).Inc()
	h.scanDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cache.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cache.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.cache.WithLabelValues(keyType, "set").Inc()
}

func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
