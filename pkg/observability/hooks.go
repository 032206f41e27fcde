// Package observability provides hooks for metrics and tracing.
//
// Libraries report events through small hook interfaces. The defaults do
// nothing; applications install real implementations at startup, for
// example the Prometheus adapter in package prom:
//
//	hooks := prom.New(prometheus.DefaultRegisterer)
//	observability.SetLayoutHooks(hooks)
//	observability.SetScanHooks(hooks)
//	observability.SetCacheHooks(hooks)
//
// Libraries call the registered hooks around their work:
//
//	observability.Layout().OnLayoutStart(ctx, nodes)
//	// ... layout ...
//	observability.Layout().OnLayoutComplete(ctx, rects, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Hook Interfaces
// =============================================================================

// LayoutHooks receives events from layout and rendering.
type LayoutHooks interface {
	OnLayoutStart(ctx context.Context, nodes int)
	// OnLayoutComplete is called with the number of placed rectangles. err is
	// a context error when the layout was cancelled.
	OnLayoutComplete(ctx context.Context, rects int, duration time.Duration, err error)

	OnRenderComplete(ctx context.Context, format string, bytes int, duration time.Duration, err error)
}

// ScanHooks receives events from tree sources.
type ScanHooks interface {
	OnScanStart(ctx context.Context, source, input string)
	OnScanComplete(ctx context.Context, source string, nodes int, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks ignores all layout events.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayoutStart(context.Context, int)                                  {}
func (NoopLayoutHooks) OnLayoutComplete(context.Context, int, time.Duration, error)         {}
func (NoopLayoutHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopScanHooks ignores all scan events.
type NoopScanHooks struct{}

func (NoopScanHooks) OnScanStart(context.Context, string, string)                       {}
func (NoopScanHooks) OnScanComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks ignores all cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	hooksMu     sync.RWMutex
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	scanHooks   ScanHooks   = NoopScanHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
)

// SetLayoutHooks registers layout hooks. nil is ignored.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetScanHooks registers scan hooks. nil is ignored.
func SetScanHooks(h ScanHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		scanHooks = h
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Scan returns the registered scan hooks.
func Scan() ScanHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return scanHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	scanHooks = NoopScanHooks{}
	cacheHooks = NoopCacheHooks{}
}
