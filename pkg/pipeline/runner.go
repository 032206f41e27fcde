package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/layout"
	"github.com/matzehuels/treemap/pkg/observability"
	"github.com/matzehuels/treemap/pkg/render"
	"github.com/matzehuels/treemap/pkg/source"
)

// cacheKeyType labels tree cache events for observability hooks.
const cacheKeyType = "tree"

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ScanTTL is how long scanned trees stay cached. Zero means
	// cache.TTLScan.
	ScanTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	t, hit, err := r.LoadTreeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Tree = t
	result.Stats.Nodes = t.Len()
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.TreeHit = hit

	r.Logger.Info("loaded tree",
		"source", opts.Source,
		"nodes", t.Len(),
		"cached", hit,
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	rects, err := r.ComputeLayout(ctx, t, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = rects
	result.Stats.Rects = rects.Len()
	result.Stats.LayoutTime = time.Since(layoutStart)

	// Stage 3: Render
	renderStart := time.Now()
	result.Scene = Scene(rects)
	artifacts, err := r.Render(ctx, result.Scene, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	return result, nil
}

// LoadTreeWithCacheInfo loads the input tree and reports whether it came
// from the cache. Only scans are cached; JSON files are always read.
func (r *Runner) LoadTreeWithCacheInfo(ctx context.Context, opts Options) (Tree, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}

	if opts.Source == source.KindFile {
		t, err := LoadFile(opts)
		return t, false, err
	}

	key := r.Keyer.TreeKey(opts.Source, cacheInput(opts), opts.TreeKeyOpts())
	hooks := observability.Cache()

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if t, err := ReadTree(data, Options{Weights: WeightsInt64}); err == nil {
				hooks.OnCacheHit(ctx, cacheKeyType)
				return t, true, nil
			}
			r.Logger.Warn("discarding unreadable cache entry", "key", key)
		} else if err != nil {
			r.Logger.Warn("cache lookup failed", "key", key, "error", err)
		}
		hooks.OnCacheMiss(ctx, cacheKeyType)
	}

	t, err := Scan(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := t.Marshal(); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.scanTTL()); err != nil {
			r.Logger.Warn("cache store failed", "key", key, "error", err)
		} else {
			hooks.OnCacheSet(ctx, cacheKeyType, len(data))
		}
	}
	return t, false, nil
}

// LoadTree is a convenience wrapper that calls LoadTreeWithCacheInfo and discards the cache hit info.
func (r *Runner) LoadTree(ctx context.Context, opts Options) (Tree, error) {
	t, _, err := r.LoadTreeWithCacheInfo(ctx, opts)
	return t, err
}

// ComputeLayout lays out t and logs the result.
func (r *Runner) ComputeLayout(ctx context.Context, t Tree, opts Options) (*layout.RectTree[string], error) {
	r.applyLogger(&opts)
	began := time.Now()
	rects, err := t.Layout(ctx, opts)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("computed layout",
		"rects", rects.Len(),
		"duration", time.Since(began))
	return rects, nil
}

// Render renders scene in every requested format and logs the result.
func (r *Runner) Render(ctx context.Context, scene render.Scene, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	began := time.Now()
	artifacts, err := RenderScene(ctx, scene, opts)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", time.Since(began))
	return artifacts, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) scanTTL() time.Duration {
	if r.ScanTTL > 0 {
		return r.ScanTTL
	}
	return cache.TTLScan
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
