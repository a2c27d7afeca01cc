package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartcore/pkg/cache"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so the caching logic lives in one place.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Execute runs the complete parse → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Parse
	parseStart := time.Now()
	cur, prev, parseHit, err := r.ParseWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Dataset = cur
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.Records = len(cur)
	result.CacheInfo.ParseHit = parseHit

	r.Logger.Info("loaded dataset",
		"records", len(cur),
		"previous", prev != nil,
		"duration", result.Stats.ParseTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	c, s, inputHash, layoutHit, err := r.LayoutWithCacheInfo(ctx, cur, prev, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Chart = c
	result.Scroll = s
	result.Plan = c.Plan()
	result.InputHash = inputHash
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Shapes = c.Current().Len()
	result.Stats.Enter, result.Stats.Update, result.Stats.Exit = c.Plan().Counts()
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"chart", c.Config().Type,
		"shapes", result.Stats.Shapes,
		"enter", result.Stats.Enter,
		"update", result.Stats.Update,
		"exit", result.Stats.Exit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	scenes, artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, c, s, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Scenes = scenes
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"frames", len(scenes),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
