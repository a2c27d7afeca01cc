// Package pipeline runs the chart rendering pipeline shared by the CLI and
// the HTTP server.
//
// # Architecture
//
// The pipeline has three stages:
//
//  1. Parse: read the dataset (and an optional previous dataset) from a file
//     or from inline records
//  2. Layout: build a chart instance, lay the data out and plan the
//     transition from the previous data
//  3. Render: sample frames of the transition and write them as SVG or JSON
//
// Every stage is memoised through a [cache.Cache] keyed by content hashes, so
// unchanged inputs are never laid out twice.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	opts := pipeline.Options{
//	    Data:     "sales.csv",
//	    Channels: "x=month:ordinal,y=revenue",
//	    Chart:    chart.Config{Type: chart.TypeBar},
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Options can also come from a TOML or YAML file via [LoadOptions].
//
// [cache.Cache]: github.com/matzehuels/chartcore/pkg/cache.Cache
package pipeline

import (
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/transition"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0

	// DefaultFrames renders only the final frame.
	DefaultFrames = 1

	// MaxFrames bounds the frames sampled per request.
	MaxFrames = 240
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatJSON}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run. It is decoded
// from API requests (JSON) and option files (TOML, YAML).
type Options struct {
	// Parse options
	Data     string            `json:"data,omitempty" toml:"data,omitempty" yaml:"data,omitempty"`
	Previous string            `json:"previous,omitempty" toml:"previous,omitempty" yaml:"previous,omitempty"`
	Records  dataset.Dataset   `json:"records,omitempty" toml:"-" yaml:"-"`
	Prior    dataset.Dataset   `json:"prior,omitempty" toml:"-" yaml:"-"`
	KeyField string            `json:"key,omitempty" toml:"key,omitempty" yaml:"key,omitempty"`
	Channels string            `json:"channels,omitempty" toml:"channels,omitempty" yaml:"channels,omitempty"`
	Spec     dataset.FieldSpec `json:"spec,omitempty" toml:"spec,omitempty" yaml:"spec,omitempty"`
	Refresh  bool              `json:"refresh,omitempty" toml:"refresh,omitempty" yaml:"refresh,omitempty"`

	// Layout options
	Chart        chart.Config `json:"chart" toml:"chart" yaml:"chart"`
	Width        float64      `json:"width,omitempty" toml:"width,omitempty" yaml:"width,omitempty"`
	Height       float64      `json:"height,omitempty" toml:"height,omitempty" yaml:"height,omitempty"`
	Scroll       bool         `json:"scroll,omitempty" toml:"scroll,omitempty" yaml:"scroll,omitempty"`
	ScrollOffset float64      `json:"scroll_offset,omitempty" toml:"scroll_offset,omitempty" yaml:"scroll_offset,omitempty"`

	// Render options
	Formats    []string `json:"formats,omitempty" toml:"formats,omitempty" yaml:"formats,omitempty"`
	Frames     int      `json:"frames,omitempty" toml:"frames,omitempty" yaml:"frames,omitempty"`
	Fraction   *float64 `json:"fraction,omitempty" toml:"fraction,omitempty" yaml:"fraction,omitempty"`
	Labels     bool     `json:"labels,omitempty" toml:"labels,omitempty" yaml:"labels,omitempty"`
	Background string   `json:"background,omitempty" toml:"background,omitempty" yaml:"background,omitempty"`
	Palette    []string `json:"palette,omitempty" toml:"palette,omitempty" yaml:"palette,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-" yaml:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Dataset   dataset.Dataset
	Chart     *chart.Chart
	Scroll    *chart.Scroll
	Plan      *transition.Plan
	Scenes    []chart.Scene
	Artifacts map[string][]byte

	// InputHash fingerprints everything the layout depends on.
	InputHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Records    int           `json:"records"`
	Shapes     int           `json:"shapes"`
	Enter      int           `json:"enter"`
	Update     int           `json:"update"`
	Exit       int           `json:"exit"`
	ParseTime  time.Duration `json:"parse_time"`
	LayoutTime time.Duration `json:"layout_time"`
	RenderTime time.Duration `json:"render_time"`
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool `json:"parse_hit"`  // dataset decoded from cache
	LayoutHit bool `json:"layout_hit"` // chart state restored from cache
	RenderHit bool `json:"render_hit"` // every artifact came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, Formats...)
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForParse(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForParse checks the data source and resolves the field spec.
func (o *Options) ValidateForParse() error {
	if o.Data == "" && o.Records == nil {
		return errors.New(errors.ErrCodeInvalidInput, "data file or inline records are required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.resolveSpec()
}

// resolveSpec parses Channels into Spec unless a spec was given directly.
func (o *Options) resolveSpec() error {
	if o.KeyField == "" {
		o.KeyField = dataset.DefaultKeyField
	}
	if len(o.Spec.Channels) == 0 {
		if o.Channels == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "channels are required (for example y=revenue)")
		}
		spec, err := dataset.ParseChannels(o.KeyField, o.Channels)
		if err != nil {
			return err
		}
		o.Spec = spec
	}
	if o.Spec.Key == "" {
		o.Spec.Key = o.KeyField
	}
	spec, err := o.Spec.Normalize()
	if err != nil {
		return err
	}
	o.Spec = spec
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.Chart.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := o.resolveSpec(); err != nil {
		return err
	}
	if err := o.Chart.Validate(); err != nil {
		return err
	}
	for _, v := range []float64{o.Width, o.Height} {
		if !(v > 0) || math.IsInf(v, 0) {
			return errors.InvalidExtent("size", v)
		}
	}
	return errors.ValidateFinite("scroll_offset", o.ScrollOffset)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Frames == 0 {
		o.Frames = DefaultFrames
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Frames < 1 || o.Frames > MaxFrames {
		return errors.New(errors.ErrCodeInvalidConfig, "frames must be in [1, %d], got %d", MaxFrames, o.Frames)
	}
	if o.Fraction != nil {
		if f := *o.Fraction; math.IsNaN(f) || f < 0 || f > 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "fraction must be in [0, 1], got %g", f)
		}
	}
	return nil
}

// Size returns the container size.
func (o *Options) Size() layout.Size {
	return layout.Size{Width: o.Width, Height: o.Height}
}

// FrameFractions returns the fractions to sample: evenly spaced from 0 to 1
// for multi-frame output, otherwise the single requested fraction
// (default 1).
func (o *Options) FrameFractions() []float64 {
	if o.Frames <= 1 {
		if o.Fraction != nil {
			return []float64{*o.Fraction}
		}
		return []float64{1}
	}
	out := make([]float64, o.Frames)
	for i := range out {
		out[i] = float64(i) / float64(o.Frames-1)
	}
	return out
}

// GeometryKeyOpts returns cache key options for the layout stage.
func (o *Options) GeometryKeyOpts() cache.GeometryKeyOpts {
	opts := cache.GeometryKeyOpts{
		Chart:  string(o.Chart.Type),
		Width:  o.Width,
		Height: o.Height,
	}
	if o.Scroll {
		opts.Scroll = true
		opts.ItemExtent = o.Chart.ItemExtent
		opts.Overscan = o.Chart.Overscan
		opts.Offset = o.ScrollOffset
	}
	return opts
}

// SceneKeyOpts returns cache key options for one output format.
func (o *Options) SceneKeyOpts(format string) cache.SceneKeyOpts {
	opts := cache.SceneKeyOpts{
		Format: format,
		Scroll: o.Scroll,
		Frames: o.Frames,
		Labels: o.Labels,
	}
	if o.Fraction != nil {
		opts.Fraction = *o.Fraction
	}
	if len(o.Palette) > 0 || o.Background != "" {
		opts.Palette = o.Background + "|" + strings.Join(o.Palette, ",")
	}
	return opts
}
