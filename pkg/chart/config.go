package chart

import (
	"math"
	"strings"

	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/rank"
	"github.com/matzehuels/chartcore/pkg/scale"
	"github.com/matzehuels/chartcore/pkg/transition"
)

// Type names a chart component.
type Type string

const (
	TypeBar     Type = Type(layout.KindBar)
	TypeScatter Type = Type(layout.KindScatter)
	TypeLine    Type = Type(layout.KindLine)
	TypeRankBar Type = Type(layout.KindRankBar)
)

// Types lists the chart types in display order.
var Types = []Type{TypeBar, TypeScatter, TypeLine, TypeRankBar}

// ParseType converts a configuration string into a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if t == "rank-bar" || t == "rank" {
		t = TypeRankBar
	}
	for _, known := range Types {
		if t == known {
			return t, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidChart, "unknown chart type %q (must be bar, scatter, line or rankbar)", s)
}

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultGapRatio   = layout.DefaultGapRatio
	DefaultPadding    = scale.DefaultPadding
	DefaultEasing     = transition.DefaultEasing
	DefaultTieBreak   = rank.TieBreakIdentity
	DefaultOverscan   = 2
	DefaultItemExtent = 24.0
)

// Config is the per-chart configuration.
type Config struct {
	Type          Type       `json:"type" toml:"type" yaml:"type" bson:"type"`
	ScaleKind     scale.Kind `json:"scale_kind,omitempty" toml:"scale_kind,omitempty" yaml:"scale_kind,omitempty" bson:"scale_kind,omitempty"`
	Padding       float64    `json:"padding,omitempty" toml:"padding,omitempty" yaml:"padding,omitempty" bson:"padding,omitempty"`
	GapRatio      float64    `json:"gap_ratio,omitempty" toml:"gap_ratio,omitempty" yaml:"gap_ratio,omitempty" bson:"gap_ratio,omitempty"`
	RadiusChannel string     `json:"radius_channel,omitempty" toml:"radius_channel,omitempty" yaml:"radius_channel,omitempty" bson:"radius_channel,omitempty"`
	Easing        string     `json:"easing,omitempty" toml:"easing,omitempty" yaml:"easing,omitempty" bson:"easing,omitempty"`
	Overscan      int        `json:"overscan,omitempty" toml:"overscan,omitempty" yaml:"overscan,omitempty" bson:"overscan,omitempty"`
	TieBreak      string     `json:"tie_break,omitempty" toml:"tie_break,omitempty" yaml:"tie_break,omitempty" bson:"tie_break,omitempty"`
	ValueDomain   []float64  `json:"value_domain,omitempty" toml:"value_domain,omitempty" yaml:"value_domain,omitempty" bson:"value_domain,omitempty"`
	TopN          int        `json:"top_n,omitempty" toml:"top_n,omitempty" yaml:"top_n,omitempty" bson:"top_n,omitempty"`
	ItemExtent    float64    `json:"item_extent,omitempty" toml:"item_extent,omitempty" yaml:"item_extent,omitempty" bson:"item_extent,omitempty"`
}

// SetDefaults fills zero fields with their defaults. Overscan and TopN keep
// zero, which means none and unlimited.
func (c *Config) SetDefaults() {
	if c.ScaleKind == "" {
		c.ScaleKind = scale.KindLinear
	}
	if c.Padding == 0 {
		c.Padding = DefaultPadding
	}
	if c.GapRatio == 0 {
		c.GapRatio = DefaultGapRatio
	}
	if c.Easing == "" {
		c.Easing = DefaultEasing
	}
	if c.TieBreak == "" {
		c.TieBreak = DefaultTieBreak
	}
	if c.ItemExtent == 0 {
		c.ItemExtent = DefaultItemExtent
	}
}

// Validate checks every field. Call SetDefaults first.
func (c *Config) Validate() error {
	t, err := ParseType(string(c.Type))
	if err != nil {
		return err
	}
	c.Type = t

	if c.ScaleKind, err = scale.ParseKind(string(c.ScaleKind)); err != nil {
		return err
	}
	if err := errors.ValidateRatio("gap_ratio", c.GapRatio); err != nil {
		return err
	}
	if err := errors.ValidateFinite("padding", c.Padding); err != nil {
		return err
	}
	if c.Padding <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "padding must be positive, got %g", c.Padding)
	}
	if _, err := transition.EasingByName(c.Easing); err != nil {
		return err
	}
	if c.TieBreak != rank.TieBreakIdentity {
		return errors.New(errors.ErrCodeInvalidConfig, "unsupported tie_break %q (only %q)", c.TieBreak, rank.TieBreakIdentity)
	}
	if c.Overscan < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "overscan must not be negative, got %d", c.Overscan)
	}
	if c.TopN < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "top_n must not be negative, got %d", c.TopN)
	}
	if c.ValueDomain != nil {
		if len(c.ValueDomain) != 2 {
			return errors.New(errors.ErrCodeInvalidConfig, "value_domain needs exactly two bounds, got %d", len(c.ValueDomain))
		}
		for _, v := range c.ValueDomain {
			if err := errors.ValidateFinite("value_domain", v); err != nil {
				return err
			}
		}
	}
	if !(c.ItemExtent > 0) || math.IsInf(c.ItemExtent, 0) {
		return errors.InvalidExtent("item_extent", c.ItemExtent)
	}
	return nil
}

// layoutOptions translates the config into layout options.
func (c Config) layoutOptions() layout.Options {
	opts := layout.Options{
		GapRatio: c.GapRatio,
		Padding:  c.Padding,
		TopN:     c.TopN,
	}
	if len(c.ValueDomain) == 2 {
		opts.ValueDomain = &[2]float64{c.ValueDomain[0], c.ValueDomain[1]}
	}
	return opts
}

// resolveSpec folds config-level channel settings into the field spec: the
// radius channel and the default scale kind of the x channel.
func (c Config) resolveSpec(spec dataset.FieldSpec) dataset.FieldSpec {
	if c.RadiusChannel != "" {
		if _, ok := spec.Field(dataset.ChannelRadius); !ok {
			spec = spec.With(dataset.ChannelRadius, dataset.Field{Name: c.RadiusChannel})
		}
	}
	if x, ok := spec.Field(dataset.ChannelX); ok && x.Scale == "" && c.ScaleKind != scale.KindLinear {
		x.Scale = c.ScaleKind
		spec = spec.With(dataset.ChannelX, x)
	}
	return spec
}
