package layout

import (
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// ChartKind selects a geometry family.
type ChartKind string

const (
	KindBar     ChartKind = "bar"
	KindScatter ChartKind = "scatter"
	KindLine    ChartKind = "line"
	KindRankBar ChartKind = "rankbar"
)

// Default layout parameters.
const (
	DefaultGapRatio    = 0.1
	DefaultPointRadius = 4.0
)

// DefaultRadiusRange is the pixel range of the square-root radius scale.
var DefaultRadiusRange = [2]float64{2, 12}

// Options tunes geometry. Zero values select the defaults.
type Options struct {
	GapRatio    float64     // fraction of each band left empty between bars
	Padding     float64     // fallback expansion for degenerate domains
	ValueDomain *[2]float64 // fixed value domain for bar charts
	PointRadius float64     // scatter radius when no radius channel is bound
	RadiusRange [2]float64  // pixel range for the radius channel
	TopN        int         // rank bars: keep only ranks below TopN
}

func (o Options) withDefaults() Options {
	if o.GapRatio <= 0 {
		o.GapRatio = DefaultGapRatio
	}
	if o.Padding <= 0 {
		o.Padding = scale.DefaultPadding
	}
	if o.PointRadius <= 0 {
		o.PointRadius = DefaultPointRadius
	}
	if o.RadiusRange == [2]float64{} {
		o.RadiusRange = DefaultRadiusRange
	}
	return o
}

// Input is everything a layout pass reads.
type Input struct {
	Kind    ChartKind
	Data    dataset.Dataset
	Spec    dataset.FieldSpec
	Size    Size
	Options Options
	// Ranks maps keys to rank positions. Required for rank bars.
	Ranks map[string]int
}

func (in Input) validate() error {
	switch in.Kind {
	case KindBar, KindRankBar:
		if _, ok := valueField(in.Spec); !ok {
			return errors.New(errors.ErrCodeInvalidConfig, "%s chart needs a y or value channel", in.Kind)
		}
	case KindScatter, KindLine:
		if err := in.Spec.Require(dataset.ChannelX, dataset.ChannelY); err != nil {
			return err
		}
	default:
		return errors.New(errors.ErrCodeInvalidChart, "unknown chart kind %q", in.Kind)
	}
	if err := errors.ValidateRatio("gapRatio", in.Options.GapRatio); err != nil {
		return err
	}
	if in.Kind == KindRankBar && in.Ranks == nil {
		return errors.New(errors.ErrCodeInvalidInput, "rank bar layout needs a rank table")
	}
	return nil
}

// valueField returns the field that drives bar length: the value channel if
// bound, otherwise y.
func valueField(spec dataset.FieldSpec) (dataset.Field, bool) {
	if f, ok := spec.Field(dataset.ChannelValue); ok {
		return f, true
	}
	return spec.Field(dataset.ChannelY)
}

// categoryField returns the field that names bar categories: the category
// channel if bound, otherwise x.
func categoryField(spec dataset.FieldSpec) (dataset.Field, bool) {
	if f, ok := spec.Field(dataset.ChannelCategory); ok {
		return f, true
	}
	return spec.Field(dataset.ChannelX)
}
