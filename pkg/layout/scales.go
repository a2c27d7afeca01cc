package layout

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// Scales are the scales one layout pass uses. Unused scales are nil.
type Scales struct {
	X      scale.Scale   // scatter, line: Continuous or *scale.Band
	Y      scale.Scale   // scatter, line: Continuous or *scale.Band
	Value  *scale.Linear // bar, rank bar: value to bar length
	Radius *scale.Sqrt   // scatter radius channel
	Band   *scale.Band   // bar categories or rank slots
}

// Key returns a content fingerprint of the scales. Two Scales with equal
// keys map every input identically.
func (s Scales) Key() string {
	parts := []string{"x=-", "y=-", "v=-", "r=-", "b=-"}
	if s.X != nil {
		parts[0] = "x=" + scale.Describe(s.X)
	}
	if s.Y != nil {
		parts[1] = "y=" + scale.Describe(s.Y)
	}
	if s.Value != nil {
		parts[2] = "v=" + scale.Describe(s.Value)
	}
	if s.Radius != nil {
		parts[3] = "r=" + scale.Describe(s.Radius)
	}
	if s.Band != nil {
		parts[4] = "b=" + scale.Describe(s.Band)
	}
	return strings.Join(parts, ";")
}

// ResolveScales derives scales from data extents and the container size.
// Degenerate continuous domains are expanded by Options.Padding.
func ResolveScales(in Input) (Scales, error) {
	if err := in.validate(); err != nil {
		return Scales{}, err
	}
	size := in.Size.Clamp()
	opts := in.Options.withDefaults()

	switch in.Kind {
	case KindBar:
		return barScales(in.Data, in.Spec, size, opts)
	case KindRankBar:
		return rankScales(in, size, opts)
	default:
		return pointScales(in.Data, in.Spec, size, opts)
	}
}

func barScales(ds dataset.Dataset, spec dataset.FieldSpec, size Size, opts Options) (Scales, error) {
	vf, _ := valueField(spec)
	fields := []dataset.Field{vf}
	cf, hasCat := categoryField(spec)
	if hasCat {
		fields = append(fields, cf)
	}
	rows, err := included(ds, fields...)
	if err != nil {
		return Scales{}, err
	}

	cats := rows.Keys()
	if hasCat {
		cats = rows.Categories(cf)
	}
	band, err := scale.NewBand(cats, scale.Range{Start: 0, End: size.Width})
	if err != nil {
		return Scales{}, err
	}
	value, err := valueScale(rows, vf, opts, scale.Range{Start: 0, End: size.Height})
	if err != nil {
		return Scales{}, err
	}
	return Scales{Band: band, Value: value}, nil
}

func rankScales(in Input, size Size, opts Options) (Scales, error) {
	vf, _ := valueField(in.Spec)
	rows, err := included(in.Data, vf)
	if err != nil {
		return Scales{}, err
	}

	slots := rankedKeys(in.Ranks, opts.TopN)
	band, err := scale.NewBand(slots, scale.Range{Start: 0, End: size.Height})
	if err != nil {
		return Scales{}, err
	}

	shown := rows[:0:0]
	for _, rec := range rows {
		r, ok := in.Ranks[rec.Key]
		if !ok {
			return Scales{}, errors.MissingField(rec.Key, string(dataset.ChannelRank))
		}
		if opts.TopN > 0 && r >= opts.TopN {
			continue
		}
		shown = append(shown, rec)
	}
	value, err := valueScale(shown, vf, opts, scale.Range{Start: 0, End: size.Width})
	if err != nil {
		return Scales{}, err
	}
	return Scales{Band: band, Value: value}, nil
}

// rankedKeys returns the keys of ranks ordered by rank, truncated to topN
// when topN is positive.
func rankedKeys(ranks map[string]int, topN int) []string {
	keys := make([]string, 0, len(ranks))
	for k, r := range ranks {
		if topN > 0 && r >= topN {
			continue
		}
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(ranks[a], ranks[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return keys
}

// valueScale spans the data extent, always including zero, unless the
// options pin the domain.
func valueScale(rows dataset.Dataset, vf dataset.Field, opts Options, rng scale.Range) (*scale.Linear, error) {
	var d scale.Domain
	if opts.ValueDomain != nil {
		d = scale.Domain{Min: opts.ValueDomain[0], Max: opts.ValueDomain[1]}
	} else {
		ext, ok, err := rows.Extent(vf)
		if err != nil {
			return nil, err
		}
		if ok {
			d = ext
		}
		d.Min = math.Min(d.Min, 0)
		d.Max = math.Max(d.Max, 0)
	}
	d = scale.Pad(d, opts.Padding)
	return scale.NewLinear(d.Min, d.Max, rng)
}

func pointScales(ds dataset.Dataset, spec dataset.FieldSpec, size Size, opts Options) (Scales, error) {
	xf, _ := spec.Field(dataset.ChannelX)
	yf, _ := spec.Field(dataset.ChannelY)

	x, err := axisScale(ds, xf, scale.Range{Start: 0, End: size.Width}, opts.Padding)
	if err != nil {
		return Scales{}, err
	}
	y, err := axisScale(ds, yf, scale.Range{Start: size.Height, End: 0}, opts.Padding)
	if err != nil {
		return Scales{}, err
	}
	sc := Scales{X: x, Y: y}

	if rf, ok := spec.Field(dataset.ChannelRadius); ok {
		ext, _, err := ds.Extent(rf)
		if err != nil {
			return Scales{}, err
		}
		sc.Radius, err = scale.NewSqrt(ext.Min, ext.Max, scale.Range{Start: opts.RadiusRange[0], End: opts.RadiusRange[1]})
		if err != nil {
			return Scales{}, err
		}
	}
	return sc, nil
}

// axisScale builds a band scale for ordinal fields and a padded continuous
// scale otherwise.
func axisScale(ds dataset.Dataset, f dataset.Field, rng scale.Range, padding float64) (scale.Scale, error) {
	if f.Scale == scale.KindOrdinal {
		return scale.NewBand(ds.Categories(f), rng)
	}
	ext, _, err := ds.Extent(f)
	if err != nil {
		return nil, err
	}
	ext = scale.Pad(ext, padding)
	kind := f.Scale
	if kind == "" {
		kind = scale.KindLinear
	}
	return scale.New(kind, ext, rng)
}

// position maps a record field through an axis scale. Band scales place the
// record at its category's center.
func position(sc scale.Scale, rec dataset.Record, f dataset.Field) (float64, bool, error) {
	switch s := sc.(type) {
	case *scale.Band:
		cat, ok := rec.String(f.Name)
		if !ok {
			return 0, false, nil
		}
		c, err := s.Center(cat)
		if err != nil {
			return 0, false, errors.AttachKey(err, rec.Key)
		}
		return c, true, nil
	case scale.Continuous:
		v, ok, err := rec.Value(f)
		if err != nil || !ok {
			return 0, ok, err
		}
		return s.Forward(v), true, nil
	}
	return 0, false, errors.New(errors.ErrCodeInternal, "no usable scale for field %q", f.Name)
}
