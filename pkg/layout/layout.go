package layout

import (
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// Compute resolves scales and lays out the input in one step.
func Compute(in Input) (*Snapshot, Scales, error) {
	sc, err := ResolveScales(in)
	if err != nil {
		return nil, Scales{}, err
	}
	snap, err := ComputeGeometry(in, sc)
	if err != nil {
		return nil, Scales{}, err
	}
	return snap, sc, nil
}

// ComputeGeometry places one shape per record using precomputed scales. The
// returned snapshot has Version 0; versioning belongs to the caller.
func ComputeGeometry(in Input, sc Scales) (*Snapshot, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	in.Size = in.Size.Clamp()
	in.Options = in.Options.withDefaults()

	switch in.Kind {
	case KindBar:
		return Bar(in, sc)
	case KindScatter:
		return Scatter(in, sc)
	case KindLine:
		return Line(in, sc)
	case KindRankBar:
		return RankBar(in, sc)
	}
	return nil, errors.New(errors.ErrCodeInvalidChart, "unknown chart kind %q", in.Kind)
}

// include reports whether rec carries every field. A missing optional field
// skips the record; a missing required field is an error.
func include(rec dataset.Record, fields ...dataset.Field) (bool, error) {
	for _, f := range fields {
		if rec.Has(f.Name) {
			continue
		}
		if f.Optional {
			return false, nil
		}
		return false, errors.MissingField(rec.Key, f.Name)
	}
	return true, nil
}

// included filters ds down to the records that carry every field.
func included(ds dataset.Dataset, fields ...dataset.Field) (dataset.Dataset, error) {
	out := make(dataset.Dataset, 0, len(ds))
	for _, rec := range ds {
		ok, err := include(rec, fields...)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// baseline picks the value bars grow from: zero when the domain straddles
// it, otherwise the bound nearest zero.
func baseline(min, max float64) float64 {
	lo, hi := min, max
	if lo > hi {
		lo, hi = hi, lo
	}
	switch {
	case lo > 0:
		return lo
	case hi < 0:
		return hi
	}
	return 0
}
