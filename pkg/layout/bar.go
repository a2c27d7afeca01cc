package layout

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// Bar lays out vertical bars. Each category owns a band of width
// Width/len(categories); the bar fills the band minus GapRatio of it,
// centered, and grows from the baseline toward its value.
func Bar(in Input, sc Scales) (*Snapshot, error) {
	snap := NewSnapshot(KindBar, in.Size)
	opts := in.Options.withDefaults()

	vf, _ := valueField(in.Spec)
	fields := []dataset.Field{vf}
	cf, hasCat := categoryField(in.Spec)
	if hasCat {
		fields = append(fields, cf)
	}
	rows, err := included(in.Data, fields...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return snap, nil
	}
	if sc.Band == nil || sc.Value == nil {
		return nil, errors.New(errors.ErrCodeInternal, "bar layout needs band and value scales")
	}

	band := sc.Band.Bandwidth()
	gap := band * opts.GapRatio
	snap.Band, snap.Inset = band, gap/2

	d := sc.Value.Domain()
	yBase := snap.Height - sc.Value.Forward(baseline(d.Min, d.Max))

	for _, rec := range rows {
		cat := rec.Key
		if hasCat {
			cat, _ = rec.String(cf.Name)
		}
		start, err := sc.Band.Forward(cat)
		if err != nil {
			return nil, errors.AttachKey(err, rec.Key)
		}
		idx, _ := sc.Band.Index(cat)

		v, _, err := rec.Value(vf)
		if err != nil {
			return nil, err
		}
		yv := snap.Height - sc.Value.Forward(v)

		snap.Shapes[rec.Key] = Shape{
			Kind:    ShapeRect,
			X:       start + gap/2,
			Y:       math.Min(yv, yBase),
			Width:   band - gap,
			Height:  math.Abs(yv - yBase),
			Opacity: 1,
			Base:    yBase,
			Order:   idx,
		}
	}
	return snap, nil
}
