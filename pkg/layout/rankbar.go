package layout

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// RankBar lays out horizontal bars stacked by rank: rank 0 is the top slot.
// A record's vertical position comes only from Input.Ranks, never from
// dataset order. With TopN set, records ranked at or beyond TopN are left
// out.
func RankBar(in Input, sc Scales) (*Snapshot, error) {
	snap := NewSnapshot(KindRankBar, in.Size)
	opts := in.Options.withDefaults()

	vf, _ := valueField(in.Spec)
	rows, err := included(in.Data, vf)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return snap, nil
	}
	if sc.Band == nil || sc.Value == nil {
		return nil, errors.New(errors.ErrCodeInternal, "rank bar layout needs band and value scales")
	}

	band := sc.Band.Bandwidth()
	gap := band * opts.GapRatio
	snap.Band, snap.Inset = band, gap/2

	d := sc.Value.Domain()
	xBase := sc.Value.Forward(baseline(d.Min, d.Max))

	for _, rec := range rows {
		r, ok := in.Ranks[rec.Key]
		if !ok {
			return nil, errors.MissingField(rec.Key, string(dataset.ChannelRank))
		}
		if opts.TopN > 0 && r >= opts.TopN {
			continue
		}
		v, _, err := rec.Value(vf)
		if err != nil {
			return nil, err
		}
		xv := sc.Value.Forward(v)

		snap.Shapes[rec.Key] = Shape{
			Kind:       ShapeSlot,
			X:          math.Min(xv, xBase),
			Y:          SlotPosition(r, band, gap/2),
			Width:      math.Abs(xv - xBase),
			Height:     band - gap,
			Opacity:    1,
			Base:       xBase,
			Horizontal: true,
			Order:      r,
		}
	}
	return snap, nil
}

// SlotPosition returns the leading edge of the shape in rank slot r.
func SlotPosition(r int, band, inset float64) float64 {
	return float64(r)*band + inset
}
