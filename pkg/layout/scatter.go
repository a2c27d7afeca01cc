package layout

import "github.com/matzehuels/chartcore/pkg/dataset"

// Scatter places one point per record at (x(fx), y(fy)). The y range is
// inverted so larger values sit higher. With a radius channel the radius
// comes from a square-root scale, so point area tracks the value.
func Scatter(in Input, sc Scales) (*Snapshot, error) {
	snap := NewSnapshot(KindScatter, in.Size)
	opts := in.Options.withDefaults()

	xf, _ := in.Spec.Field(dataset.ChannelX)
	yf, _ := in.Spec.Field(dataset.ChannelY)
	fields := []dataset.Field{xf, yf}
	rf, hasRadius := in.Spec.Field(dataset.ChannelRadius)
	if hasRadius {
		fields = append(fields, rf)
	}

	for i, rec := range in.Data {
		ok, err := include(rec, fields...)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		x, _, err := position(sc.X, rec, xf)
		if err != nil {
			return nil, err
		}
		y, _, err := position(sc.Y, rec, yf)
		if err != nil {
			return nil, err
		}

		r := opts.PointRadius
		if hasRadius && sc.Radius != nil {
			v, _, err := rec.Number(rf.Name)
			if err != nil {
				return nil, err
			}
			r = sc.Radius.Forward(v)
		}

		snap.Shapes[rec.Key] = Shape{
			Kind:    ShapePoint,
			X:       x,
			Y:       y,
			Radius:  r,
			Opacity: 1,
			Order:   i,
		}
	}
	return snap, nil
}
