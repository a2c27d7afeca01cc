package layout

import "github.com/matzehuels/chartcore/pkg/dataset"

// Line emits one vertex per record in dataset order. A record without x or
// y is not drawn and breaks the path: the next drawn vertex starts a new
// segment. Consumers connect vertices with equal Segment in Order.
func Line(in Input, sc Scales) (*Snapshot, error) {
	snap := NewSnapshot(KindLine, in.Size)

	xf, _ := in.Spec.Field(dataset.ChannelX)
	yf, _ := in.Spec.Field(dataset.ChannelY)

	segment, open := 0, false
	for i, rec := range in.Data {
		x, okX, err := position(sc.X, rec, xf)
		if err != nil {
			return nil, err
		}
		y, okY, err := position(sc.Y, rec, yf)
		if err != nil {
			return nil, err
		}
		if !okX || !okY {
			if open {
				segment++
				open = false
			}
			continue
		}
		open = true
		snap.Shapes[rec.Key] = Shape{
			Kind:    ShapeVertex,
			X:       x,
			Y:       y,
			Opacity: 1,
			Segment: segment,
			Order:   i,
		}
	}
	return snap, nil
}

// Segments groups the vertex keys of a line snapshot into connected runs, in
// path order.
func Segments(s *Snapshot) [][]string {
	var out [][]string
	last := -1
	for _, k := range s.Keys() {
		sh := s.Shapes[k]
		if sh.Kind != ShapeVertex {
			continue
		}
		if len(out) == 0 || sh.Segment != last {
			out = append(out, nil)
			last = sh.Segment
		}
		out[len(out)-1] = append(out[len(out)-1], k)
	}
	return out
}
