package transition

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/layout"
)

// FrameShape is one interpolated shape. Done marks exits that have fully
// completed and should no longer be painted.
type FrameShape struct {
	Key   string       `json:"key"`
	Kind  Kind         `json:"kind"`
	Shape layout.Shape `json:"shape"`
	Done  bool         `json:"done,omitempty"`
}

// Frame is the interpolated state of a plan at one fraction.
type Frame struct {
	Fraction float64      `json:"fraction"`
	Eased    float64      `json:"eased"`
	Shapes   []FrameShape `json:"shapes"`
}

// Live returns the shapes still on screen: everything except completed
// exits.
func (f Frame) Live() []FrameShape {
	out := make([]FrameShape, 0, len(f.Shapes))
	for _, s := range f.Shapes {
		if !s.Done {
			out = append(out, s)
		}
	}
	return out
}

// Get returns the frame shape for key.
func (f Frame) Get(key string) (FrameShape, bool) {
	for _, s := range f.Shapes {
		if s.Key == key {
			return s, true
		}
	}
	return FrameShape{}, false
}

// Advance interpolates p at the elapsed fraction f. Fractions outside [0, 1]
// are clamped and NaN is treated as 0. Advance is pure: the same plan and
// fraction always yield the same frame.
func Advance(p *Plan, f float64) Frame {
	f = clamp01(f)
	if p == nil {
		return Frame{Fraction: f, Eased: f}
	}
	e := clamp01(p.easingFunc()(f))
	frame := Frame{Fraction: f, Eased: e, Shapes: make([]FrameShape, len(p.Entries))}
	for i, entry := range p.Entries {
		from, to := p.Endpoints(entry)
		frame.Shapes[i] = FrameShape{
			Key:   entry.Key,
			Kind:  entry.Kind,
			Shape: Interpolate(from, to, e),
			Done:  entry.Kind == Exit && f >= 1,
		}
	}
	return frame
}

// Advance is shorthand for [Advance](p, f).
func (p *Plan) Advance(f float64) Frame { return Advance(p, f) }

func clamp01(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Snapshot freezes the live shapes of f into a snapshot that borrows its
// metadata (version, chart kind, size, band) from like. It lets a caller
// start a new plan from whatever is on screen mid-transition.
func (f Frame) Snapshot(like *layout.Snapshot) *layout.Snapshot {
	out := &layout.Snapshot{Shapes: make(map[string]layout.Shape, len(f.Shapes))}
	if like != nil {
		out.Version = like.Version
		out.Chart = like.Chart
		out.Width, out.Height = like.Width, like.Height
		out.Band, out.Inset = like.Band, like.Inset
	}
	for _, s := range f.Live() {
		out.Shapes[s.Key] = s.Shape
	}
	return out
}
