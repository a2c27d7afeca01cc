package transition

import "github.com/matzehuels/chartcore/pkg/layout"

// ShapeFunc derives a birth or death shape from a real one.
type ShapeFunc func(layout.Shape) layout.Shape

// Collapse returns s shrunk to nothing in place: rectangles flatten onto
// their baseline, points shrink to zero radius, vertices keep their
// position. Opacity is always zero.
func Collapse(s layout.Shape) layout.Shape {
	switch {
	case s.IsRect() && s.Horizontal:
		s.X = s.Base
		s.Width = 0
	case s.IsRect():
		s.Y = s.Base
		s.Height = 0
	case s.Kind == layout.ShapePoint:
		s.Radius = 0
	}
	s.Opacity = 0
	return s
}

// Fade keeps geometry and only drops opacity to zero.
func Fade(s layout.Shape) layout.Shape {
	s.Opacity = 0
	return s
}

// DefaultBirth and DefaultDeath are used when a plan does not override them.
var (
	DefaultBirth ShapeFunc = Collapse
	DefaultDeath ShapeFunc = Collapse
)

// Interpolate blends a toward b by e. Numeric fields use a*(1-e) + b*e;
// discrete fields take b's value once e >= 0.5.
func Interpolate(a, b layout.Shape, e float64) layout.Shape {
	lerp := func(x, y float64) float64 { return x*(1-e) + y*e }
	out := layout.Shape{
		X:       lerp(a.X, b.X),
		Y:       lerp(a.Y, b.Y),
		Width:   lerp(a.Width, b.Width),
		Height:  lerp(a.Height, b.Height),
		Radius:  lerp(a.Radius, b.Radius),
		Opacity: lerp(a.Opacity, b.Opacity),
		Base:    lerp(a.Base, b.Base),
	}
	src := a
	if e >= 0.5 {
		src = b
	}
	out.Kind = src.Kind
	out.Horizontal = src.Horizontal
	out.Segment = src.Segment
	out.Order = src.Order
	return out
}
