package layout

// ShapeKind identifies how a shape is painted.
type ShapeKind string

const (
	ShapeRect   ShapeKind = "rect"
	ShapePoint  ShapeKind = "point"
	ShapeVertex ShapeKind = "vertex"
	ShapeSlot   ShapeKind = "slot"
)

// Shape is a flat shape descriptor. Every kind uses the same fields so the
// transition layer can interpolate component-wise without type switches.
//
// Rectangles (rect, slot) use X, Y, Width and Height with (X, Y) the top-left
// corner. Base is the pixel coordinate of the value baseline: a y coordinate
// for vertical bars and an x coordinate when Horizontal is set. Points use
// X, Y and Radius. Vertices use X, Y and Segment.
type Shape struct {
	Kind       ShapeKind `json:"kind" bson:"kind"`
	X          float64   `json:"x" bson:"x"`
	Y          float64   `json:"y" bson:"y"`
	Width      float64   `json:"width,omitempty" bson:"width,omitempty"`
	Height     float64   `json:"height,omitempty" bson:"height,omitempty"`
	Radius     float64   `json:"radius,omitempty" bson:"radius,omitempty"`
	Opacity    float64   `json:"opacity" bson:"opacity"`
	Base       float64   `json:"base,omitempty" bson:"base,omitempty"`
	Horizontal bool      `json:"horizontal,omitempty" bson:"horizontal,omitempty"`
	Segment    int       `json:"segment,omitempty" bson:"segment,omitempty"`
	Order      int       `json:"order" bson:"order"`
}

func (s Shape) Left() float64    { return s.X }
func (s Shape) Right() float64   { return s.X + s.Width }
func (s Shape) Top() float64     { return s.Y }
func (s Shape) Bottom() float64  { return s.Y + s.Height }
func (s Shape) CenterX() float64 { return s.X + s.Width/2 }
func (s Shape) CenterY() float64 { return s.Y + s.Height/2 }

// IsRect reports whether the shape is painted as a rectangle.
func (s Shape) IsRect() bool { return s.Kind == ShapeRect || s.Kind == ShapeSlot }

// Size is a container size. Negative extents are treated as zero.
type Size struct {
	Width  float64 `json:"width" toml:"width" yaml:"width" bson:"width"`
	Height float64 `json:"height" toml:"height" yaml:"height" bson:"height"`
}

// Clamp returns s with negative or NaN extents replaced by zero.
func (s Size) Clamp() Size {
	if !(s.Width > 0) {
		s.Width = 0
	}
	if !(s.Height > 0) {
		s.Height = 0
	}
	return s
}
