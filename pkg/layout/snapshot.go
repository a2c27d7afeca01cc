package layout

import (
	"cmp"
	"slices"
)

// Snapshot is the full set of shapes for one render pass.
//
// Band and Inset describe the category (or rank) axis: band i starts at
// i*Band and its shape starts Inset further along. The rank transition uses
// them to compute slot positions.
type Snapshot struct {
	Version uint64           `json:"version" bson:"version"`
	Chart   ChartKind        `json:"chart" bson:"chart"`
	Width   float64          `json:"width" bson:"width"`
	Height  float64          `json:"height" bson:"height"`
	Band    float64          `json:"band,omitempty" bson:"band,omitempty"`
	Inset   float64          `json:"inset,omitempty" bson:"inset,omitempty"`
	Shapes  map[string]Shape `json:"shapes" bson:"shapes"`
}

// NewSnapshot returns an empty snapshot for the given chart and size.
func NewSnapshot(kind ChartKind, size Size) *Snapshot {
	size = size.Clamp()
	return &Snapshot{
		Chart:  kind,
		Width:  size.Width,
		Height: size.Height,
		Shapes: map[string]Shape{},
	}
}

// Len returns the number of shapes. A nil snapshot is empty.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Shapes)
}

// Get returns the shape for key.
func (s *Snapshot) Get(key string) (Shape, bool) {
	if s == nil {
		return Shape{}, false
	}
	sh, ok := s.Shapes[key]
	return sh, ok
}

// Keys returns the shape keys ordered by Shape.Order, then key.
func (s *Snapshot) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.Shapes))
	for k := range s.Shapes {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(s.Shapes[a].Order, s.Shapes[b].Order); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return keys
}

// Clone returns a deep copy.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.Shapes = make(map[string]Shape, len(s.Shapes))
	for k, v := range s.Shapes {
		c.Shapes[k] = v
	}
	return &c
}
