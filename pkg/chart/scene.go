package chart

import (
	"cmp"
	"slices"

	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/transition"
)

// Item is one paintable shape.
type Item struct {
	Key        string           `json:"key"`
	ShapeKind  layout.ShapeKind `json:"shape_kind"`
	Geometry   layout.Shape     `json:"geometry"`
	Opacity    float64          `json:"opacity"`
	Transition transition.Kind  `json:"transition,omitempty"`
}

// Scene is what a renderer paints for one frame. Items are ordered by shape
// order, then key. OffsetX and OffsetY translate the whole scene; they are
// non-zero only for scrolled charts.
type Scene struct {
	Chart    Type    `json:"chart"`
	Version  uint64  `json:"version"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Fraction float64 `json:"fraction"`
	OffsetX  float64 `json:"offset_x,omitempty"`
	OffsetY  float64 `json:"offset_y,omitempty"`
	Items    []Item  `json:"items"`
}

func (c *Chart) scene(fr transition.Frame) Scene {
	sc := Scene{Chart: c.cfg.Type, Fraction: fr.Fraction, Items: []Item{}}
	if c.current != nil {
		sc.Version = c.current.Version
		sc.Width, sc.Height = c.current.Width, c.current.Height
	}
	for _, s := range fr.Live() {
		sc.Items = append(sc.Items, Item{
			Key:        s.Key,
			ShapeKind:  s.Shape.Kind,
			Geometry:   s.Shape,
			Opacity:    s.Shape.Opacity,
			Transition: s.Kind,
		})
	}
	slices.SortFunc(sc.Items, func(a, b Item) int {
		if c := cmp.Compare(a.Geometry.Order, b.Geometry.Order); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return sc
}

// Get returns the item for key.
func (s Scene) Get(key string) (Item, bool) {
	for _, it := range s.Items {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}

// Keys returns the item keys in paint order.
func (s Scene) Keys() []string {
	keys := make([]string, len(s.Items))
	for i, it := range s.Items {
		keys[i] = it.Key
	}
	return keys
}

// Paths groups vertex items into connected line segments in path order.
// Non-vertex items are ignored.
func (s Scene) Paths() [][]Item {
	var out [][]Item
	last := -1
	for _, it := range s.Items {
		if it.ShapeKind != layout.ShapeVertex {
			continue
		}
		if len(out) == 0 || it.Geometry.Segment != last {
			out = append(out, nil)
			last = it.Geometry.Segment
		}
		out[len(out)-1] = append(out[len(out)-1], it)
	}
	return out
}
