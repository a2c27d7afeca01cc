// Package scroll windows a long ordered dataset down to the slice a
// viewport can show, plus overscan.
//
// [ComputeWindow] is O(1): it looks only at the extents, never at the data.
package scroll

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
)

// Window is a contiguous index range [Offset, Offset+Size) over a dataset.
type Window struct {
	Offset int `json:"offset"`
	Size   int `json:"size"`
}

// End returns the exclusive end index.
func (w Window) End() int { return w.Offset + w.Size }

// Contains reports whether index i falls inside the window.
func (w Window) Contains(i int) bool { return i >= w.Offset && i < w.End() }

// Slice returns the records inside the window. The window is clamped to ds,
// so a stale window never panics.
func (w Window) Slice(ds dataset.Dataset) dataset.Dataset {
	lo := min(max(w.Offset, 0), len(ds))
	hi := min(max(w.End(), lo), len(ds))
	return ds[lo:hi]
}

// ComputeWindow returns the window to render for a viewport scrolled to
// scrollOffset, where every item is itemExtent long along the scroll axis.
//
// The offset is floor(scrollOffset/itemExtent) - overscan, clamped into
// [0, length]. The size is ceil(viewportExtent/itemExtent) + 2*overscan,
// widened when a fractional scroll position would otherwise leave the last
// visible row uncovered, and clamped so Offset+Size never exceeds length.
//
// A non-positive itemExtent or viewportExtent fails with INVALID_EXTENT.
// Negative scroll offsets clamp to zero, as do negative lengths and overscans.
func ComputeWindow(length int, itemExtent, viewportExtent, scrollOffset float64, overscan int) (Window, error) {
	if !(itemExtent > 0) || math.IsInf(itemExtent, 0) {
		return Window{}, errors.InvalidExtent("itemExtent", itemExtent)
	}
	if !(viewportExtent > 0) || math.IsInf(viewportExtent, 0) {
		return Window{}, errors.InvalidExtent("viewportExtent", viewportExtent)
	}
	length = max(length, 0)
	// Overscan beyond the list length adds nothing and could overflow below.
	overscan = min(max(overscan, 0), length)
	if !(scrollOffset > 0) {
		scrollOffset = 0
	}

	n := float64(length)
	first := math.Min(math.Floor(scrollOffset/itemExtent), n)
	offset := int(math.Max(first-float64(overscan), 0))

	size := int(math.Min(math.Ceil(viewportExtent/itemExtent), n)) + 2*overscan
	last := math.Min(math.Ceil((scrollOffset+viewportExtent)/itemExtent), n)
	if need := int(last) + overscan - offset; need > size {
		size = need
	}

	size = max(min(size, length-offset), 0)
	return Window{Offset: offset, Size: size}, nil
}

// Position returns the pixel offset, relative to the viewport's leading
// edge, at which the first windowed item should be drawn.
func Position(w Window, itemExtent, scrollOffset float64) float64 {
	if !(scrollOffset > 0) {
		scrollOffset = 0
	}
	return float64(w.Offset)*itemExtent - scrollOffset
}
