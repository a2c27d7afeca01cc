package chart

import (
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/rank"
	"github.com/matzehuels/chartcore/pkg/scroll"
	"github.com/matzehuels/chartcore/pkg/transition"
)

// Scroll virtualizes a chart: only the records inside the scroll window
// reach the layout engine. Each record occupies Config.ItemExtent pixels
// along the scroll axis, which is vertical for rank bars and horizontal for
// every other chart.
type Scroll struct {
	chart    *Chart
	window   scroll.Window
	offset   float64
	dataHash string
}

// NewScroll wraps c.
func NewScroll(c *Chart) *Scroll {
	return &Scroll{chart: c}
}

// Chart returns the wrapped chart.
func (s *Scroll) Chart() *Chart { return s.chart }

// Window returns the window of the last successful update.
func (s *Scroll) Window() scroll.Window { return s.window }

// Vertical reports whether the scroll axis is y.
func (s *Scroll) Vertical() bool { return s.chart.isRank() }

// Update windows ds for a viewport of the given size scrolled to
// scrollOffset pixels and updates the wrapped chart with the visible slice.
//
// Rank bars are ordered by rank, and cut to TopN, before windowing, so
// scrolling walks down the ranking. When only the scroll position changed,
// the new geometry is applied without animation.
func (s *Scroll) Update(ds dataset.Dataset, size layout.Size, scrollOffset float64) (*transition.Plan, bool, error) {
	c := s.chart
	size = size.Clamp()
	viewport := size.Width
	if s.Vertical() {
		viewport = size.Height
	}
	if !(scrollOffset > 0) {
		scrollOffset = 0
	}

	ordered := ds
	var table rank.Table
	if c.isRank() {
		var err error
		if table, err = c.rankTable(ds); err != nil {
			return nil, false, err
		}
		ordered = byRank(ds, table)
		if n := c.cfg.TopN; n > 0 && len(ordered) > n {
			ordered = ordered[:n]
		}
	}

	w, err := scroll.ComputeWindow(len(ordered), c.cfg.ItemExtent, viewport, scrollOffset, c.cfg.Overscan)
	if err != nil {
		return nil, false, err
	}
	slice := w.Slice(ordered)

	extent := float64(w.Size) * c.cfg.ItemExtent
	inner := layout.Size{Width: extent, Height: size.Height}
	var ranks rank.Table
	if s.Vertical() {
		inner = layout.Size{Width: size.Width, Height: extent}
		ranks = make(rank.Table, len(slice))
		for i, rec := range slice {
			ranks[rec.Key] = i
		}
	}

	dataHash := contentHash(ds)
	plan, changed, err := c.update(slice, inner, ranks)
	if err != nil {
		return nil, false, err
	}
	if changed && dataHash == s.dataHash {
		c.Settle()
		plan = c.plan
	}
	s.window, s.offset, s.dataHash = w, scrollOffset, dataHash
	return plan, changed, nil
}

// Frame returns the wrapped chart's scene translated so the window lines
// up with the viewport.
func (s *Scroll) Frame(f float64) Scene {
	sc := s.chart.Frame(f)
	pos := scroll.Position(s.window, s.chart.cfg.ItemExtent, s.offset)
	if s.Vertical() {
		sc.OffsetY = pos
	} else {
		sc.OffsetX = pos
	}
	return sc
}

// ScrollState is the persistable part of a Scroll.
type ScrollState struct {
	Window   scroll.Window `json:"window" bson:"window"`
	Offset   float64       `json:"offset" bson:"offset"`
	DataHash string        `json:"data_hash,omitempty" bson:"data_hash,omitempty"`
}

// State exports the scroll position of the last successful update.
func (s *Scroll) State() ScrollState {
	return ScrollState{Window: s.window, Offset: s.offset, DataHash: s.dataHash}
}

// RestoreScroll wraps c and resumes from st.
func RestoreScroll(c *Chart, st ScrollState) *Scroll {
	return &Scroll{chart: c, window: st.Window, offset: st.Offset, dataHash: st.DataHash}
}

// byRank returns ds reordered by rank.
func byRank(ds dataset.Dataset, t rank.Table) dataset.Dataset {
	out := make(dataset.Dataset, len(ds))
	idx := ds.Index()
	for i, key := range t.Order() {
		out[i] = ds[idx[key]]
	}
	return out
}
