package chart

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/rank"
	"github.com/matzehuels/chartcore/pkg/transition"
)

// Chart is one chart instance. It owns its scales and its current and
// previous snapshots; nothing is shared between instances.
type Chart struct {
	cfg    Config
	spec   dataset.FieldSpec
	easing transition.Easing

	hash      string
	scales    layout.Scales
	scalesKey string
	reused    bool

	current   *layout.Snapshot
	previous  *layout.Snapshot
	ranks     rank.Table
	prevRanks rank.Table
	plan      *transition.Plan
	fraction  float64
	version   uint64
}

// New validates cfg and spec and returns an empty chart.
func New(cfg Config, spec dataset.FieldSpec) (*Chart, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	spec, err := spec.Normalize()
	if err != nil {
		return nil, err
	}
	easing, err := transition.EasingByName(cfg.Easing)
	if err != nil {
		return nil, err
	}
	return &Chart{
		cfg:    cfg,
		spec:   cfg.resolveSpec(spec),
		easing: easing,
	}, nil
}

func (c *Chart) Config() Config               { return c.cfg }
func (c *Chart) Spec() dataset.FieldSpec      { return c.spec }
func (c *Chart) Current() *layout.Snapshot    { return c.current }
func (c *Chart) Previous() *layout.Snapshot   { return c.previous }
func (c *Chart) Plan() *transition.Plan       { return c.plan }
func (c *Chart) Ranks() rank.Table            { return c.ranks }
func (c *Chart) Scales() layout.Scales        { return c.scales }
func (c *Chart) Version() uint64              { return c.version }
func (c *Chart) Fraction() float64            { return c.fraction }
func (c *Chart) ScalesReused() bool           { return c.reused }
func (c *Chart) layoutKind() layout.ChartKind { return layout.ChartKind(c.cfg.Type) }
func (c *Chart) isRank() bool                 { return c.cfg.Type == TypeRankBar }

// Update lays out ds in a container of the given size and plans the
// transition from the geometry currently on screen. The boolean reports
// whether anything was recomputed; when the inputs hash to the same content
// as the last successful call, the running plan is returned unchanged.
//
// On error the chart keeps its last good state, so a caller can keep
// painting the previous scene.
func (c *Chart) Update(ds dataset.Dataset, size layout.Size) (*transition.Plan, bool, error) {
	return c.update(ds, size, nil)
}

func (c *Chart) update(ds dataset.Dataset, size layout.Size, ranks rank.Table) (*transition.Plan, bool, error) {
	if err := ds.Validate(); err != nil {
		return nil, false, err
	}
	size = size.Clamp()

	if c.isRank() && ranks == nil {
		var err error
		if ranks, err = c.rankTable(ds); err != nil {
			return nil, false, err
		}
	}

	key := contentHash(struct {
		Data   dataset.Dataset
		Spec   dataset.FieldSpec
		Config Config
		Size   layout.Size
		Ranks  rank.Table
	}{ds, c.spec, c.cfg, size, ranks})
	if key == c.hash && c.current != nil {
		return c.plan, false, nil
	}

	in := layout.Input{
		Kind:    c.layoutKind(),
		Data:    ds,
		Spec:    c.spec,
		Size:    size,
		Options: c.cfg.layoutOptions(),
		Ranks:   ranks,
	}
	sc, err := layout.ResolveScales(in)
	if err != nil {
		return nil, false, err
	}
	reused := false
	if k := sc.Key(); k == c.scalesKey && c.scalesKey != "" {
		sc, reused = c.scales, true
	}
	snap, err := layout.ComputeGeometry(in, sc)
	if err != nil {
		return nil, false, err
	}

	c.version++
	snap.Version = c.version
	from, moving := c.displayed()
	prevRanks := c.ranks
	if moving {
		// Interpolated geometry sits between slots; no table describes it.
		prevRanks = nil
	}

	c.plan = c.planFor(prevRanks, ranks, from, snap)
	c.previous, c.current = from, snap
	c.prevRanks, c.ranks = prevRanks, ranks
	c.scales, c.scalesKey, c.reused = sc, sc.Key(), reused
	c.hash = key
	c.fraction = 0
	return c.plan, true, nil
}

// displayed returns what is on screen: the current snapshot, or the
// interpolated state when the last frame drawn was mid-transition. The
// boolean reports the latter.
func (c *Chart) displayed() (*layout.Snapshot, bool) {
	if c.plan != nil && c.fraction > 0 && c.fraction < 1 {
		return transition.Advance(c.plan, c.fraction).Snapshot(c.current), true
	}
	return c.current, false
}

// planFor plans from -> to. For rank charts a nil prevRanks keeps the From
// geometry as given and pins only the target slots.
func (c *Chart) planFor(prevRanks, nextRanks rank.Table, from, to *layout.Snapshot) *transition.Plan {
	opt := transition.WithEasing(c.easing)
	if c.isRank() && nextRanks != nil {
		return rank.PlanChange(prevRanks, nextRanks, from, to, opt)
	}
	return transition.Diff(from, to, opt)
}

// rankTable ranks ds by the rank channel when bound, otherwise by value.
func (c *Chart) rankTable(ds dataset.Dataset) (rank.Table, error) {
	if f, ok := c.spec.Field(dataset.ChannelRank); ok {
		return rank.FromField(ds, f)
	}
	f, ok := c.spec.Field(dataset.ChannelValue)
	if !ok {
		f, _ = c.spec.Field(dataset.ChannelY)
	}
	return rank.Compute(ds, f)
}

// Frame interpolates the running plan at fraction f and returns the scene to
// paint. Fractions are clamped into [0, 1]. Frame never reads a clock.
func (c *Chart) Frame(f float64) Scene {
	fr := transition.Advance(c.plan, f)
	c.fraction = fr.Fraction
	return c.scene(fr)
}

// Settle ends any running transition: the plan becomes a no-op that holds
// the current geometry.
func (c *Chart) Settle() {
	if c.current == nil {
		return
	}
	c.previous = c.current
	c.prevRanks = c.ranks
	c.plan = transition.Diff(c.current, c.current, transition.WithEasing(c.easing))
	c.fraction = 1
}

// contentHash fingerprints v. JSON is used when possible since it sorts map
// keys; values JSON cannot encode fall back to the Go syntax printer, which
// also sorts maps.
func contentHash(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte(fmt.Sprintf("%#v", v))
	}
	return cache.Hash(data)
}
