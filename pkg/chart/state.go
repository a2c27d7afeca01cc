package chart

import (
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/rank"
)

// State is the persistable part of a chart: configuration plus the two
// retained snapshots. Scales are not stored; they are rebuilt on the next
// update.
type State struct {
	Config    Config            `json:"config" bson:"config"`
	Spec      dataset.FieldSpec `json:"spec" bson:"spec"`
	Version   uint64            `json:"version" bson:"version"`
	Hash      string            `json:"hash,omitempty" bson:"hash,omitempty"`
	ScalesKey string            `json:"scales_key,omitempty" bson:"scales_key,omitempty"`
	Current   *layout.Snapshot  `json:"current,omitempty" bson:"current,omitempty"`
	Previous  *layout.Snapshot  `json:"previous,omitempty" bson:"previous,omitempty"`
	Ranks     rank.Table        `json:"ranks,omitempty" bson:"ranks,omitempty"`
	PrevRanks rank.Table        `json:"prev_ranks,omitempty" bson:"prev_ranks,omitempty"`
	Fraction  float64           `json:"fraction" bson:"fraction"`
}

// State exports the chart. The snapshots are copies.
func (c *Chart) State() State {
	return State{
		Config:    c.cfg,
		Spec:      c.spec,
		Version:   c.version,
		Hash:      c.hash,
		ScalesKey: c.scalesKey,
		Current:   c.current.Clone(),
		Previous:  c.previous.Clone(),
		Ranks:     c.ranks,
		PrevRanks: c.prevRanks,
		Fraction:  c.fraction,
	}
}

// Restore rebuilds a chart from an exported state and replans the
// transition between its two snapshots.
func Restore(st State) (*Chart, error) {
	c, err := New(st.Config, st.Spec)
	if err != nil {
		return nil, err
	}
	c.version = st.Version
	c.hash = st.Hash
	c.current = st.Current.Clone()
	c.previous = st.Previous.Clone()
	c.ranks = st.Ranks
	c.prevRanks = st.PrevRanks
	c.fraction = st.Fraction
	if c.current != nil {
		c.plan = c.planFor(c.prevRanks, c.ranks, c.previous, c.current)
	}
	return c, nil
}
