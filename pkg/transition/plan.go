package transition

import (
	"cmp"
	"slices"

	"github.com/matzehuels/chartcore/pkg/layout"
)

// Kind classifies a plan entry.
type Kind string

const (
	Enter  Kind = "enter"
	Update Kind = "update"
	Exit   Kind = "exit"
)

// Entry animates one key. From is nil for enters and To is nil for exits.
type Entry struct {
	Key  string        `json:"key"`
	From *layout.Shape `json:"from"`
	To   *layout.Shape `json:"to"`
	Kind Kind          `json:"kind"`
}

// Plan is the full set of entries between two snapshots, sorted by key.
type Plan struct {
	FromVersion uint64  `json:"from_version"`
	ToVersion   uint64  `json:"to_version"`
	Entries     []Entry `json:"entries"`

	easing Easing
	birth  ShapeFunc
	death  ShapeFunc
}

// Option configures a plan.
type Option func(*Plan)

// WithEasing sets the easing applied to the elapsed fraction.
func WithEasing(e Easing) Option {
	return func(p *Plan) {
		if e != nil {
			p.easing = e
		}
	}
}

// WithBirth sets the shape enters animate from.
func WithBirth(f ShapeFunc) Option {
	return func(p *Plan) {
		if f != nil {
			p.birth = f
		}
	}
}

// WithDeath sets the shape exits animate toward.
func WithDeath(f ShapeFunc) Option {
	return func(p *Plan) {
		if f != nil {
			p.death = f
		}
	}
}

// Diff plans the transition from prev to next. Every key of either snapshot
// appears in exactly one entry.
func Diff(prev, next *layout.Snapshot, opts ...Option) *Plan {
	p := &Plan{
		easing: EaseInOutCubic,
		birth:  DefaultBirth,
		death:  DefaultDeath,
	}
	for _, opt := range opts {
		opt(p)
	}
	if prev != nil {
		p.FromVersion = prev.Version
	}
	if next != nil {
		p.ToVersion = next.Version
	}

	p.Entries = make([]Entry, 0, prev.Len()+next.Len())
	if prev != nil {
		for key, from := range prev.Shapes {
			e := Entry{Key: key, From: &from, Kind: Exit}
			if to, ok := next.Get(key); ok {
				e.To = &to
				e.Kind = Update
			}
			p.Entries = append(p.Entries, e)
		}
	}
	if next != nil {
		for key, to := range next.Shapes {
			if _, ok := prev.Get(key); ok {
				continue
			}
			p.Entries = append(p.Entries, Entry{Key: key, To: &to, Kind: Enter})
		}
	}
	slices.SortFunc(p.Entries, func(a, b Entry) int { return cmp.Compare(a.Key, b.Key) })
	return p
}

// Len returns the number of entries.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Entries)
}

// Entry returns the entry for key.
func (p *Plan) Entry(key string) (Entry, bool) {
	if p == nil {
		return Entry{}, false
	}
	i, ok := slices.BinarySearchFunc(p.Entries, key, func(e Entry, k string) int { return cmp.Compare(e.Key, k) })
	if !ok {
		return Entry{}, false
	}
	return p.Entries[i], true
}

// Counts returns the number of enter, update and exit entries.
func (p *Plan) Counts() (enter, update, exit int) {
	if p == nil {
		return
	}
	for _, e := range p.Entries {
		switch e.Kind {
		case Enter:
			enter++
		case Update:
			update++
		case Exit:
			exit++
		}
	}
	return
}

// Endpoints returns the start and end shapes of e under this plan's birth
// and death functions.
func (p *Plan) Endpoints(e Entry) (from, to layout.Shape) {
	switch e.Kind {
	case Enter:
		return p.birthFunc()(*e.To), *e.To
	case Exit:
		return *e.From, p.deathFunc()(*e.From)
	}
	return *e.From, *e.To
}

func (p *Plan) birthFunc() ShapeFunc {
	if p.birth == nil {
		return DefaultBirth
	}
	return p.birth
}

func (p *Plan) deathFunc() ShapeFunc {
	if p.death == nil {
		return DefaultDeath
	}
	return p.death
}

func (p *Plan) easingFunc() Easing {
	if p.easing == nil {
		return EaseInOutCubic
	}
	return p.easing
}
