// Package rank assigns records to ranked slots and animates reorders.
//
// A [Table] maps every key to a position 0..n-1, with 0 the top slot. Ties
// always break by key in ascending byte order, so identical inputs produce
// identical tables and identical plans.
package rank

import (
	"cmp"
	"slices"

	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/transition"
)

// TieBreakIdentity is the only supported tie-break policy: equal values
// order by identity key.
const TieBreakIdentity = "identity-order"

// Table maps identity keys to ranks.
type Table map[string]int

type ranked struct {
	key     string
	value   float64
	present bool
}

// Compute ranks ds by the value field, largest first. Records without the
// field rank after all others.
func Compute(ds dataset.Dataset, value dataset.Field) (Table, error) {
	rows, err := collect(ds, value)
	if err != nil {
		return nil, err
	}
	return build(rows, func(a, b ranked) int { return cmp.Compare(b.value, a.value) }), nil
}

// FromField normalises an explicit rank field into a permutation. Smaller
// field values rank first; gaps and duplicates are closed up.
func FromField(ds dataset.Dataset, rank dataset.Field) (Table, error) {
	rows, err := collect(ds, rank)
	if err != nil {
		return nil, err
	}
	return build(rows, func(a, b ranked) int { return cmp.Compare(a.value, b.value) }), nil
}

func collect(ds dataset.Dataset, f dataset.Field) ([]ranked, error) {
	rows := make([]ranked, len(ds))
	for i, rec := range ds {
		v, ok, err := rec.Value(f)
		if err != nil {
			return nil, err
		}
		rows[i] = ranked{key: rec.Key, value: v, present: ok}
	}
	return rows, nil
}

func build(rows []ranked, byValue func(a, b ranked) int) Table {
	slices.SortFunc(rows, func(a, b ranked) int {
		if a.present != b.present {
			if a.present {
				return -1
			}
			return 1
		}
		if a.present {
			if c := byValue(a, b); c != 0 {
				return c
			}
		}
		return cmp.Compare(a.key, b.key)
	})
	t := make(Table, len(rows))
	for i, r := range rows {
		t[r.key] = i
	}
	return t
}

// Validate checks that the ranks are exactly a permutation of 0..len-1.
func (t Table) Validate() error {
	seen := make([]bool, len(t))
	for k, r := range t {
		if r < 0 || r >= len(t) {
			return errors.New(errors.ErrCodeInvalidInput, "rank %d of %q out of range [0, %d)", r, k, len(t)).WithKey(k)
		}
		if seen[r] {
			return errors.New(errors.ErrCodeInvalidInput, "rank %d assigned twice", r).WithKey(k)
		}
		seen[r] = true
	}
	return nil
}

// Order returns the keys from rank 0 downward.
func (t Table) Order() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(t[a], t[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return keys
}

// Moved returns, in key order, the keys present in both tables whose rank
// differs.
func (t Table) Moved(next Table) []string {
	var out []string
	for k, r := range t {
		if nr, ok := next[k]; ok && nr != r {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}

// PlanChange plans a rank transition. It starts from [transition.Diff] and,
// for every update whose key is ranked in both tables, pins the positional
// field of From to its slot in prevTable and of To to its slot in nextTable.
// A pure reorder with unchanged values therefore still moves. With a nil
// prevTable From is left as given, which is what a retarget from
// interpolated geometry needs.
//
// Horizontal shapes are positioned along y, vertical ones along x. Slot
// geometry comes from each snapshot's Band and Inset.
func PlanChange(prevTable, nextTable Table, prev, next *layout.Snapshot, opts ...transition.Option) *transition.Plan {
	plan := transition.Diff(prev, next, opts...)
	for i, e := range plan.Entries {
		if e.Kind != transition.Update {
			continue
		}
		nr, okNext := nextTable[e.Key]
		if !okNext {
			continue
		}
		if prevTable != nil {
			pr, okPrev := prevTable[e.Key]
			if !okPrev {
				continue
			}
			from := pin(*e.From, pr, prev)
			plan.Entries[i].From = &from
		}
		to := pin(*e.To, nr, next)
		plan.Entries[i].To = &to
	}
	return plan
}

func pin(s layout.Shape, r int, snap *layout.Snapshot) layout.Shape {
	pos := layout.SlotPosition(r, snap.Band, snap.Inset)
	if s.Horizontal {
		s.Y = pos
	} else {
		s.X = pos
	}
	s.Order = r
	return s
}
