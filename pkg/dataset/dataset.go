package dataset

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// Dataset is an ordered sequence of records. Order matters for line paths
// and scroll windows; bar and scatter layouts ignore it except as a
// category fallback.
type Dataset []Record

// Keys returns the record keys in dataset order.
func (ds Dataset) Keys() []string {
	keys := make([]string, len(ds))
	for i, r := range ds {
		keys[i] = r.Key
	}
	return keys
}

// Index returns a key to position map.
func (ds Dataset) Index() map[string]int {
	idx := make(map[string]int, len(ds))
	for i, r := range ds {
		idx[r.Key] = i
	}
	return idx
}

// Validate checks that every key is well formed and unique.
func (ds Dataset) Validate() error {
	seen := make(map[string]struct{}, len(ds))
	for i, r := range ds {
		if err := errors.ValidateKey(r.Key); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "record %d", i)
		}
		if _, dup := seen[r.Key]; dup {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate record key %q", r.Key).WithKey(r.Key)
		}
		seen[r.Key] = struct{}{}
	}
	return nil
}

// Extent returns the min and max over the records that carry f. The boolean
// is false when no record does.
func (ds Dataset) Extent(f Field) (scale.Domain, bool, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	found := false
	for _, r := range ds {
		v, ok, err := r.Value(f)
		if err != nil {
			return scale.Domain{}, false, err
		}
		if !ok {
			continue
		}
		found = true
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if !found {
		return scale.Domain{}, false, nil
	}
	return scale.Domain{Min: lo, Max: hi}, true, nil
}

// Categories returns the distinct string values of f in order of first
// appearance. Records missing f are skipped.
func (ds Dataset) Categories(f Field) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range ds {
		s, ok := r.String(f.Name)
		if !ok {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
