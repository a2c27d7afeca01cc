package scale

import (
	"math"

	"github.com/matzehuels/chartcore/pkg/errors"
)

// Band is an ordinal scale: each category owns an equal-width slice of the
// range, in declaration order.
type Band struct {
	categories []string
	index      map[string]int
	rng        Range
}

// NewBand builds a band scale. Duplicate categories are rejected; an empty
// category list is legal and yields a scale with zero bandwidth.
func NewBand(categories []string, rng Range) (*Band, error) {
	idx := make(map[string]int, len(categories))
	for i, c := range categories {
		if _, dup := idx[c]; dup {
			return nil, errors.New(errors.ErrCodeInvalidScale, "duplicate category %q", c)
		}
		idx[c] = i
	}
	return &Band{
		categories: append([]string(nil), categories...),
		index:      idx,
		rng:        rng,
	}, nil
}

func (s *Band) Kind() Kind   { return KindOrdinal }
func (s *Band) Range() Range { return s.rng }

func (s *Band) Domain() Domain {
	return Domain{Categories: append([]string(nil), s.categories...)}
}

// Len returns the number of categories.
func (s *Band) Len() int { return len(s.categories) }

// Bandwidth returns the signed width of a single band.
func (s *Band) Bandwidth() float64 {
	if len(s.categories) == 0 {
		return 0
	}
	return s.rng.Width() / float64(len(s.categories))
}

// Index returns the position of cat in the domain.
func (s *Band) Index(cat string) (int, bool) {
	i, ok := s.index[cat]
	return i, ok
}

// Forward returns the start of cat's band.
func (s *Band) Forward(cat string) (float64, error) {
	i, ok := s.index[cat]
	if !ok {
		return 0, errors.UnknownCategory(cat)
	}
	return s.rng.Start + float64(i)*s.Bandwidth(), nil
}

// Center returns the midpoint of cat's band.
func (s *Band) Center(cat string) (float64, error) {
	start, err := s.Forward(cat)
	if err != nil {
		return 0, err
	}
	return start + s.Bandwidth()/2, nil
}

// Inverse returns the category whose band contains px. Positions outside
// the range clamp to the first or last category. An empty scale returns "".
func (s *Band) Inverse(px float64) string {
	n := len(s.categories)
	if n == 0 {
		return ""
	}
	bw := s.Bandwidth()
	if bw == 0 {
		return s.categories[0]
	}
	i := int(math.Floor((px - s.rng.Start) / bw))
	i = max(0, min(n-1, i))
	return s.categories[i]
}
