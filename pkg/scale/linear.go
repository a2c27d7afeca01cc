package scale

import "github.com/matzehuels/chartcore/pkg/errors"

// Linear is an affine map from [Min, Max] onto a pixel range.
type Linear struct {
	domain Domain
	rng    Range
}

// NewLinear builds a linear scale. It fails with DEGENERATE_DOMAIN when
// min == max.
func NewLinear(min, max float64, rng Range) (*Linear, error) {
	if err := checkFinite(min, max); err != nil {
		return nil, err
	}
	if min == max {
		return nil, errors.DegenerateDomain(min, max)
	}
	return &Linear{domain: Domain{Min: min, Max: max}, rng: rng}, nil
}

// NewLinearPadded is NewLinear with the [Pad] fallback applied first.
func NewLinearPadded(min, max, padding float64, rng Range) (*Linear, error) {
	d := Pad(Domain{Min: min, Max: max}, padding)
	return NewLinear(d.Min, d.Max, rng)
}

func (s *Linear) Kind() Kind     { return KindLinear }
func (s *Linear) Domain() Domain { return s.domain }
func (s *Linear) Range() Range   { return s.rng }

// Forward maps a domain value to a pixel position. Values outside the
// domain extrapolate.
func (s *Linear) Forward(v float64) float64 {
	w := s.rng.Width()
	if w == 0 {
		return s.rng.Start
	}
	return s.rng.Start + (v-s.domain.Min)/s.domain.Span()*w
}

// Inverse maps a pixel position back to a domain value.
func (s *Linear) Inverse(px float64) float64 {
	w := s.rng.Width()
	if w == 0 {
		return s.domain.Min
	}
	return s.domain.Min + (px-s.rng.Start)/w*s.domain.Span()
}
