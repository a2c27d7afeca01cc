package scale

import "math"

// Sqrt maps v to Start + sqrt((v-Min)/(Max-Min)) * (End-Start), so the area
// of a circle drawn with the resulting radius is proportional to v.
//
// Unlike [Linear], a degenerate domain is accepted: every value maps to the
// range midpoint.
type Sqrt struct {
	domain Domain
	rng    Range
}

// NewSqrt builds a square-root scale.
func NewSqrt(min, max float64, rng Range) (*Sqrt, error) {
	if err := checkFinite(min, max); err != nil {
		return nil, err
	}
	return &Sqrt{domain: Domain{Min: min, Max: max}, rng: rng}, nil
}

func (s *Sqrt) Kind() Kind     { return KindSqrt }
func (s *Sqrt) Domain() Domain { return s.domain }
func (s *Sqrt) Range() Range   { return s.rng }

func (s *Sqrt) Forward(v float64) float64 {
	span := s.domain.Span()
	if span == 0 {
		return s.rng.Start + s.rng.Width()/2
	}
	t := (v - s.domain.Min) / span
	if t < 0 {
		t = 0
	}
	return s.rng.Start + math.Sqrt(t)*s.rng.Width()
}

func (s *Sqrt) Inverse(px float64) float64 {
	w := s.rng.Width()
	if w == 0 {
		return s.domain.Min
	}
	t := (px - s.rng.Start) / w
	if t < 0 {
		t = 0
	}
	return s.domain.Min + t*t*s.domain.Span()
}
