package scale

import (
	"math"
	"time"
)

// Time is a linear scale whose domain is expressed in seconds since the Unix
// epoch. Forward and Inverse work in seconds; ForwardTime and InverseTime
// accept and return time.Time values.
type Time struct {
	lin *Linear
}

// NewTime builds a time scale over [min, max].
func NewTime(min, max time.Time, rng Range) (*Time, error) {
	return newTimeSeconds(Seconds(min), Seconds(max), rng)
}

func newTimeSeconds(min, max float64, rng Range) (*Time, error) {
	lin, err := NewLinear(min, max, rng)
	if err != nil {
		return nil, err
	}
	return &Time{lin: lin}, nil
}

func (s *Time) Kind() Kind     { return KindTime }
func (s *Time) Domain() Domain { return s.lin.Domain() }
func (s *Time) Range() Range   { return s.lin.Range() }

func (s *Time) Forward(sec float64) float64 { return s.lin.Forward(sec) }
func (s *Time) Inverse(px float64) float64  { return s.lin.Inverse(px) }

// ForwardTime maps an instant to a pixel position.
func (s *Time) ForwardTime(t time.Time) float64 { return s.lin.Forward(Seconds(t)) }

// InverseTime maps a pixel position back to an instant in UTC.
func (s *Time) InverseTime(px float64) time.Time { return FromSeconds(s.lin.Inverse(px)) }

// Seconds converts t to fractional seconds since the Unix epoch.
func Seconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// FromSeconds is the inverse of [Seconds].
func FromSeconds(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}
