package scale

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/chartcore/pkg/errors"
)

// Kind identifies a scale family.
type Kind string

const (
	KindLinear  Kind = "linear"
	KindOrdinal Kind = "ordinal"
	KindTime    Kind = "time"
	KindSqrt    Kind = "sqrt"
)

// DefaultPadding is the fallback expansion applied to degenerate domains.
const DefaultPadding = 1.0

// ParseKind converts a configuration string into a Kind. The empty string
// selects [KindLinear]; "categorical" is accepted as an alias for ordinal.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "linear":
		return KindLinear, nil
	case "ordinal", "categorical", "band":
		return KindOrdinal, nil
	case "time":
		return KindTime, nil
	case "sqrt":
		return KindSqrt, nil
	}
	return "", errors.New(errors.ErrCodeInvalidScale, "unknown scale kind %q (must be linear, ordinal or time)", s)
}

// Range is a pixel interval. End may be smaller than Start for inverted axes.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Width returns the signed extent of the range.
func (r Range) Width() float64 { return r.End - r.Start }

// Domain describes the input side of a scale. Continuous scales read Min and
// Max; ordinal scales read Categories.
type Domain struct {
	Min        float64  `json:"min"`
	Max        float64  `json:"max"`
	Categories []string `json:"categories,omitempty"`
}

// Span returns Max - Min.
func (d Domain) Span() float64 { return d.Max - d.Min }

// Contains reports whether v lies between Min and Max inclusive.
func (d Domain) Contains(v float64) bool {
	lo, hi := d.Min, d.Max
	if lo > hi {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

// Degenerate reports whether the continuous domain has zero width.
func (d Domain) Degenerate() bool { return d.Min == d.Max }

// Pad returns d widened by ±padding when it is degenerate. Non-positive
// padding selects [DefaultPadding]. Non-degenerate domains are returned
// unchanged.
func Pad(d Domain, padding float64) Domain {
	if !d.Degenerate() {
		return d
	}
	if padding <= 0 || math.IsNaN(padding) {
		padding = DefaultPadding
	}
	d.Min -= padding
	d.Max += padding
	return d
}

// Scale is the behaviour shared by every scale kind.
type Scale interface {
	Kind() Kind
	Domain() Domain
	Range() Range
}

// Continuous is a numeric scale with a bidirectional mapping.
type Continuous interface {
	Scale
	Forward(v float64) float64
	Inverse(px float64) float64
}

// New builds a scale of the given kind. Ordinal kinds read
// domain.Categories, all others read Min and Max.
func New(kind Kind, domain Domain, rng Range) (Scale, error) {
	switch kind {
	case KindLinear, "":
		return NewLinear(domain.Min, domain.Max, rng)
	case KindTime:
		return newTimeSeconds(domain.Min, domain.Max, rng)
	case KindSqrt:
		return NewSqrt(domain.Min, domain.Max, rng)
	case KindOrdinal:
		return NewBand(domain.Categories, rng)
	}
	return nil, errors.New(errors.ErrCodeInvalidScale, "unknown scale kind %q", kind)
}

// Describe returns a stable textual fingerprint of s, used as a cache key.
func Describe(s Scale) string {
	if s == nil {
		return "-"
	}
	d, r := s.Domain(), s.Range()
	if s.Kind() == KindOrdinal {
		return fmt.Sprintf("%s[%s]->[%g,%g]", s.Kind(), strings.Join(d.Categories, "\x1f"), r.Start, r.End)
	}
	return fmt.Sprintf("%s[%g,%g]->[%g,%g]", s.Kind(), d.Min, d.Max, r.Start, r.End)
}

func checkFinite(min, max float64) error {
	for _, v := range []float64{min, max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidScale, "domain bounds must be finite, got [%g, %g]", min, max)
		}
	}
	return nil
}
