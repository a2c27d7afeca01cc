// Package scale maps data values to pixel positions and back.
//
// # Overview
//
// A scale owns a domain (a numeric interval or an ordered category list) and
// a pixel [Range]. Every scale is immutable once built; Forward and Inverse
// are pure functions of their input.
//
// # Kinds
//
//   - [KindLinear]: affine map over [Domain.Min, Domain.Max]
//   - [KindTime]: linear over seconds since the Unix epoch
//   - [KindOrdinal]: equal-width bands over [Domain.Categories]
//   - [KindSqrt]: square-root map used for point radii so area tracks value
//
// Linear and Time scales refuse zero-width domains with a DEGENERATE_DOMAIN
// error. Callers that want a fallback apply [Pad] first, or use
// [NewLinearPadded]:
//
//	s, err := scale.NewLinearPadded(5, 5, 1, scale.Range{Start: 0, End: 100})
//	// domain is now [4, 6]
//
// Zero-width ranges are legal. Forward then returns Range.Start and Inverse
// returns the domain minimum, so a collapsed container never divides by zero.
package scale
