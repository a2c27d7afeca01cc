// Package transition diffs two layout snapshots into an animation plan and
// interpolates it.
//
// # Planning
//
// [Diff] classifies every key in the union of two snapshots:
//
//   - enter: key only in the next snapshot; animates from a birth shape
//   - update: key in both; animates from the old shape to the new one
//   - exit: key only in the previous snapshot; animates toward a death shape
//
// Planning never fails. A nil snapshot is treated as empty, so the first
// render of a chart is a plan made only of enters.
//
// # Advancing
//
// [Advance] is a pure function of the plan and an elapsed fraction in
// [0, 1]. It never reads a clock; the caller owns timing and may skip or
// repeat fractions freely:
//
//	plan := transition.Diff(prev, next)
//	for _, f := range []float64{0, 0.25, 0.5, 1} {
//	    frame := transition.Advance(plan, f)
//	    paint(frame.Live())
//	}
//
// Numeric shape fields interpolate as a*(1-e) + b*e where e is the eased
// fraction, so fraction 0 reproduces the start shape and 1 reproduces the
// end shape exactly. Discrete fields (kind, orientation, segment, order)
// switch to the end value once e reaches one half.
package transition
