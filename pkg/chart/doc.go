// Package chart binds datasets to the layout and transition engines.
//
// # Overview
//
// A [Chart] is one chart instance. Each call to [Chart.Update] with a new
// dataset or container size lays the data out, diffs the result against the
// previous geometry and returns a transition plan. [Chart.Frame] then turns
// that plan into a [Scene] for any elapsed fraction:
//
//	c, _ := chart.New(chart.Config{Type: chart.TypeBar}, spec)
//	c.Update(ds, layout.Size{Width: 640, Height: 480})
//	for f := 0.0; f <= 1; f += 0.1 {
//	    paint(c.Frame(f))
//	}
//
// Update is memoized on a content hash of its inputs: calling it again with
// identical data, spec, config and size does nothing and reports no change.
// Scales are reused when their fingerprint is unchanged.
//
// Only two snapshots are retained: the current one and the one the running
// plan animates from. [Chart.State] and [Restore] export and import exactly
// that, so a chart can live across stateless requests.
//
// # Chart Types
//
//   - [TypeBar]: vertical bars over categories or record keys
//   - [TypeScatter]: points, optional radius channel
//   - [TypeLine]: a path in dataset order, broken at gaps
//   - [TypeRankBar]: horizontal bars whose order follows a rank table;
//     reorders animate as position swaps
//
// # Scrolling
//
// [Scroll] wraps any chart and feeds it only the window of records a
// viewport can show. Rank bars scroll vertically, other charts
// horizontally.
//
// A Chart is not safe for concurrent use. Independent charts share nothing
// and may be driven from different goroutines.
package chart
