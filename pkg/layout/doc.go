// Package layout turns a dataset and a container size into per-record
// geometry.
//
// # Overview
//
// Layout is a pure function of its [Input]. [ResolveScales] derives the
// scales from data extents and the container, and [ComputeGeometry] places
// one [Shape] per record into a [Snapshot]. [Compute] runs both.
//
// Coordinates are screen coordinates: the origin is the top-left corner of
// the container and y grows downward.
//
// # Chart Kinds
//
//   - [KindBar]: vertical rectangles, one band per category
//   - [KindScatter]: points, optionally sized by a radius channel
//   - [KindLine]: path vertices in dataset order, broken at missing points
//   - [KindRankBar]: horizontal rectangles positioned by rank
//
// # Missing Fields
//
// A record that lacks a required field fails the whole layout with a
// MISSING_FIELD error naming the key and field. Fields marked Optional in
// the field spec instead cause the record to be skipped. Line charts never
// fail on a missing x or y: the path breaks and the next vertex starts a new
// segment.
package layout
