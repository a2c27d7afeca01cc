// Package sink writes chart scenes to output formats.
//
// A sink takes one or more [chart.Scene] values, the per-frame output of a
// chart, and serialises them. Two formats are provided:
//
//   - JSON: a frame sequence for external renderers and the HTTP API
//   - SVG: a static picture of a single frame
//
// Both take functional options:
//
//	data, err := sink.RenderJSON(frames, sink.WithJSONConfig(cfg))
//	svg := sink.RenderSVG(scene, sink.WithPalette(sink.DefaultPalette), sink.WithLabels())
//
// Sinks never modify the scenes they are given and are safe for concurrent
// use.
//
// [chart.Scene]: github.com/matzehuels/chartcore/pkg/chart.Scene
package sink
