// Package pkg provides the core libraries for Chartcore, an engine that lays
// out data-driven charts and animates them between versions of their data.
//
// # Overview
//
// A chart binds dataset fields to visual channels, resolves scales for the
// current data and places one shape per record. When the data changes it
// diffs the old and new shapes by key into a transition plan, which a
// renderer samples frame by frame. Long rank charts are virtualized so only
// the rows inside the viewport are laid out.
//
// # Architecture
//
//	CSV / JSON records
//	         ↓
//	    [dataset] package (records, keys, field bindings)
//	         ↓
//	    [scale] + [layout] packages (domains, pixel geometry)
//	         ↓
//	    [transition] + [rank] packages (enter/update/exit plans)
//	         ↓
//	    [chart] package (stateful chart instances, scrolling)
//	         ↓
//	    [sink] package (SVG and JSON frames)
//
// # Quick Start
//
//	spec, _ := dataset.ParseChannels("id", "x=month:ordinal,y=revenue")
//	c, _ := chart.New(chart.Config{Type: chart.TypeBar}, spec)
//
//	c.Update(before, layout.Size{Width: 800, Height: 600})
//	c.Frame(1)
//	plan, _, _ := c.Update(after, layout.Size{Width: 800, Height: 600})
//
//	mid := c.Frame(0.5)
//	svg := sink.RenderSVG(mid, sink.WithLabels())
//
// # Main Packages
//
// [scale] - Linear, square-root, time and ordinal (band) scales.
//
// [scroll] - Virtualized scroll window arithmetic.
//
// [layout] - Bar, scatter, line and rank-bar geometry in a flat shape model.
//
// [transition] - Keyed diffs, easing and frame interpolation.
//
// [rank] - Rank tables and rank-aware transition plans.
//
// [chart] - Chart instances that keep state across updates.
//
// [pipeline] - Parse, layout and render stages shared by the CLI and the
// HTTP server, with caching of each stage.
//
// [cache], [session] and [observability] - Result caching (file, Redis),
// chart session storage (memory, file, Redis, MongoDB) and Prometheus hooks.
//
// # Testing
//
//	go test ./pkg/...     # All tests
//	go test -run Example  # Examples only
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/dataset
// [scale]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/scale
// [scroll]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/scroll
// [layout]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/layout
// [transition]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/transition
// [rank]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/rank
// [chart]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/chart
// [sink]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/chartcore/pkg/observability
package pkg
