package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/observability"
	"github.com/matzehuels/chartcore/pkg/sink"
)

// Scenes samples the chart's running transition at opts.FrameFractions.
func Scenes(c *chart.Chart, s *chart.Scroll, opts Options) []chart.Scene {
	fractions := opts.FrameFractions()
	scenes := make([]chart.Scene, len(fractions))
	for i, f := range fractions {
		if s != nil {
			scenes[i] = s.Frame(f)
		} else {
			scenes[i] = c.Frame(f)
		}
	}
	return scenes
}

// Render writes scenes in every requested format. SVG shows the last
// scene; JSON carries all of them.
func Render(scenes []chart.Scene, c *chart.Chart, s *chart.Scroll, opts Options) (map[string][]byte, error) {
	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatJSON:
			jsonOpts := []sink.JSONOption{sink.WithJSONConfig(c.Config())}
			if s != nil {
				jsonOpts = append(jsonOpts, sink.WithJSONWindow(s.Window()))
			}
			data, err := sink.RenderJSON(scenes, jsonOpts...)
			if err != nil {
				return nil, err
			}
			out[format] = data
		case FormatSVG:
			if len(scenes) == 0 {
				continue
			}
			out[format] = sink.RenderSVG(scenes[len(scenes)-1], svgOptions(opts, s != nil)...)
		}
	}
	return out, nil
}

func svgOptions(opts Options, scrolled bool) []sink.SVGOption {
	var svgOpts []sink.SVGOption
	if len(opts.Palette) > 0 {
		svgOpts = append(svgOpts, sink.WithPalette(opts.Palette))
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	if opts.Labels {
		svgOpts = append(svgOpts, sink.WithLabels())
	}
	if scrolled {
		svgOpts = append(svgOpts, sink.WithViewport(opts.Width, opts.Height))
	}
	return svgOpts
}

// RenderWithCacheInfo renders the chart's frames, serving artifacts from
// the cache when every requested format is present.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, c *chart.Chart, s *chart.Scroll, opts Options) ([]chart.Scene, map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, nil, false, err
	}
	scenes := Scenes(c, s, opts)

	geometry, err := cache.HashJSON(scenes)
	if err != nil {
		return nil, nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, ok, err := r.Cache.Get(ctx, r.Keyer.SceneKey(geometry, opts.SceneKeyOpts(format)))
		if err != nil || !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "scene")
		return scenes, artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "scene")

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(scenes, c, s, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, nil, false, err
	}

	for format, data := range rendered {
		if err := r.Cache.Set(ctx, r.Keyer.SceneKey(geometry, opts.SceneKeyOpts(format)), data, cache.TTLScene); err == nil {
			observability.Cache().OnCacheSet(ctx, "scene", len(data))
		}
	}
	return scenes, rendered, false, nil
}
