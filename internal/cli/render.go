package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/pipeline"
)

// renderFlags are the flags of the render command beyond the chart flags.
type renderFlags struct {
	chartFlags

	output     string
	formats    string
	frames     int
	fraction   float64
	labels     bool
	background string
	palette    []string
	scroll     bool
	offset     float64
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [data.csv|data.json]",
		Short: "Lay out a dataset and write SVG or JSON frames",
		Long: `Lay out a dataset and write SVG or JSON frames.

With --previous the chart is first laid out for the previous dataset, so the
output shows the transition to the new one. --frames samples that
transition evenly; --fraction renders a single point of it.

Results are cached locally; --refresh recomputes them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, args)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, f.output, f.noCache)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), json (comma-separated)")
	fl.IntVar(&f.frames, "frames", pipeline.DefaultFrames, "number of evenly spaced frames to sample")
	fl.Float64Var(&f.fraction, "fraction", 1, "transition fraction of a single frame")
	fl.BoolVar(&f.labels, "labels", false, "draw item keys")
	fl.StringVar(&f.background, "background", "", "SVG background color")
	fl.StringSliceVar(&f.palette, "palette", nil, "SVG palette (comma-separated colors)")
	fl.BoolVar(&f.scroll, "scroll", false, "virtualize the chart to the viewport")
	fl.Float64Var(&f.offset, "scroll-offset", 0, "scroll position in pixels")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	f.register(cmd)
	registerChartCompletions(cmd)

	return cmd
}

// options extends the chart options with the render flags.
func (f *renderFlags) options(cmd *cobra.Command, args []string) (pipeline.Options, error) {
	opts, err := f.chartFlags.options(cmd, args)
	if err != nil {
		return opts, err
	}
	set := func(name string) bool { return f.config == "" || cmd.Flags().Changed(name) }

	if (set("format") && f.formats != "") || len(opts.Formats) == 0 {
		opts.Formats = parseFormats(f.formats)
	}
	if set("frames") {
		opts.Frames = f.frames
	}
	if cmd.Flags().Changed("fraction") {
		fr := f.fraction
		opts.Fraction = &fr
	}
	if set("labels") && f.labels {
		opts.Labels = true
	}
	if set("background") && f.background != "" {
		opts.Background = f.background
	}
	if set("palette") && len(f.palette) > 0 {
		opts.Palette = f.palette
	}
	if set("scroll") && f.scroll {
		opts.Scroll = true
	}
	if set("scroll-offset") && f.offset != 0 {
		opts.ScrollOffset = f.offset
	}
	opts.Refresh = f.refresh
	return opts, nil
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Rendering chart...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	printSuccess("Rendered %s chart", result.Chart.Config().Type)
	printStats(result.Stats, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	if opts.Frames > 1 && !slices.Contains(opts.Formats, pipeline.FormatJSON) {
		printWarning("SVG shows the last of %d frames; add --format json for all of them", opts.Frames)
	}

	if err := writeArtifacts(result.Artifacts, opts.Formats, opts.Data, output); err != nil {
		return err
	}
	if opts.Previous != "" && opts.Data != "" {
		printNextStep("Play the transition", fmt.Sprintf("%s animate %s --previous %s", appName, opts.Data, opts.Previous))
	}
	return nil
}

// writeArtifacts writes each rendered format. A single format goes to
// output as given; several share output as a base path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) error {
	base := basePath(output, input)
	for _, format := range slices.Compact(slices.Clone(formats)) {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if len(formats) == 1 && output != "" {
			path = output
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}
