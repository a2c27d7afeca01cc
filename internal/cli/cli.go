package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/buildinfo"
	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "chartcore"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Chartcore lays out and animates data-driven charts",
		Long:         `Chartcore lays out bar, scatter, line and rank-bar charts from CSV or JSON data, plans the animated transition between two versions of the data, and renders the frames as SVG or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.planCommand())
	root.AddCommand(c.animateCommand())
	root.AddCommand(c.windowCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/chartcore/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// basePath derives the base output path from the output and input paths.
// A known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		if input == "" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// chartFlags are the layout flags shared by render, plan and animate.
type chartFlags struct {
	config   string
	previous string
	key      string
	channels string

	chartType   string
	scaleKind   string
	easing      string
	padding     float64
	gapRatio    float64
	radius      string
	topN        int
	itemExtent  float64
	overscan    int
	valueDomain []float64

	width  float64
	height float64
}

func (f *chartFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.config, "config", "c", "", "options file (.toml, .yaml or .json)")
	fl.StringVarP(&f.previous, "previous", "p", "", "previous dataset to animate from")
	fl.StringVar(&f.key, "key", "", "identity field (default id)")
	fl.StringVar(&f.channels, "channels", "", "channel bindings, e.g. x=month:ordinal,y=revenue")
	fl.StringVarP(&f.chartType, "type", "t", string(chart.TypeBar), "chart type: bar, scatter, line, rankbar")
	fl.StringVar(&f.scaleKind, "scale", "", "value scale: linear (default), sqrt")
	fl.StringVar(&f.easing, "easing", "", "transition easing (default cubic-in-out)")
	fl.Float64Var(&f.padding, "padding", 0, "scale padding")
	fl.Float64Var(&f.gapRatio, "gap", 0, "bar gap ratio in [0, 1)")
	fl.StringVar(&f.radius, "radius", "", "radius channel field (scatter)")
	fl.IntVar(&f.topN, "top", 0, "show only the top N ranks (rankbar)")
	fl.Float64Var(&f.itemExtent, "item-extent", chart.DefaultItemExtent, "pixels per item when scrolling")
	fl.IntVar(&f.overscan, "overscan", chart.DefaultOverscan, "extra items rendered beyond the viewport")
	fl.Float64SliceVar(&f.valueDomain, "domain", nil, "fixed value domain as min,max")
	fl.Float64Var(&f.width, "width", pipeline.DefaultWidth, "container width")
	fl.Float64Var(&f.height, "height", pipeline.DefaultHeight, "container height")
}

// options builds pipeline options from the flags. With --config the file is
// the base and only flags given explicitly override it.
func (f *chartFlags) options(cmd *cobra.Command, args []string) (pipeline.Options, error) {
	var opts pipeline.Options
	fromFile := f.config != ""
	if fromFile {
		loaded, err := pipeline.LoadOptions(f.config)
		if err != nil {
			return opts, err
		}
		opts = loaded
	}
	set := func(name string) bool { return !fromFile || cmd.Flags().Changed(name) }

	if len(args) > 0 {
		opts.Data = args[0]
	}
	if f.previous != "" {
		opts.Previous = f.previous
	}
	if set("key") && f.key != "" {
		opts.KeyField = f.key
	}
	if set("channels") && f.channels != "" {
		opts.Channels = f.channels
		opts.Spec = dataset.FieldSpec{}
	}
	if set("type") {
		t, err := chart.ParseType(f.chartType)
		if err != nil {
			return opts, err
		}
		opts.Chart.Type = t
	}
	if set("scale") && f.scaleKind != "" {
		opts.Chart.ScaleKind = scale.Kind(f.scaleKind)
	}
	if set("easing") && f.easing != "" {
		opts.Chart.Easing = f.easing
	}
	if set("padding") && f.padding != 0 {
		opts.Chart.Padding = f.padding
	}
	if set("gap") && f.gapRatio != 0 {
		opts.Chart.GapRatio = f.gapRatio
	}
	if set("radius") && f.radius != "" {
		opts.Chart.RadiusChannel = f.radius
	}
	if set("top") {
		opts.Chart.TopN = f.topN
	}
	if set("item-extent") {
		opts.Chart.ItemExtent = f.itemExtent
	}
	if set("overscan") {
		opts.Chart.Overscan = f.overscan
	}
	if set("domain") && len(f.valueDomain) > 0 {
		opts.Chart.ValueDomain = f.valueDomain
	}
	if set("width") {
		opts.Width = f.width
	}
	if set("height") {
		opts.Height = f.height
	}
	return opts, nil
}

