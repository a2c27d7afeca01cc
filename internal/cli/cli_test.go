package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "json", []string{"json"}},
		{"multiple formats", "svg,json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"no output no input", "", "", appName},
		{"derived from input", "", "data/sales.csv", "data/sales"},
		{"format extension stripped", "out/chart.svg", "sales.csv", "out/chart"},
		{"unknown extension kept", "out/chart.v2", "sales.csv", "out/chart.v2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()

	want := []string{"render", "plan", "animate", "window", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

// parseChartFlags registers chart flags on a throwaway command and parses
// args into them.
func parseChartFlags(t *testing.T, args ...string) (*chartFlags, *cobra.Command) {
	t.Helper()
	var f chartFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v) error: %v", args, err)
	}
	return &f, cmd
}

func TestChartFlagsOptions(t *testing.T) {
	f, cmd := parseChartFlags(t, "--type", "rankbar", "--channels", "rank=pos", "--top", "5", "--width", "320")

	opts, err := f.options(cmd, []string{"data.csv"})
	if err != nil {
		t.Fatalf("options() error: %v", err)
	}
	if opts.Data != "data.csv" {
		t.Errorf("Data = %q, want data.csv", opts.Data)
	}
	if opts.Chart.Type != chart.TypeRankBar || opts.Chart.TopN != 5 {
		t.Errorf("Chart = %+v", opts.Chart)
	}
	if opts.Channels != "rank=pos" || opts.Width != 320 {
		t.Errorf("opts = %+v", opts)
	}
	if opts.Chart.Overscan != chart.DefaultOverscan {
		t.Errorf("Overscan = %d, want %d", opts.Chart.Overscan, chart.DefaultOverscan)
	}
}

func TestChartFlagsInvalidType(t *testing.T) {
	f, cmd := parseChartFlags(t, "--type", "pie")
	if _, err := f.options(cmd, nil); err == nil {
		t.Error("options() with unknown chart type should fail")
	}
}

func TestChartFlagsConfigOverride(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "chart.toml")
	content := `data = "sales.csv"
channels = "y=revenue"
width = 640

[chart]
type = "line"
padding = 0.2
`
	if err := os.WriteFile(config, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	f, cmd := parseChartFlags(t, "--config", config, "--width", "480")
	opts, err := f.options(cmd, nil)
	if err != nil {
		t.Fatalf("options() error: %v", err)
	}

	if opts.Chart.Type != chart.TypeLine {
		t.Errorf("Type = %q, want line from the config file", opts.Chart.Type)
	}
	if opts.Chart.Padding != 0.2 {
		t.Errorf("Padding = %v, want 0.2", opts.Chart.Padding)
	}
	if opts.Width != 480 {
		t.Errorf("Width = %v, want the explicit flag 480", opts.Width)
	}
	if opts.Height != 0 {
		t.Errorf("Height = %v, unchanged flags should not override the file", opts.Height)
	}
	if opts.Data != filepath.Join(dir, "sales.csv") {
		t.Errorf("Data = %q, want it resolved against the config dir", opts.Data)
	}
}

func TestWindowCommand(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"window", "--length", "50", "--item-extent", "10", "--viewport", "50", "--offset", "200", "--overscan", "1"})

	if err := root.Execute(); err != nil {
		t.Fatalf("window error: %v", err)
	}
	got := out.String()
	for _, want := range []string{"offset", "19", "size", "7", "19..25"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestWindowCommandInvalidViewport(t *testing.T) {
	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"window", "--length", "10", "--viewport", "0"})

	if err := root.Execute(); err == nil {
		t.Error("window with zero viewport should fail")
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	prev := filepath.Join(dir, "before.csv")
	data := filepath.Join(dir, "after.csv")
	if err := os.WriteFile(prev, []byte("id,revenue\na,10\nb,20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(data, []byte("id,revenue\nb,30\nc,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(dir, "out", "chart")

	root := New(io.Discard, log.InfoLevel).RootCommand()
	root.SetOut(io.Discard)
	root.SetArgs([]string{
		"render", data,
		"--previous", prev,
		"--channels", "y=revenue",
		"--format", "svg,json",
		"--frames", "3",
		"--output", output,
		"--no-cache",
	})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("render error: %v", err)
	}

	svg, err := os.ReadFile(output + ".svg")
	if err != nil {
		t.Fatalf("svg not written: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("unexpected svg:\n%s", svg)
	}
	js, err := os.ReadFile(output + ".json")
	if err != nil {
		t.Fatalf("json not written: %v", err)
	}
	if !strings.Contains(string(js), `"frames"`) {
		t.Errorf("unexpected json:\n%s", js)
	}
}

func TestWriteArtifactsSingleFormat(t *testing.T) {
	output := filepath.Join(t.TempDir(), "chart.svg")
	artifacts := map[string][]byte{pipeline.FormatSVG: []byte("<svg/>")}

	if err := writeArtifacts(artifacts, []string{pipeline.FormatSVG}, "in.csv", output); err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	got, err := os.ReadFile(output)
	if err != nil || string(got) != "<svg/>" {
		t.Errorf("ReadFile(%q) = %q, %v", output, got, err)
	}
}
