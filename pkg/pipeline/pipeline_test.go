package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func records(kv ...any) dataset.Dataset {
	var ds dataset.Dataset
	for i := 0; i < len(kv); i += 2 {
		ds = append(ds, dataset.NewRecord(kv[i].(string), map[string]any{"v": kv[i+1]}))
	}
	return ds
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"json", false},
		{"png", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateForParse(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no data", Options{Channels: "y=v"}, errors.ErrCodeInvalidInput},
		{"no channels", Options{Data: "x.csv"}, errors.ErrCodeInvalidConfig},
		{"bad binding", Options{Data: "x.csv", Channels: "y"}, errors.ErrCodeInvalidConfig},
		{"ok", Options{Data: "x.csv", Channels: "y=v"}, ""},
		{"inline", Options{Records: records("a", 1.0), Channels: "y=v"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForParse()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if tt.opts.KeyField != dataset.DefaultKeyField || tt.opts.Spec.Key != dataset.DefaultKeyField {
					t.Errorf("key = %q/%q, want default", tt.opts.KeyField, tt.opts.Spec.Key)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size = %gx%g", opts.Width, opts.Height)
	}
	if opts.Chart.Padding != chart.DefaultPadding {
		t.Errorf("padding = %g", opts.Chart.Padding)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestValidateForLayout(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"ok", Options{Channels: "y=v", Chart: chart.Config{Type: chart.TypeBar}}, ""},
		{"bad chart", Options{Channels: "y=v", Chart: chart.Config{Type: "pie"}}, errors.ErrCodeInvalidChart},
		{"negative width", Options{Channels: "y=v", Chart: chart.Config{Type: chart.TypeBar}, Width: -1}, errors.ErrCodeInvalidExtent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if tt.code == "" && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.code != "" && !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Frames != DefaultFrames {
		t.Errorf("Frames = %d", opts.Frames)
	}

	bad := 1.5
	for _, o := range []Options{{Frames: MaxFrames + 1}, {Fraction: &bad}, {Formats: []string{"gif"}}} {
		if err := o.ValidateForRender(); err == nil {
			t.Errorf("ValidateForRender(%+v) should fail", o)
		}
	}
}

func TestFrameFractions(t *testing.T) {
	half := 0.5
	tests := []struct {
		name string
		opts Options
		want []float64
	}{
		{"default", Options{}, []float64{1}},
		{"fraction", Options{Fraction: &half}, []float64{0.5}},
		{"frames", Options{Frames: 5}, []float64{0, 0.25, 0.5, 0.75, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.opts.FrameFractions()
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Records: records("a", 1.0), Channels: "y=v", Chart: chart.Config{Type: chart.TypeBar}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts.Spec.String()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Spec.String() != first {
		t.Errorf("spec changed on second call: %s vs %s", first, opts.Spec.String())
	}
}

func TestExecuteFromFile(t *testing.T) {
	dir := t.TempDir()
	data := writeFile(t, dir, "sales.csv", "id,revenue\na,10\nb,20\n")
	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{
		Data:     data,
		Channels: "y=revenue",
		Chart:    chart.Config{Type: chart.TypeBar},
		Width:    200,
		Height:   100,
		Formats:  []string{FormatSVG, FormatJSON},
	}

	res, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.Stats.Records != 2 || res.Stats.Shapes != 2 || res.Stats.Enter != 2 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.CacheInfo.ParseHit || res.CacheInfo.LayoutHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss, got %+v", res.CacheInfo)
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), `id="item-a"`) {
		t.Errorf("svg missing item a:\n%s", res.Artifacts[FormatSVG])
	}
	var out struct {
		Chart  string        `json:"chart"`
		Frames []chart.Scene `json:"frames"`
	}
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &out); err != nil {
		t.Fatal(err)
	}
	if out.Chart != "bar" || len(out.Frames) != 1 || len(out.Frames[0].Items) != 2 {
		t.Errorf("json = %+v", out)
	}

	again, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheInfo.ParseHit {
		t.Error("second run should read the dataset from cache")
	}
}

func TestExecuteCachesLayoutAndRender(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{
		Records:  records("a", 1.0, "b", 2.0),
		Prior:    records("a", 2.0, "c", 1.0),
		Channels: "y=v",
		Chart:    chart.Config{Type: chart.TypeBar},
		Frames:   3,
		Formats:  []string{FormatJSON},
	}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Stats.Enter != 1 || first.Stats.Update != 1 || first.Stats.Exit != 1 {
		t.Errorf("plan stats = %+v", first.Stats)
	}
	if len(first.Scenes) != 3 {
		t.Errorf("scenes = %d, want 3", len(first.Scenes))
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit, got %+v", second.CacheInfo)
	}
	if second.InputHash != first.InputHash {
		t.Error("input hash should be stable")
	}

	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.LayoutHit {
		t.Error("refresh should bypass the layout cache")
	}
}

func TestExecuteScroll(t *testing.T) {
	var ds dataset.Dataset
	for i := 0; i < 50; i++ {
		ds = append(ds, dataset.NewRecord(string(rune('a'+i%26))+string(rune('a'+i/26)), map[string]any{"v": float64(i)}))
	}
	runner := NewRunner(nil, nil, nil)
	res, err := runner.Execute(context.Background(), Options{
		Records:      ds,
		Channels:     "value=v",
		Chart:        chart.Config{Type: chart.TypeRankBar, ItemExtent: 10},
		Width:        100,
		Height:       50,
		Scroll:       true,
		ScrollOffset: 100,
		Formats:      []string{FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Scroll == nil {
		t.Fatal("Scroll should be set")
	}
	if w := res.Scroll.Window(); w.Offset != 10 {
		t.Errorf("window = %+v, want offset 10", w)
	}
	if !strings.Contains(string(res.Artifacts[FormatJSON]), `"window"`) {
		t.Error("json should carry the scroll window")
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), "clipPath") {
		t.Error("scrolled svg should clip to the viewport")
	}
}

func TestExecuteScrollSharesCacheWithUnscrolled(t *testing.T) {
	var ds dataset.Dataset
	for i := 0; i < 50; i++ {
		ds = append(ds, dataset.NewRecord(fmt.Sprintf("k%02d", i), map[string]any{"v": float64(i)}))
	}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	opts := Options{
		Records:  ds,
		Channels: "value=v",
		Chart:    chart.Config{Type: chart.TypeRankBar, ItemExtent: 10},
		Width:    100,
		Height:   50,
		Formats:  []string{FormatJSON},
	}

	flat, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if flat.Scroll != nil || flat.Stats.Shapes != 50 {
		t.Fatalf("unscrolled run: scroll=%v shapes=%d", flat.Scroll != nil, flat.Stats.Shapes)
	}

	opts.Scroll = true
	scrolled, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if scrolled.CacheInfo.LayoutHit || scrolled.CacheInfo.RenderHit {
		t.Errorf("scrolled run reused the unscrolled cache: %+v", scrolled.CacheInfo)
	}
	if scrolled.Scroll == nil {
		t.Fatal("scrolled run should carry a scroll window")
	}
	if scrolled.Stats.Shapes >= 50 {
		t.Errorf("scrolled run laid out %d shapes, want only the window", scrolled.Stats.Shapes)
	}
	if !strings.Contains(string(scrolled.Artifacts[FormatJSON]), `"window"`) {
		t.Error("scrolled json should carry the window")
	}
}

func TestExecuteMissingFile(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), Options{
		Data:     filepath.Join(t.TempDir(), "nope.csv"),
		Channels: "y=v",
		Chart:    chart.Config{Type: chart.TypeBar},
	})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		path string
		data string
	}{
		{"d.csv", "id,v\na,1\n"},
		{"d.json", `[{"id":"a","v":1}]`},
		{"d.txt", `[{"id":"a","v":1}]`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ds, err := Decode(tt.path, []byte(tt.data), "id")
			if err != nil {
				t.Fatal(err)
			}
			if len(ds) != 1 || ds[0].Key != "a" {
				t.Errorf("got %+v", ds)
			}
		})
	}
}

func TestLoadOptions(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"opts.toml": `
data = "sales.csv"
channels = "y=revenue"
formats = ["json"]

[chart]
type = "line"
easing = "linear"
`,
		"opts.yaml": `
data: sales.csv
channels: y=revenue
formats: [json]
chart:
  type: line
  easing: linear
`,
		"opts.json": `{"data":"sales.csv","channels":"y=revenue","formats":["json"],"chart":{"type":"line","easing":"linear"}}`,
	}
	for name, content := range files {
		t.Run(name, func(t *testing.T) {
			opts, err := LoadOptions(writeFile(t, dir, name, content))
			if err != nil {
				t.Fatal(err)
			}
			if opts.Data != filepath.Join(dir, "sales.csv") {
				t.Errorf("Data = %q, want resolved against option file", opts.Data)
			}
			if opts.Chart.Type != chart.TypeLine || opts.Chart.Easing != "linear" {
				t.Errorf("Chart = %+v", opts.Chart)
			}
			if opts.Channels != "y=revenue" || len(opts.Formats) != 1 {
				t.Errorf("opts = %+v", opts)
			}
		})
	}
}

func TestLoadOptionsErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadOptions(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing: %v", err)
	}
	if _, err := LoadOptions(writeFile(t, dir, "opts.ini", "x=1")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ini: %v", err)
	}
	if _, err := LoadOptions(writeFile(t, dir, "bad.json", `{"nope":1}`)); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown field: %v", err)
	}
}
