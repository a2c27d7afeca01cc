package sink

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/scroll"
)

func barScene() chart.Scene {
	return chart.Scene{
		Chart:   chart.TypeBar,
		Version: 3,
		Width:   200,
		Height:  100,
		Items: []chart.Item{
			{Key: "a", ShapeKind: layout.ShapeRect, Opacity: 1, Geometry: layout.Shape{Kind: layout.ShapeRect, X: 5, Y: 50, Width: 90, Height: 50, Opacity: 1}},
			{Key: "b<&>", ShapeKind: layout.ShapeRect, Opacity: 0.5, Geometry: layout.Shape{Kind: layout.ShapeRect, X: 105, Y: 0, Width: 90, Height: 100, Opacity: 0.5, Order: 1}},
		},
	}
}

func TestRenderJSON(t *testing.T) {
	data, err := RenderJSON([]chart.Scene{barScene(), barScene()})
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Chart != chart.TypeBar {
		t.Errorf("Chart = %q, want bar", out.Chart)
	}
	if len(out.Frames) != 2 || len(out.Frames[0].Items) != 2 {
		t.Fatalf("frames = %+v", out.Frames)
	}
	if out.Config != nil || out.Window != nil {
		t.Error("optional sections should be omitted")
	}
	if got := out.Frames[0].Items[0].Geometry.Height; got != 50 {
		t.Errorf("height = %v, want 50", got)
	}
}

func TestRenderJSONWithOptions(t *testing.T) {
	cfg := chart.Config{Type: chart.TypeRankBar, TopN: 5}
	data, err := RenderJSON(nil, WithJSONConfig(cfg), WithJSONWindow(scroll.Window{Offset: 3, Size: 4}), WithJSONCompact())
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if strings.Contains(string(data), "\n") {
		t.Error("compact output should be a single line")
	}

	var out jsonOutput
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.Chart != chart.TypeRankBar {
		t.Errorf("Chart = %q, want the configured type", out.Chart)
	}
	if out.Frames == nil || len(out.Frames) != 0 {
		t.Errorf("Frames = %v, want empty array", out.Frames)
	}
	if out.Window == nil || out.Window.Offset != 3 || out.Config.TopN != 5 {
		t.Errorf("options not recorded: %+v", out)
	}
}

func TestRenderSVG(t *testing.T) {
	svg := string(RenderSVG(barScene(), WithLabels(), WithBackground("#fff")))

	for _, want := range []string{
		`viewBox="0 0 200.0 100.0"`,
		`data-chart="bar"`,
		`id="item-a"`,
		`height="50.00"`,
		`fill-opacity="0.500"`,
		`b&lt;&amp;&gt;`,
		`fill="#fff"`,
		`class="label"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, "b<&>") {
		t.Error("keys must be escaped")
	}
}

func TestRenderSVGStableColors(t *testing.T) {
	r := newSVGRenderer()
	if r.color("a") != r.color("a") {
		t.Error("color must be deterministic")
	}
	one := newSVGRenderer(WithPalette([]string{"red"}))
	if got := one.color("anything"); got != "red" {
		t.Errorf("color = %q, want red", got)
	}
	if got := newSVGRenderer(WithPalette(nil)).palette; len(got) != len(DefaultPalette) {
		t.Error("empty palette should fall back to the default")
	}
}

func TestRenderSVGLineAndViewport(t *testing.T) {
	vertex := func(key string, x, y float64, seg, order int) chart.Item {
		return chart.Item{Key: key, ShapeKind: layout.ShapeVertex, Opacity: 1,
			Geometry: layout.Shape{Kind: layout.ShapeVertex, X: x, Y: y, Segment: seg, Order: order, Opacity: 1}}
	}
	sc := chart.Scene{
		Chart:   chart.TypeLine,
		Width:   300,
		Height:  100,
		OffsetX: -40,
		Items: []chart.Item{
			vertex("p1", 0, 10, 0, 0),
			vertex("p2", 10, 20, 0, 1),
			vertex("p4", 30, 40, 1, 3),
		},
	}
	svg := string(RenderSVG(sc, WithViewport(120, 100)))

	if n := strings.Count(svg, "<polyline"); n != 1 {
		t.Errorf("polylines = %d, want 1 (single-vertex segment is not connected)", n)
	}
	if !strings.Contains(svg, `points="0.00,10.00 10.00,20.00"`) {
		t.Error("polyline points missing")
	}
	if !strings.Contains(svg, `translate(-40.00 0.00)`) {
		t.Error("scene offset not applied")
	}
	if !strings.Contains(svg, `width="120"`) {
		t.Error("viewport width not applied")
	}
}
