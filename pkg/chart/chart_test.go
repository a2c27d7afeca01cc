package chart

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/transition"
)

func values(kv ...any) dataset.Dataset {
	var ds dataset.Dataset
	for i := 0; i < len(kv); i += 2 {
		ds = append(ds, dataset.NewRecord(kv[i].(string), map[string]any{"v": kv[i+1]}))
	}
	return ds
}

func ySpec() dataset.FieldSpec {
	return dataset.FieldSpec{Channels: map[dataset.Channel]dataset.Field{dataset.ChannelY: {Name: "v"}}}
}

func mustNew(t *testing.T, cfg Config, spec dataset.FieldSpec) *Chart {
	t.Helper()
	c, err := New(cfg, spec)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestBarScenario(t *testing.T) {
	c := mustNew(t, Config{Type: TypeBar, ValueDomain: []float64{0, 20}}, ySpec())
	plan, changed, err := c.Update(values("a", 10.0, "b", 20.0), layout.Size{Width: 200, Height: 100})
	if err != nil || !changed {
		t.Fatalf("Update() = %v, %v", changed, err)
	}
	if enter, _, _ := plan.Counts(); enter != 2 {
		t.Errorf("first update should only enter, got %d enters", enter)
	}

	start := c.Frame(0)
	for _, it := range start.Items {
		if it.Geometry.Height != 0 || it.Opacity != 0 {
			t.Errorf("%s at 0 = %+v, want collapsed", it.Key, it.Geometry)
		}
	}

	end := c.Frame(1)
	var heights []float64
	for _, it := range end.Items {
		heights = append(heights, it.Geometry.Height)
	}
	if !reflect.DeepEqual(heights, []float64{50, 100}) {
		t.Errorf("heights = %v, want [50 100]", heights)
	}
	if end.Chart != TypeBar || end.Version != 1 || end.Width != 200 {
		t.Errorf("scene header = %+v", end)
	}
}

func TestUpdateMemoized(t *testing.T) {
	c := mustNew(t, Config{Type: TypeBar}, ySpec())
	ds := values("a", 1.0, "b", 2.0)
	size := layout.Size{Width: 100, Height: 100}

	first, _, err := c.Update(ds, size)
	if err != nil {
		t.Fatal(err)
	}
	again, changed, err := c.Update(values("a", 1.0, "b", 2.0), size)
	if err != nil {
		t.Fatal(err)
	}
	if changed || again != first || c.Version() != 1 {
		t.Errorf("identical input recomputed: changed=%v version=%d", changed, c.Version())
	}

	if _, changed, _ := c.Update(ds, layout.Size{Width: 120, Height: 100}); !changed {
		t.Error("size change should recompute")
	}
	if c.Version() != 2 {
		t.Errorf("Version() = %d, want 2", c.Version())
	}
}

func TestScalesReused(t *testing.T) {
	c := mustNew(t, Config{Type: TypeBar}, ySpec())
	size := layout.Size{Width: 100, Height: 100}
	if _, _, err := c.Update(values("a", 10.0, "b", 20.0), size); err != nil {
		t.Fatal(err)
	}
	if c.ScalesReused() {
		t.Error("first update cannot reuse scales")
	}
	if _, _, err := c.Update(values("a", 15.0, "b", 20.0), size); err != nil {
		t.Fatal(err)
	}
	if !c.ScalesReused() {
		t.Error("same extent and size should reuse scales")
	}
	if _, _, err := c.Update(values("a", 15.0, "b", 40.0), size); err != nil {
		t.Fatal(err)
	}
	if c.ScalesReused() {
		t.Error("a wider extent should rebuild scales")
	}
}

func TestPlanKinds(t *testing.T) {
	c := mustNew(t, Config{Type: TypeBar}, ySpec())
	size := layout.Size{Width: 100, Height: 100}
	c.Update(values("a", 1.0, "b", 2.0), size)
	c.Frame(1)

	plan, _, err := c.Update(values("b", 2.0, "c", 3.0), size)
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]transition.Kind{}
	for _, e := range plan.Entries {
		got[e.Key] = e.Kind
	}
	want := map[string]transition.Kind{"a": transition.Exit, "b": transition.Update, "c": transition.Enter}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("kinds = %v, want %v", got, want)
	}

	end := c.Frame(1)
	if _, ok := end.Get("a"); ok {
		t.Error("finished exit should not be painted")
	}
	if got := end.Keys(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestRankBarReorder(t *testing.T) {
	spec := dataset.FieldSpec{Channels: map[dataset.Channel]dataset.Field{
		dataset.ChannelValue: {Name: "v"},
		dataset.ChannelRank:  {Name: "r"},
	}}
	c := mustNew(t, Config{Type: TypeRankBar}, spec)
	size := layout.Size{Width: 300, Height: 300}

	rows := func(order ...string) dataset.Dataset {
		v := map[string]float64{"a": 30, "b": 20, "c": 10}
		var ds dataset.Dataset
		for i, k := range order {
			ds = append(ds, dataset.NewRecord(k, map[string]any{"v": v[k], "r": float64(i)}))
		}
		return ds
	}

	if _, _, err := c.Update(rows("a", "b", "c"), size); err != nil {
		t.Fatal(err)
	}
	c.Frame(1)
	plan, _, err := c.Update(rows("b", "a", "c"), size)
	if err != nil {
		t.Fatal(err)
	}

	a, _ := plan.Entry("a")
	b, _ := plan.Entry("b")
	if a.From.Y != b.To.Y || b.From.Y != a.To.Y || a.From.Y == a.To.Y {
		t.Errorf("a %v->%v, b %v->%v: positions should swap", a.From.Y, a.To.Y, b.From.Y, b.To.Y)
	}
	if a.From.Width != a.To.Width || b.From.Width != b.To.Width {
		t.Error("values did not change, widths should not either")
	}
	if got := c.Frame(1).Keys(); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Errorf("paint order = %v", got)
	}
}

func TestRankBarComputedRanks(t *testing.T) {
	spec := dataset.FieldSpec{Channels: map[dataset.Channel]dataset.Field{dataset.ChannelValue: {Name: "v"}}}
	c := mustNew(t, Config{Type: TypeRankBar, TopN: 2}, spec)
	if _, _, err := c.Update(values("a", 1.0, "b", 3.0, "c", 2.0), layout.Size{Width: 100, Height: 100}); err != nil {
		t.Fatal(err)
	}
	if got := c.Ranks().Order(); !reflect.DeepEqual(got, []string{"b", "c", "a"}) {
		t.Errorf("rank order = %v", got)
	}
	if got := c.Frame(1).Keys(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Errorf("TopN scene = %v", got)
	}
}

func TestUpdateErrorKeepsState(t *testing.T) {
	c := mustNew(t, Config{Type: TypeBar}, ySpec())
	size := layout.Size{Width: 100, Height: 100}
	c.Update(values("a", 1.0), size)
	before := c.Current()

	bad := dataset.Dataset{dataset.NewRecord("a", map[string]any{"v": 1.0}), dataset.NewRecord("b", nil)}
	_, _, err := c.Update(bad, size)
	if !errors.Is(err, errors.ErrCodeMissingField) {
		t.Fatalf("error = %v, want MISSING_FIELD", err)
	}
	if c.Current() != before || c.Version() != 1 {
		t.Error("a failed update must not replace the current snapshot")
	}

	_, _, err = c.Update(dataset.Dataset{dataset.NewRecord("a", nil), dataset.NewRecord("a", nil)}, size)
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate keys error = %v", err)
	}
}

func TestRetargetMidTransition(t *testing.T) {
	c := mustNew(t, Config{Type: TypeBar, Easing: "linear", ValueDomain: []float64{0, 20}}, ySpec())
	size := layout.Size{Width: 100, Height: 100}
	c.Update(values("a", 10.0), size)
	c.Frame(1)
	c.Update(values("a", 20.0), size)
	if mid, _ := c.Frame(0.5).Get("a"); mid.Geometry.Height != 75 {
		t.Fatalf("mid height = %v, want 75", mid.Geometry.Height)
	}

	plan, _, err := c.Update(values("a", 0.0), size)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := plan.Entry("a")
	if a.From.Height != 75 {
		t.Errorf("retargeted plan starts at height %v, want 75", a.From.Height)
	}
	if prev, _ := c.Previous().Get("a"); prev.Height != 75 {
		t.Errorf("Previous() height = %v, want 75", prev.Height)
	}
}

// swapRows returns rank-bar rows in the given order with values from v.
func swapRows(v map[string]float64, order ...string) dataset.Dataset {
	var ds dataset.Dataset
	for i, k := range order {
		ds = append(ds, dataset.NewRecord(k, map[string]any{"v": v[k], "r": float64(i)}))
	}
	return ds
}

func rankSpec() dataset.FieldSpec {
	return dataset.FieldSpec{Channels: map[dataset.Channel]dataset.Field{
		dataset.ChannelValue: {Name: "v"},
		dataset.ChannelRank:  {Name: "r"},
	}}
}

func TestRankBarRetargetMidTransition(t *testing.T) {
	c := mustNew(t, Config{Type: TypeRankBar, Easing: "linear"}, rankSpec())
	size := layout.Size{Width: 300, Height: 300}
	v := map[string]float64{"a": 30, "b": 20, "c": 10}

	c.Update(swapRows(v, "a", "b", "c"), size)
	c.Frame(1)
	c.Update(swapRows(v, "b", "a", "c"), size)
	mid, _ := c.Frame(0.5).Get("a")

	v["a"] = 31
	plan, _, err := c.Update(swapRows(v, "b", "a", "c"), size)
	if err != nil {
		t.Fatal(err)
	}
	a, _ := plan.Entry("a")
	if a.From.Y != mid.Geometry.Y {
		t.Errorf("retargeted plan starts at y %v, want on-screen %v", a.From.Y, mid.Geometry.Y)
	}
	if end, _ := c.Frame(1).Get("a"); end.Geometry.Y != a.To.Y || end.Geometry.Order != 1 {
		t.Errorf("a ends at y %v order %d, want slot 1 at %v", end.Geometry.Y, end.Geometry.Order, a.To.Y)
	}
}

func TestRankBarRestoreMidTransition(t *testing.T) {
	c := mustNew(t, Config{Type: TypeRankBar, Easing: "linear"}, rankSpec())
	size := layout.Size{Width: 300, Height: 300}
	v := map[string]float64{"a": 30, "b": 20, "c": 10}

	c.Update(swapRows(v, "a", "b", "c"), size)
	c.Frame(1)
	c.Update(swapRows(v, "b", "a", "c"), size)
	mid, _ := c.Frame(0.5).Get("a")
	v["a"] = 31
	c.Update(swapRows(v, "b", "a", "c"), size)
	want := c.Frame(0.25)

	data, err := json.Marshal(c.State())
	if err != nil {
		t.Fatal(err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatal(err)
	}
	restored, err := Restore(st)
	if err != nil {
		t.Fatal(err)
	}
	if start, _ := restored.Frame(0).Get("a"); start.Geometry.Y != mid.Geometry.Y {
		t.Errorf("restored plan starts at y %v, want %v", start.Geometry.Y, mid.Geometry.Y)
	}
	if got := restored.Frame(0.25); !reflect.DeepEqual(got, want) {
		t.Errorf("restored frame differs:\n got %+v\nwant %+v", got, want)
	}
}

func TestStateRestore(t *testing.T) {
	c := mustNew(t, Config{Type: TypeBar}, ySpec())
	size := layout.Size{Width: 100, Height: 100}
	c.Update(values("a", 1.0, "b", 2.0), size)
	c.Frame(1)
	c.Update(values("b", 5.0, "c", 3.0), size)
	want := c.Frame(0.4)

	data, err := json.Marshal(c.State())
	if err != nil {
		t.Fatal(err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatal(err)
	}
	restored, err := Restore(st)
	if err != nil {
		t.Fatal(err)
	}
	if got := restored.Frame(0.4); !reflect.DeepEqual(got, want) {
		t.Errorf("restored frame differs:\n got %+v\nwant %+v", got, want)
	}
	if _, changed, _ := restored.Update(values("b", 5.0, "c", 3.0), size); changed {
		t.Error("restored chart should recognise unchanged input")
	}
}

func TestScaleAliasInSpecLiteral(t *testing.T) {
	spec := dataset.FieldSpec{Channels: map[dataset.Channel]dataset.Field{
		dataset.ChannelX: {Name: "m", Scale: "categorical"},
		dataset.ChannelY: {Name: "v"},
	}}
	c := mustNew(t, Config{Type: TypeScatter}, spec)

	ds := dataset.Dataset{
		dataset.NewRecord("a", map[string]any{"m": "jan", "v": 1.0}),
		dataset.NewRecord("b", map[string]any{"m": "feb", "v": 2.0}),
	}
	if _, _, err := c.Update(ds, layout.Size{Width: 100, Height: 100}); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	a, _ := c.Frame(1).Get("a")
	b, _ := c.Frame(1).Get("b")
	if a.Geometry.X >= b.Geometry.X {
		t.Errorf("jan at x %v should precede feb at x %v", a.Geometry.X, b.Geometry.X)
	}
}

func TestLinePaths(t *testing.T) {
	spec := dataset.FieldSpec{Channels: map[dataset.Channel]dataset.Field{
		dataset.ChannelX: {Name: "x"},
		dataset.ChannelY: {Name: "y"},
	}}
	c := mustNew(t, Config{Type: TypeLine}, spec)
	ds := dataset.Dataset{
		dataset.NewRecord("p1", map[string]any{"x": 1.0, "y": 1.0}),
		dataset.NewRecord("p2", map[string]any{"x": 2.0, "y": 4.0}),
		dataset.NewRecord("gap", map[string]any{"x": 3.0}),
		dataset.NewRecord("p4", map[string]any{"x": 4.0, "y": 2.0}),
	}
	if _, _, err := c.Update(ds, layout.Size{Width: 100, Height: 100}); err != nil {
		t.Fatal(err)
	}
	paths := c.Frame(1).Paths()
	if len(paths) != 2 || len(paths[0]) != 2 || len(paths[1]) != 1 {
		t.Errorf("Paths() = %v", paths)
	}
}

func TestRadiusChannelFromConfig(t *testing.T) {
	spec := dataset.FieldSpec{Channels: map[dataset.Channel]dataset.Field{
		dataset.ChannelX: {Name: "x"},
		dataset.ChannelY: {Name: "y"},
	}}
	c := mustNew(t, Config{Type: TypeScatter, RadiusChannel: "size"}, spec)
	ds := dataset.Dataset{
		dataset.NewRecord("s", map[string]any{"x": 0.0, "y": 0.0, "size": 0.0}),
		dataset.NewRecord("l", map[string]any{"x": 1.0, "y": 1.0, "size": 100.0}),
	}
	if _, _, err := c.Update(ds, layout.Size{Width: 10, Height: 10}); err != nil {
		t.Fatal(err)
	}
	l, _ := c.Frame(1).Get("l")
	if l.Geometry.Radius != layout.DefaultRadiusRange[1] {
		t.Errorf("radius = %v, want %v", l.Geometry.Radius, layout.DefaultRadiusRange[1])
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		code errors.Code
	}{
		{"unknown type", Config{Type: "pie"}, errors.ErrCodeInvalidChart},
		{"bad scale", Config{Type: TypeBar, ScaleKind: "log"}, errors.ErrCodeInvalidScale},
		{"gap ratio", Config{Type: TypeBar, GapRatio: 1}, errors.ErrCodeInvalidConfig},
		{"negative padding", Config{Type: TypeBar, Padding: -1}, errors.ErrCodeInvalidConfig},
		{"easing", Config{Type: TypeBar, Easing: "bounce"}, errors.ErrCodeInvalidConfig},
		{"tie break", Config{Type: TypeRankBar, TieBreak: "random"}, errors.ErrCodeInvalidConfig},
		{"overscan", Config{Type: TypeBar, Overscan: -1}, errors.ErrCodeInvalidConfig},
		{"top n", Config{Type: TypeRankBar, TopN: -2}, errors.ErrCodeInvalidConfig},
		{"value domain", Config{Type: TypeBar, ValueDomain: []float64{1}}, errors.ErrCodeInvalidConfig},
		{"item extent", Config{Type: TypeBar, ItemExtent: -4}, errors.ErrCodeInvalidExtent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg, ySpec())
			if !errors.Is(err, tt.code) {
				t.Errorf("New() error = %v, want %s", err, tt.code)
			}
		})
	}

	cfg := Config{Type: "Rank-Bar"}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil || cfg.Type != TypeRankBar {
		t.Errorf("Validate() normalised type to %q, err %v", cfg.Type, err)
	}
}

func TestScrollRankBar(t *testing.T) {
	spec := dataset.FieldSpec{Channels: map[dataset.Channel]dataset.Field{dataset.ChannelValue: {Name: "v"}}}
	c := mustNew(t, Config{Type: TypeRankBar, ItemExtent: 10, Overscan: 1}, spec)
	s := NewScroll(c)

	var ds dataset.Dataset
	for i := 0; i < 100; i++ {
		ds = append(ds, dataset.NewRecord(fmt.Sprintf("k%03d", i), map[string]any{"v": float64(100 - i)}))
	}
	size := layout.Size{Width: 200, Height: 50}

	if _, _, err := s.Update(ds, size, 0); err != nil {
		t.Fatal(err)
	}
	if w := s.Window(); w.Offset != 0 || w.Size != 7 {
		t.Errorf("Window() = %+v, want {0 7}", w)
	}
	if n := len(s.Frame(1).Items); n != 7 {
		t.Errorf("items = %d, want 7", n)
	}

	_, changed, err := s.Update(ds, size, 200)
	if err != nil || !changed {
		t.Fatalf("Update() = %v, %v", changed, err)
	}
	if w := s.Window(); w.Offset != 19 || w.Size != 7 {
		t.Errorf("Window() = %+v, want {19 7}", w)
	}
	scene := s.Frame(0)
	if scene.OffsetY != -10 {
		t.Errorf("OffsetY = %v, want -10", scene.OffsetY)
	}
	first := scene.Items[0]
	if first.Key != "k019" || first.Opacity != 1 || math.Abs(first.Geometry.Y-0.5) > 1e-9 {
		t.Errorf("first item = %+v, want settled k019 at slot 0", first)
	}
}

func TestScrollBarHorizontal(t *testing.T) {
	c := mustNew(t, Config{Type: TypeBar, ItemExtent: 20}, ySpec())
	s := NewScroll(c)
	var ds dataset.Dataset
	for i := 0; i < 30; i++ {
		ds = append(ds, dataset.NewRecord(fmt.Sprintf("r%02d", i), map[string]any{"v": float64(i)}))
	}
	if _, _, err := s.Update(ds, layout.Size{Width: 100, Height: 80}, 45); err != nil {
		t.Fatal(err)
	}
	scene := s.Frame(1)
	if scene.OffsetY != 0 || scene.OffsetX != float64(s.Window().Offset)*20-45 {
		t.Errorf("offsets = (%v, %v)", scene.OffsetX, scene.OffsetY)
	}
	if scene.Width != float64(s.Window().Size)*20 {
		t.Errorf("Width = %v, want %v", scene.Width, float64(s.Window().Size)*20)
	}

	if _, _, err := NewScroll(mustNew(t, Config{Type: TypeBar}, ySpec())).Update(ds, layout.Size{}, 0); !errors.Is(err, errors.ErrCodeInvalidExtent) {
		t.Errorf("zero viewport error = %v", err)
	}
}

func TestScrollStateRestore(t *testing.T) {
	c := mustNew(t, Config{Type: TypeBar, ItemExtent: 10}, ySpec())
	s := NewScroll(c)
	var ds dataset.Dataset
	for i := 0; i < 50; i++ {
		ds = append(ds, dataset.NewRecord(fmt.Sprintf("r%02d", i), map[string]any{"v": float64(i)}))
	}
	size := layout.Size{Width: 100, Height: 50}
	if _, _, err := s.Update(ds, size, 120); err != nil {
		t.Fatal(err)
	}

	restored, err := Restore(c.State())
	if err != nil {
		t.Fatal(err)
	}
	rs := RestoreScroll(restored, s.State())
	if rs.Window() != s.Window() {
		t.Errorf("Window() = %+v, want %+v", rs.Window(), s.Window())
	}
	if got, want := rs.Frame(1).OffsetX, s.Frame(1).OffsetX; got != want {
		t.Errorf("OffsetX = %v, want %v", got, want)
	}

	// Same data at a new position settles instead of animating.
	if _, _, err := rs.Update(ds, size, 200); err != nil {
		t.Fatal(err)
	}
	if f := rs.Chart().Fraction(); f != 1 {
		t.Errorf("Fraction() = %v, want 1 after a scroll-only change", f)
	}
}
