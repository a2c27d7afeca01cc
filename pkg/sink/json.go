package sink

import (
	"encoding/json"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/scroll"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	config  *chart.Config
	window  *scroll.Window
	compact bool
}

// WithJSONConfig records the chart configuration in the output so a
// consumer can reproduce the frames.
func WithJSONConfig(cfg chart.Config) JSONOption {
	return func(r *jsonRenderer) { r.config = &cfg }
}

// WithJSONWindow records the scroll window the frames were laid out for.
func WithJSONWindow(w scroll.Window) JSONOption {
	return func(r *jsonRenderer) { r.window = &w }
}

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Chart  chart.Type     `json:"chart"`
	Config *chart.Config  `json:"config,omitempty"`
	Window *scroll.Window `json:"window,omitempty"`
	Frames []chart.Scene  `json:"frames"`
}

// RenderJSON exports a frame sequence. The chart type is taken from the
// first frame; an empty sequence yields an empty frames array.
func RenderJSON(scenes []chart.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Config: r.config,
		Window: r.window,
		Frames: scenes,
	}
	if out.Frames == nil {
		out.Frames = []chart.Scene{}
	}
	if len(scenes) > 0 {
		out.Chart = scenes[0].Chart
	} else if r.config != nil {
		out.Chart = r.config.Type
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
