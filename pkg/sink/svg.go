package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/layout"
)

// DefaultPalette is used when no palette option is given.
var DefaultPalette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

const (
	lineStroke   = "#4e79a7"
	vertexRadius = 2.5
	labelFont    = "ui-monospace, monospace"
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	palette    []string
	background string
	labels     bool
	width      float64
	height     float64
}

func WithPalette(colors []string) SVGOption { return func(r *svgRenderer) { r.palette = colors } }
func WithBackground(c string) SVGOption     { return func(r *svgRenderer) { r.background = c } }
func WithLabels() SVGOption                 { return func(r *svgRenderer) { r.labels = true } }

// WithViewport sets the picture size. Scrolled scenes are clipped to it;
// without it the scene's own extent is used.
func WithViewport(width, height float64) SVGOption {
	return func(r *svgRenderer) { r.width, r.height = width, height }
}

// RenderSVG draws one frame. Items are painted in scene order; each key
// keeps its colour across frames.
func RenderSVG(sc chart.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := r.width, r.height
	if w <= 0 {
		w = sc.Width
	}
	if h <= 0 {
		h = sc.Height
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f" data-chart="%s" data-version="%d">`+"\n",
		w, h, w, h, sc.Chart, sc.Version)
	fmt.Fprintf(&buf, `  <defs><clipPath id="viewport"><rect x="0" y="0" width="%.2f" height="%.2f"/></clipPath></defs>`+"\n", w, h)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escapeXML(r.background))
	}

	fmt.Fprintf(&buf, `  <g clip-path="url(#viewport)" transform="translate(%.2f %.2f)">`+"\n", sc.OffsetX, sc.OffsetY)
	renderPaths(&buf, sc)
	for _, it := range sc.Items {
		r.renderItem(&buf, it)
	}
	if r.labels {
		for _, it := range sc.Items {
			renderLabel(&buf, it)
		}
	}
	buf.WriteString("  </g>\n</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{palette: DefaultPalette}
	for _, opt := range opts {
		opt(&r)
	}
	if len(r.palette) == 0 {
		r.palette = DefaultPalette
	}
	return r
}

func (r *svgRenderer) color(key string) string {
	h := fnv.New32a()
	h.Write([]byte(key))
	return r.palette[h.Sum32()%uint32(len(r.palette))]
}

func (r *svgRenderer) renderItem(buf *bytes.Buffer, it chart.Item) {
	g := it.Geometry
	id := escapeXML(it.Key)
	switch it.ShapeKind {
	case layout.ShapeRect, layout.ShapeSlot:
		fmt.Fprintf(buf, `    <rect id="item-%s" class="item %s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
			id, it.ShapeKind, g.X, g.Y, g.Width, g.Height, r.color(it.Key), it.Opacity)
	case layout.ShapePoint:
		fmt.Fprintf(buf, `    <circle id="item-%s" class="item point" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
			id, g.X, g.Y, g.Radius, r.color(it.Key), it.Opacity)
	case layout.ShapeVertex:
		fmt.Fprintf(buf, `    <circle id="item-%s" class="item vertex" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.3f"/>`+"\n",
			id, g.X, g.Y, vertexRadius, lineStroke, it.Opacity)
	}
}

// renderPaths connects vertices segment by segment. Single-vertex segments
// are left to their marker.
func renderPaths(buf *bytes.Buffer, sc chart.Scene) {
	for i, path := range sc.Paths() {
		if len(path) < 2 {
			continue
		}
		pts := make([]string, len(path))
		for j, it := range path {
			pts[j] = fmt.Sprintf("%.2f,%.2f", it.Geometry.X, it.Geometry.Y)
		}
		fmt.Fprintf(buf, `    <polyline class="segment" data-segment="%d" points="%s" fill="none" stroke="%s" stroke-width="2"/>`+"\n",
			i, strings.Join(pts, " "), lineStroke)
	}
}

func renderLabel(buf *bytes.Buffer, it chart.Item) {
	g := it.Geometry
	x, y, anchor := g.CenterX(), g.Top()-4, "middle"
	switch {
	case it.ShapeKind == layout.ShapeSlot:
		x, y, anchor = g.Left()+4, g.CenterY(), "start"
	case !g.IsRect():
		x, y = g.X, g.Y-g.Radius-4
	}
	fmt.Fprintf(buf, `    <text class="label" x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="middle" font-family="%s" font-size="11" fill-opacity="%.3f">%s</text>`+"\n",
		x, y, anchor, labelFont, it.Opacity, escapeXML(it.Key))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
