package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/chartcore/pkg/buildinfo"
	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/layout"
	"github.com/matzehuels/chartcore/pkg/pipeline"
	"github.com/matzehuels/chartcore/pkg/scroll"
	"github.com/matzehuels/chartcore/pkg/session"
	"github.com/matzehuels/chartcore/pkg/sink"
)

const contentTypeSVG = "image/svg+xml"

// =============================================================================
// Request / Response Types
// =============================================================================

type renderResponse struct {
	InputHash string             `json:"input_hash"`
	Stats     pipeline.Stats     `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
	Window    *scroll.Window     `json:"window,omitempty"`
	SVG       string             `json:"svg,omitempty"`
	Scene     json.RawMessage    `json:"scene,omitempty"`
}

// updateRequest replaces a chart's data. Fraction, when set, is how far the
// client got through the running transition before the new data arrived.
type updateRequest struct {
	Records      dataset.Dataset `json:"records"`
	Width        float64         `json:"width,omitempty"`
	Height       float64         `json:"height,omitempty"`
	ScrollOffset *float64        `json:"scroll_offset,omitempty"`
	Fraction     *float64        `json:"fraction,omitempty"`
}

type scrollRequest struct {
	Offset float64 `json:"offset"`
}

type planCounts struct {
	Enter  int `json:"enter"`
	Update int `json:"update"`
	Exit   int `json:"exit"`
}

type chartResponse struct {
	ID        string         `json:"id"`
	Chart     chart.Type     `json:"chart"`
	Version   uint64         `json:"version"`
	Fraction  float64        `json:"fraction"`
	Changed   bool           `json:"changed"`
	Plan      planCounts     `json:"plan"`
	Window    *scroll.Window `json:"window,omitempty"`
	ExpiresAt time.Time      `json:"expires_at"`
}

// =============================================================================
// Chart Instances
// =============================================================================

// instance is a chart restored from its session.
type instance struct {
	sess   *session.Session
	chart  *chart.Chart
	scroll *chart.Scroll
}

func (in *instance) update(ds dataset.Dataset, size layout.Size, offset float64) (bool, error) {
	if in.scroll != nil {
		_, changed, err := in.scroll.Update(ds, size, offset)
		return changed, err
	}
	_, changed, err := in.chart.Update(ds, size)
	return changed, err
}

func (in *instance) frame(f float64) chart.Scene {
	if in.scroll != nil {
		return in.scroll.Frame(f)
	}
	return in.chart.Frame(f)
}

func (in *instance) response(changed bool) chartResponse {
	enter, update, exit := in.chart.Plan().Counts()
	resp := chartResponse{
		ID:        in.sess.ID,
		Chart:     in.chart.Config().Type,
		Version:   in.chart.Version(),
		Fraction:  in.chart.Fraction(),
		Changed:   changed,
		Plan:      planCounts{Enter: enter, Update: update, Exit: exit},
		ExpiresAt: in.sess.ExpiresAt,
	}
	if in.scroll != nil {
		w := in.scroll.Window()
		resp.Window = &w
	}
	return resp
}

func (s *Server) load(ctx context.Context, id string) (*instance, error) {
	if err := session.ValidateID(id); err != nil {
		return nil, err
	}
	sess, err := s.cfg.Sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "chart %s not found", id)
	}
	c, err := chart.Restore(sess.State)
	if err != nil {
		return nil, err
	}
	in := &instance{sess: sess, chart: c}
	if sess.Scroll != nil {
		in.scroll = chart.RestoreScroll(c, *sess.Scroll)
	}
	return in, nil
}

func (s *Server) save(ctx context.Context, in *instance) error {
	in.sess.Touch(in.chart.State(), s.cfg.SessionTTL)
	if in.scroll != nil {
		st := in.scroll.State()
		in.sess.Scroll = &st
	}
	return s.cfg.Sessions.Set(ctx, in.sess)
}

// rejectPaths keeps clients from reading server-side files.
func rejectPaths(opts pipeline.Options) error {
	if opts.Data != "" || opts.Previous != "" {
		return errors.New(errors.ErrCodeInvalidInput, "file paths are not accepted; send records inline")
	}
	if opts.Records == nil {
		return errors.New(errors.ErrCodeInvalidInput, "records are required")
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := s.decodeJSON(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := rejectPaths(opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	raw := r.URL.Query().Get("format") == pipeline.FormatSVG
	if raw && !slices.Contains(opts.Formats, pipeline.FormatSVG) {
		opts.Formats = append(opts.Formats, pipeline.FormatSVG)
	}
	opts.Logger = s.cfg.Logger

	res, err := s.cfg.Runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if raw {
		writeBytes(w, contentTypeSVG, res.Artifacts[pipeline.FormatSVG])
		return
	}

	resp := renderResponse{
		InputHash: res.InputHash,
		Stats:     res.Stats,
		Cache:     res.CacheInfo,
		SVG:       string(res.Artifacts[pipeline.FormatSVG]),
		Scene:     res.Artifacts[pipeline.FormatJSON],
	}
	if res.Scroll != nil {
		win := res.Scroll.Window()
		resp.Window = &win
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := s.decodeJSON(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := rejectPaths(opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateForParse(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.ValidateForLayout(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := opts.Records.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, sc, err := pipeline.BuildChart(opts.Records, opts.Prior, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := session.New(c.State(), s.cfg.SessionTTL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess.Viewport = opts.Size()
	if sc != nil {
		sess.Data = opts.Records
	}

	in := &instance{sess: sess, chart: c, scroll: sc}
	if err := s.save(r.Context(), in); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.cfg.Logger.Info("created chart", "id", sess.ID, "chart", c.Config().Type, "records", len(opts.Records))
	writeJSON(w, http.StatusCreated, in.response(true))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	in, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in.response(false))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := session.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.cfg.Sessions.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Records == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "records are required"))
		return
	}
	if err := req.Records.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	size := in.sess.Viewport
	if req.Width != 0 {
		size.Width = req.Width
	}
	if req.Height != 0 {
		size.Height = req.Height
	}
	offset := 0.0
	if in.sess.Scroll != nil {
		offset = in.sess.Scroll.Offset
	}
	if req.ScrollOffset != nil {
		offset = *req.ScrollOffset
	}
	if req.Fraction != nil {
		in.frame(*req.Fraction)
	}

	changed, err := in.update(req.Records, size, offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in.sess.Viewport = size
	if in.scroll != nil {
		in.sess.Data = req.Records
	}
	if err := s.save(r.Context(), in); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in.response(changed))
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateFinite("offset", req.Offset); err != nil {
		s.writeError(w, r, err)
		return
	}
	in, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if in.scroll == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "chart %s is not scrollable", in.sess.ID))
		return
	}

	changed, err := in.update(in.sess.Data, in.sess.Viewport, req.Offset)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.save(r.Context(), in); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, in.response(changed))
}

// handleFrame samples the running transition at ?t= (default 1). GET only
// reads; POST also stores the fraction so a later update retargets from the
// frame the client drew.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t := 1.0
	if v := q.Get("t"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "t must be a number in [0, 1], got %q", v))
			return
		}
		t = f
	}
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatJSON
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	in, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sc := in.frame(t)
	if r.Method == http.MethodPost {
		if err := s.save(r.Context(), in); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	if format == pipeline.FormatSVG {
		var opts []sink.SVGOption
		if q.Get("labels") == "true" {
			opts = append(opts, sink.WithLabels())
		}
		if in.scroll != nil {
			opts = append(opts, sink.WithViewport(in.sess.Viewport.Width, in.sess.Viewport.Height))
		}
		writeBytes(w, contentTypeSVG, sink.RenderSVG(sc, opts...))
		return
	}

	jsonOpts := []sink.JSONOption{sink.WithJSONConfig(in.chart.Config()), sink.WithJSONCompact()}
	if in.scroll != nil {
		jsonOpts = append(jsonOpts, sink.WithJSONWindow(in.scroll.Window()))
	}
	data, err := sink.RenderJSON([]chart.Scene{sc}, jsonOpts...)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeBytes(w, "application/json", data)
}
