package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/chart"
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/observability"
)

// layoutState is the cached form of a laid-out chart.
type layoutState struct {
	State  chart.State        `json:"state"`
	Scroll *chart.ScrollState `json:"scroll,omitempty"`
}

// InputHash fingerprints the layout inputs.
func InputHash(cur, prev dataset.Dataset, opts Options) (string, error) {
	return cache.HashJSON(struct {
		Data     dataset.Dataset   `json:"data"`
		Previous dataset.Dataset   `json:"previous,omitempty"`
		Spec     dataset.FieldSpec `json:"spec"`
		Chart    chart.Config      `json:"chart"`
		Scroll   bool              `json:"scroll,omitempty"`
	}{cur, prev, opts.Spec, opts.Chart, opts.Scroll})
}

// BuildChart lays out cur, first laying out prev and settling on it when
// given, so the resulting plan animates from prev to cur.
func BuildChart(cur, prev dataset.Dataset, opts Options) (*chart.Chart, *chart.Scroll, error) {
	c, err := chart.New(opts.Chart, opts.Spec)
	if err != nil {
		return nil, nil, err
	}
	size := opts.Size()

	if opts.Scroll {
		s := chart.NewScroll(c)
		if prev != nil {
			if _, _, err := s.Update(prev, size, opts.ScrollOffset); err != nil {
				return nil, nil, err
			}
			c.Frame(1)
		}
		if _, _, err := s.Update(cur, size, opts.ScrollOffset); err != nil {
			return nil, nil, err
		}
		return c, s, nil
	}

	if prev != nil {
		if _, _, err := c.Update(prev, size); err != nil {
			return nil, nil, err
		}
		c.Frame(1)
	}
	if _, _, err := c.Update(cur, size); err != nil {
		return nil, nil, err
	}
	return c, nil, nil
}

// LayoutWithCacheInfo builds the chart, restoring it from the cache when the
// same inputs were laid out before.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, cur, prev dataset.Dataset, opts Options) (*chart.Chart, *chart.Scroll, string, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, "", false, err
	}
	inputHash, err := InputHash(cur, prev, opts)
	if err != nil {
		return nil, nil, "", false, err
	}
	key := r.Keyer.GeometryKey(inputHash, opts.GeometryKeyOpts())

	if !opts.Refresh {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			if c, s, err := restore(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "geometry")
				return c, s, inputHash, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "geometry")
	}

	kind := string(opts.Chart.Type)
	observability.Pipeline().OnLayoutStart(ctx, kind, len(cur))
	start := time.Now()
	c, s, err := BuildChart(cur, prev, opts)
	shapes := 0
	if err == nil {
		shapes = c.Current().Len()
	}
	observability.Pipeline().OnLayoutComplete(ctx, kind, shapes, time.Since(start), err)
	if err != nil {
		return nil, nil, "", false, err
	}
	enter, update, exit := c.Plan().Counts()
	observability.Pipeline().OnPlan(ctx, kind, enter, update, exit)

	st := layoutState{State: c.State()}
	if s != nil {
		ss := s.State()
		st.Scroll = &ss
	}
	if data, err := json.Marshal(st); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLGeometry); err == nil {
			observability.Cache().OnCacheSet(ctx, "geometry", len(data))
		}
	}
	return c, s, inputHash, false, nil
}

func restore(data []byte) (*chart.Chart, *chart.Scroll, error) {
	var st layoutState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, nil, err
	}
	c, err := chart.Restore(st.State)
	if err != nil {
		return nil, nil, err
	}
	if st.Scroll == nil {
		return c, nil, nil
	}
	return c, chart.RestoreScroll(c, *st.Scroll), nil
}
