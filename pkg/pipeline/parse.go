package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/chartcore/pkg/cache"
	"github.com/matzehuels/chartcore/pkg/dataset"
	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/observability"
)

// ParseWithCacheInfo loads the current and, when configured, the previous
// dataset. The boolean reports whether every file-backed dataset came from
// the cache. Inline records are used as given.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, opts Options) (cur, prev dataset.Dataset, hit bool, err error) {
	if err := opts.ValidateForParse(); err != nil {
		return nil, nil, false, err
	}

	cur, hit, err = r.loadDataset(ctx, opts.Data, opts.Records, opts)
	if err != nil {
		return nil, nil, false, err
	}
	if opts.Previous != "" || opts.Prior != nil {
		var prevHit bool
		prev, prevHit, err = r.loadDataset(ctx, opts.Previous, opts.Prior, opts)
		if err != nil {
			return nil, nil, false, fmt.Errorf("previous: %w", err)
		}
		hit = hit && prevHit
	}
	return cur, prev, hit, nil
}

func (r *Runner) loadDataset(ctx context.Context, path string, inline dataset.Dataset, opts Options) (dataset.Dataset, bool, error) {
	if inline != nil {
		return inline, false, inline.Validate()
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	key := r.Keyer.DatasetKey(path, cache.Hash(append([]byte(opts.KeyField+"\x00"), data...)))

	if !opts.Refresh {
		if cached, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			if ds, err := dataset.ReadJSON(bytes.NewReader(cached), opts.KeyField); err == nil {
				observability.Cache().OnCacheHit(ctx, "dataset")
				return ds, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "dataset")
	}

	ds, err := Decode(path, data, opts.KeyField)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := dataset.WriteJSON(&buf, ds, opts.KeyField); err == nil {
		if err := r.Cache.Set(ctx, key, buf.Bytes(), cache.TTLDataset); err == nil {
			observability.Cache().OnCacheSet(ctx, "dataset", buf.Len())
		}
	}
	return ds, false, nil
}

// Decode parses dataset bytes, picking the decoder from the file extension.
// Unknown extensions are sniffed.
func Decode(path string, data []byte, keyField string) (dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return dataset.ReadJSON(bytes.NewReader(data), keyField)
	case ".csv":
		return dataset.ReadCSV(bytes.NewReader(data), keyField)
	}
	return dataset.Parse(data, keyField)
}
