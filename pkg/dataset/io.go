package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/chartcore/pkg/errors"
)

// ReadJSON decodes an array of flat objects into a Dataset:
//
//	[{"id": "a", "v": 10}, {"id": "b", "v": 20}]
//
// keyField names the identity field (defaults to "id"). Numeric keys are
// formatted as strings. Every field, including the key, is kept in
// Record.Fields so it can also be bound to a channel.
//
// ReadJSON fails if the JSON is malformed, a record has no key, or a key
// repeats. It does not close r.
func ReadJSON(r io.Reader, keyField string) (Dataset, error) {
	if keyField == "" {
		keyField = DefaultKeyField
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode dataset")
	}

	ds := make(Dataset, 0, len(rows))
	for i, row := range rows {
		rec := Record{Fields: row}
		key, ok := rec.String(keyField)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "record %d has no %q field", i, keyField)
		}
		rec.Key = key
		ds = append(ds, rec)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

// ReadCSV decodes a CSV table with a header row. Cells that parse as numbers
// become float64, empty cells are missing, anything else stays a string.
func ReadCSV(r io.Reader, keyField string) (Dataset, error) {
	if keyField == "" {
		keyField = DefaultKeyField
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return Dataset{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read csv header")
	}
	keyCol := -1
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if header[i] == keyField {
			keyCol = i
		}
	}
	if keyCol < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "csv header has no %q column", keyField)
	}

	var ds Dataset
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read csv line %d", line)
		}
		fields := make(map[string]any, len(header))
		for i, cell := range row {
			if i >= len(header) {
				break
			}
			fields[header[i]] = parseCell(cell)
		}
		ds = append(ds, Record{Key: strings.TrimSpace(row[keyCol]), Fields: fields})
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}

func parseCell(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Import reads a dataset file, choosing the decoder from its extension
// (.json or .csv).
func Import(path, keyField string) (Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" && ext != ".csv" {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset extension %q (use .json or .csv)", ext)
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if ext == ".csv" {
		return ReadCSV(f, keyField)
	}
	return ReadJSON(f, keyField)
}

// Parse decodes an in-memory dataset, sniffing JSON by its leading bracket
// and falling back to CSV.
func Parse(data []byte, keyField string) (Dataset, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return ReadJSON(bytes.NewReader(trimmed), keyField)
	}
	return ReadCSV(bytes.NewReader(data), keyField)
}

// WriteJSON encodes ds in the flat form read by [ReadJSON]. The key is
// written under keyField, overriding any field of the same name.
func WriteJSON(w io.Writer, ds Dataset, keyField string) error {
	if keyField == "" {
		keyField = DefaultKeyField
	}
	rows := make([]map[string]any, len(ds))
	for i, r := range ds {
		row := make(map[string]any, len(r.Fields)+1)
		for k, v := range r.Fields {
			row[k] = v
		}
		row[keyField] = r.Key
		rows[i] = row
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}
