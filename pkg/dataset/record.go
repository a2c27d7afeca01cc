package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/matzehuels/chartcore/pkg/errors"
	"github.com/matzehuels/chartcore/pkg/scale"
)

// Record is one datum: an identity key plus named fields.
type Record struct {
	Key    string         `json:"key" bson:"key"`
	Fields map[string]any `json:"fields,omitempty" bson:"fields,omitempty"`
}

// NewRecord is a convenience constructor for tests and literals.
func NewRecord(key string, fields map[string]any) Record {
	return Record{Key: key, Fields: fields}
}

// Has reports whether the field is present and non-nil.
func (r Record) Has(name string) bool {
	v, ok := r.Fields[name]
	return ok && v != nil
}

// Number returns the numeric value of a field. The boolean is false when the
// field is missing. A present field that cannot be read as a number is an
// INVALID_INPUT error naming the key and field.
func (r Record) Number(name string) (float64, bool, error) {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return 0, false, nil
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false, r.typeError(name, v)
		}
		f = n
	case time.Time:
		f = scale.Seconds(x)
	default:
		return 0, false, r.typeError(name, v)
	}
	if math.IsNaN(f) {
		return 0, false, nil
	}
	if math.IsInf(f, 0) {
		return 0, false, r.typeError(name, v)
	}
	return f, true, nil
}

// String returns the textual value of a field. Numbers are formatted in
// their shortest form.
func (r Record) String(name string) (string, bool) {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case json.Number:
		return x.String(), true
	case bool:
		return strconv.FormatBool(x), true
	case time.Time:
		return x.UTC().Format(time.RFC3339), true
	}
	return "", false
}

// timeLayouts are tried in order when a time field is a string.
var timeLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// Time returns the instant held by a field. Strings are parsed as RFC 3339 or
// a bare date; numbers are seconds since the Unix epoch.
func (r Record) Time(name string) (time.Time, bool, error) {
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return time.Time{}, false, nil
	}
	switch x := v.(type) {
	case time.Time:
		return x, true, nil
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true, nil
			}
		}
		return time.Time{}, false, r.typeError(name, v)
	}
	f, ok, err := r.Number(name)
	if err != nil || !ok {
		return time.Time{}, ok, err
	}
	return scale.FromSeconds(f), true, nil
}

// Value reads a field as a continuous coordinate for the given scale kind.
// Time fields are converted to seconds.
func (r Record) Value(f Field) (float64, bool, error) {
	if f.Scale == scale.KindTime {
		t, ok, err := r.Time(f.Name)
		if err != nil || !ok {
			return 0, ok, err
		}
		return scale.Seconds(t), true, nil
	}
	return r.Number(f.Name)
}

func (r Record) typeError(name string, v any) *errors.Error {
	e := errors.New(errors.ErrCodeInvalidInput, "record %q field %q has unusable value %v (%T)", r.Key, name, v, v)
	e.Key = r.Key
	e.Field = name
	return e
}
