package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

// fieldReader pulls typed values out of a decoded JSON object and collects
// every failure instead of stopping at the first one.
type fieldReader struct {
	in   map[string]any
	errs []FieldError
}

func newFieldReader(in map[string]any) *fieldReader {
	if in == nil {
		in = map[string]any{}
	}
	return &fieldReader{in: in}
}

func (r *fieldReader) fail(field, typ, format string, args ...any) {
	r.errs = append(r.errs, FieldError{Field: field, Type: typ, Message: fmt.Sprintf(format, args...)})
}

func (r *fieldReader) result(entity string) error {
	if len(r.errs) == 0 {
		return nil
	}
	return &ValidationError{Entity: entity, Fields: r.errs}
}

// lookup returns the raw value and whether it is present and non-null.
func (r *fieldReader) lookup(name string) (any, bool) {
	v, ok := r.in[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (r *fieldReader) requiredString(name string, nonEmpty bool) string {
	v, ok := r.lookup(name)
	if !ok {
		r.fail(name, "missing", "field required")
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail(name, "string_type", "input should be a valid string")
		return ""
	}
	if nonEmpty && s == "" {
		r.fail(name, "string_too_short", "string should not be empty")
		return ""
	}
	return s
}

func (r *fieldReader) optionalString(name string) *string {
	v, ok := r.lookup(name)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		r.fail(name, "string_type", "input should be a valid string")
		return nil
	}
	return &s
}

// stringList never returns nil; absent or null yields an empty slice.
func (r *fieldReader) stringList(name string) []string {
	out := []string{}
	v, ok := r.lookup(name)
	if !ok {
		return out
	}

	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []string:
		return append(out, t...)
	default:
		r.fail(name, "list_type", "input should be a valid list")
		return out
	}

	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			r.fail(fmt.Sprintf("%s.%d", name, i), "string_type", "input should be a valid string")
			continue
		}
		out = append(out, s)
	}
	return out
}

func (r *fieldReader) boolOr(name string, def bool) bool {
	v, ok := r.lookup(name)
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		r.fail(name, "bool_type", "input should be a valid boolean")
		return def
	}
	return b
}

func (r *fieldReader) requiredNumber(name string, min float64) float64 {
	v, ok := r.lookup(name)
	if !ok {
		r.fail(name, "missing", "field required")
		return 0
	}
	f, ok := toFloat(v)
	if !ok {
		r.fail(name, "float_type", "input should be a valid number")
		return 0
	}
	if f < min {
		r.fail(name, "greater_than_equal", "input should be greater than or equal to %g", min)
	}
	return f
}

func (r *fieldReader) optionalIntRange(name string, min, max int) *int {
	v, ok := r.lookup(name)
	if !ok {
		return nil
	}
	f, ok := toFloat(v)
	if !ok || f != math.Trunc(f) {
		r.fail(name, "int_type", "input should be a valid integer")
		return nil
	}
	// compared as floats since int(f) is undefined outside the int range
	if f < float64(min) {
		r.fail(name, "greater_than_equal", "input should be greater than or equal to %d", min)
		return nil
	}
	if f > float64(max) {
		r.fail(name, "less_than_equal", "input should be less than or equal to %d", max)
		return nil
	}
	n := int(f)
	return &n
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
