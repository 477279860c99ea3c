package testparser

import (
	"encoding/json"
	"strconv"
)

// Fields is the key/value capability every JSON object node exposes.
type Fields interface {
	Lookup(key string) (any, bool)
}

// object adapts a decoded JSON object to Fields.
type object map[string]any

func (o object) Lookup(key string) (any, bool) {
	v, ok := o[key]
	return v, ok
}

// accessor extracts a non-empty string from a node, reporting false when
// the field is missing, falsy or not a scalar.
type accessor func(Fields) (string, bool)

// stringField reads a scalar field and renders it as text.
func stringField(key string) accessor {
	return func(f Fields) (string, bool) {
		v, ok := f.Lookup(key)
		if !ok {
			return "", false
		}
		return scalarText(v)
	}
}

// stringFields builds one accessor per key, preserving order.
func stringFields(keys []string) []accessor {
	out := make([]accessor, 0, len(keys))
	for _, k := range keys {
		out = append(out, stringField(k))
	}
	return out
}

// firstOf returns the first accessor that yields a value.
func firstOf(f Fields, accessors []accessor) (string, bool) {
	for _, get := range accessors {
		if s, ok := get(f); ok {
			return s, true
		}
	}
	return "", false
}

// listField returns the first field among keys holding a JSON array.
func listField(f Fields, keys []string) ([]any, bool) {
	for _, k := range keys {
		v, ok := f.Lookup(k)
		if !ok {
			continue
		}
		if list, ok := v.([]any); ok {
			return list, true
		}
	}
	return nil, false
}

// truthyField returns the first field among keys whose value is truthy.
func truthyField(f Fields, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := f.Lookup(k); ok && truthy(v) {
			return v, true
		}
	}
	return nil, false
}

// scalarText renders a truthy scalar. Zero values, empty strings, false,
// null and containers report false.
func scalarText(v any) (string, bool) {
	if !truthy(v) {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), true
	case bool:
		return "True", true
	default:
		return "", false
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case json.Number:
		f, err := t.Float64()
		return err != nil || f != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// asObject returns v as Fields when it is a JSON object.
func asObject(v any) (Fields, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return object(m), true
}
