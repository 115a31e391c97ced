package amalgam

import (
	"github.com/amalgam-lang/amalgam-go/domain/errors"
)

// Result is a decoded JSON object returned by a label.
type Result map[string]any

// String returns the string stored at key.
func (r Result) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Int returns the number stored at key as an int.
// JSON numbers decode as float64; fractional values are truncated.
func (r Result) Int(key string) (int, bool) {
	v, ok := r[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// Float returns the number stored at key.
func (r Result) Float(key string) (float64, bool) {
	v, ok := r[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// Bool returns the bool stored at key.
func (r Result) Bool(key string) (bool, bool) {
	v, ok := r[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// Strings returns the list of strings stored at key.
func (r Result) Strings(key string) ([]string, bool) {
	arr, ok := r[key].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// Object returns the nested object stored at key.
func (r Result) Object(key string) (Result, bool) {
	m, ok := r[key].(map[string]any)
	return Result(m), ok
}

// MustString is String for required fields.
func (r Result) MustString(key string) (string, error) {
	s, ok := r.String(key)
	if !ok {
		return "", &errors.ResultFieldError{Field: key, Want: "string"}
	}
	return s, nil
}

// MustInt is Int for required fields.
func (r Result) MustInt(key string) (int, error) {
	i, ok := r.Int(key)
	if !ok {
		return 0, &errors.ResultFieldError{Field: key, Want: "int"}
	}
	return i, nil
}

// MustFloat is Float for required fields.
func (r Result) MustFloat(key string) (float64, error) {
	f, ok := r.Float(key)
	if !ok {
		return 0, &errors.ResultFieldError{Field: key, Want: "float"}
	}
	return f, nil
}

// MustBool is Bool for required fields.
func (r Result) MustBool(key string) (bool, error) {
	b, ok := r.Bool(key)
	if !ok {
		return false, &errors.ResultFieldError{Field: key, Want: "bool"}
	}
	return b, nil
}

// StringOr returns the string at key or def.
func (r Result) StringOr(key, def string) string {
	if s, ok := r.String(key); ok {
		return s
	}
	return def
}

// IntOr returns the int at key or def.
func (r Result) IntOr(key string, def int) int {
	if i, ok := r.Int(key); ok {
		return i
	}
	return def
}

// BoolOr returns the bool at key or def.
func (r Result) BoolOr(key string, def bool) bool {
	if b, ok := r.Bool(key); ok {
		return b
	}
	return def
}
