package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wykop-sdk/wykop-go/internal/text"
)

// Result is a parsed API payload. It is immutable: accessors return copies.
//
// Numbers are held as int when they fit and float64 otherwise, which is the
// representation jq queries operate on.
type Result struct {
	raw   []byte
	value any
}

// NewResult parses a JSON document into a Result.
func NewResult(raw []byte) (*Result, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	normalized, err := normalizeNumbers(v)
	if err != nil {
		return nil, err
	}
	return &Result{raw: append([]byte(nil), raw...), value: normalized}, nil
}

// Value returns a deep copy of the payload.
func (r *Result) Value() any {
	return deepCopy(r.value)
}

// Raw returns a copy of the JSON document the result was parsed from.
func (r *Result) Raw() []byte {
	return append([]byte(nil), r.raw...)
}

// Decode unmarshals the payload into v.
func (r *Result) Decode(v any) error {
	if err := json.Unmarshal(r.raw, v); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

// Get walks the payload by object keys (string) and array indexes (int).
func (r *Result) Get(path ...any) (any, bool) {
	cur := r.value
	for _, key := range path {
		switch k := key.(type) {
		case string:
			m, ok := cur.(map[string]any)
			if !ok {
				return nil, false
			}
			cur, ok = m[k]
			if !ok {
				return nil, false
			}
		case int:
			arr, ok := cur.([]any)
			if !ok || k < 0 || k >= len(arr) {
				return nil, false
			}
			cur = arr[k]
		default:
			return nil, false
		}
	}
	return deepCopy(cur), true
}

// String returns the scalar at path as text, or "" when the path is
// missing or does not hold a scalar.
func (r *Result) String(path ...any) string {
	v, ok := r.Get(path...)
	if !ok {
		return ""
	}
	switch v.(type) {
	case map[string]any, []any:
		return ""
	}
	s, err := text.ToText(v)
	if err != nil {
		return ""
	}
	return s
}

// MarshalJSON returns the original document.
func (r *Result) MarshalJSON() ([]byte, error) {
	if r == nil || r.raw == nil {
		return []byte("null"), nil
	}
	return r.Raw(), nil
}

func normalizeNumbers(v any) (any, error) {
	switch x := v.(type) {
	case json.Number:
		return normalizeNumber(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			n, err := normalizeNumbers(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			n, err := normalizeNumbers(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}

func normalizeNumber(n json.Number) (any, error) {
	if i, err := strconv.ParseInt(string(n), 10, 0); err == nil {
		return int(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", n, err)
	}
	return f, nil
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = deepCopy(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
