package api

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/wykop-sdk/wykop-go/internal/text"
)

// Params maps request parameter names to values. Values are stringified
// before use: strings pass through, numbers and dates get their canonical
// text form.
type Params map[string]any

// Strings returns the parameters with every value converted to text.
func (p Params) Strings() (map[string]string, error) {
	out := make(map[string]string, len(p))
	for k, v := range p {
		s, err := text.ToText(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		out[k] = s
	}
	return out, nil
}

// Compact returns a copy without falsy values: nil, "", false, numeric
// zero and empty slices or maps.
func (p Params) Compact() Params {
	out := make(Params, len(p))
	for k, v := range p {
		if isFalsy(v) {
			continue
		}
		out[k] = v
	}
	return out
}

func isFalsy(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return rv.IsZero()
	case reflect.String, reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// ParamEncoder renders API parameters as URL path segments.
//
// Neither encoder escapes values: a value containing "," or "/" corrupts
// the resulting path.
type ParamEncoder interface {
	Encode(params map[string]string) []string
}

// FlatEncoder is the v1 scheme: a single "k1,v1,k2,v2" segment with keys
// sorted. Empty values are kept.
type FlatEncoder struct{}

// Encode implements ParamEncoder. It always yields exactly one segment.
func (FlatEncoder) Encode(params map[string]string) []string {
	return []string{EncodeFlat(params)}
}

// SegmentEncoder is the v2 scheme: alternating key and value segments with
// keys sorted. Pairs with an empty value are dropped.
type SegmentEncoder struct{}

// Encode implements ParamEncoder.
func (SegmentEncoder) Encode(params map[string]string) []string {
	segments := make([]string, 0, len(params)*2)
	for _, k := range sortedKeys(params) {
		v := params[k]
		if v == "" {
			continue
		}
		segments = append(segments, k, v)
	}
	return segments
}

// EncodeFlat joins params as "k1,v1,k2,v2,..." sorted by key.
func EncodeFlat(params map[string]string) string {
	parts := make([]string, 0, len(params))
	for _, k := range sortedKeys(params) {
		parts = append(parts, k+","+params[k])
	}
	return strings.Join(parts, ",")
}

// DecodeFlat is the inverse of EncodeFlat for values without ",".
func DecodeFlat(segment string) (map[string]string, error) {
	out := map[string]string{}
	if segment == "" {
		return out, nil
	}
	tokens := strings.Split(segment, ",")
	if len(tokens)%2 != 0 {
		return nil, fmt.Errorf("flat parameters %q: odd number of tokens (%d)", segment, len(tokens))
	}
	for i := 0; i < len(tokens); i += 2 {
		out[tokens[i]] = tokens[i+1]
	}
	return out, nil
}

// DecodeSegments is the inverse of SegmentEncoder.Encode.
func DecodeSegments(segments []string) (map[string]string, error) {
	if len(segments)%2 != 0 {
		return nil, fmt.Errorf("segment parameters: odd number of segments (%d)", len(segments))
	}
	out := make(map[string]string, len(segments)/2)
	for i := 0; i < len(segments); i += 2 {
		out[segments[i]] = segments[i+1]
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stringifyAll(values []any) ([]string, error) {
	out := make([]string, 0, len(values))
	for i, v := range values {
		s, err := text.ToText(v)
		if err != nil {
			return nil, fmt.Errorf("method parameter %d: %w", i, err)
		}
		out = append(out, s)
	}
	return out, nil
}
