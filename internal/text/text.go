// Package text coerces arbitrary values to text or encoded bytes so request
// signing and wire encoding always see the same representation.
package text

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
)

// UTF8 is the default encoding name.
const UTF8 = "utf-8"

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// ErrInvalidUTF8 is returned when a byte slice that should hold UTF-8 text does not.
var ErrInvalidUTF8 = errors.New("invalid UTF-8 text")

// UnsupportedEncodingError is returned for encoding names that cannot be resolved.
type UnsupportedEncodingError struct {
	Name string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("unsupported encoding %q", e.Name)
}

// ToText returns the canonical text form of v.
//
// Strings pass through, byte slices must be valid UTF-8, dates use the
// API's "2006-01-02" form (with the clock appended when set), numbers and
// booleans go through strconv and nil becomes the empty string.
func ToText(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case []byte:
		if !utf8.Valid(x) {
			return "", ErrInvalidUTF8
		}
		return string(x), nil
	case error:
		return errorText(x)
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case time.Time:
		return formatTime(x), nil
	case *time.Time:
		if x == nil {
			return "", nil
		}
		return formatTime(*x), nil
	case fmt.Stringer:
		return x.String(), nil
	default:
		return fmt.Sprint(x), nil
	}
}

// MustText is ToText for values known to be representable; failures yield "".
func MustText(v any) string {
	s, err := ToText(v)
	if err != nil {
		return ""
	}
	return s
}

// ToBytes returns v encoded in the named encoding.
//
// Byte slices are assumed to hold UTF-8 and are only transcoded when the
// target encoding is not UTF-8. Runes the target encoding cannot represent
// are an error.
func ToBytes(v any, encodingName string) ([]byte, error) {
	enc, err := Lookup(encodingName)
	if err != nil {
		return nil, err
	}

	switch x := v.(type) {
	case []byte:
		if enc == nil {
			return x, nil
		}
		if !utf8.Valid(x) {
			return nil, ErrInvalidUTF8
		}
		return encodeString(enc, string(x))
	case error:
		return errorBytes(x, enc)
	}

	s, err := ToText(v)
	if err != nil {
		return nil, err
	}
	return encodeString(enc, s)
}

// Lookup resolves an IANA encoding name. A nil encoding means UTF-8.
func Lookup(name string) (encoding.Encoding, error) {
	if IsUTF8(name) {
		return nil, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, &UnsupportedEncodingError{Name: name}
	}
	return enc, nil
}

// IsUTF8 reports whether name refers to UTF-8. The empty name does.
func IsUTF8(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return true
	}
	return false
}

func encodeString(enc encoding.Encoding, s string) ([]byte, error) {
	if enc == nil {
		return []byte(s), nil
	}
	out, err := enc.NewEncoder().String(s)
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}
	return []byte(out), nil
}

func formatTime(t time.Time) string {
	h, m, s := t.Clock()
	if h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(dateTimeLayout)
}

// errorText falls back to joining the wrapped errors with a space when the
// message itself is not valid text.
func errorText(err error) (string, error) {
	msg := err.Error()
	if utf8.ValidString(msg) {
		return msg, nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return "", ErrInvalidUTF8
	}
	parts := make([]string, 0, len(joined.Unwrap()))
	for _, sub := range joined.Unwrap() {
		s, err := errorText(sub)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " "), nil
}

func errorBytes(err error, enc encoding.Encoding) ([]byte, error) {
	out, encErr := encodeString(enc, err.Error())
	if encErr == nil {
		return out, nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return nil, encErr
	}
	parts := make([][]byte, 0, len(joined.Unwrap()))
	for _, sub := range joined.Unwrap() {
		b, err := errorBytes(sub, enc)
		if err != nil {
			return nil, err
		}
		parts = append(parts, b)
	}
	return joinBytes(parts, ' '), nil
}

func joinBytes(parts [][]byte, sep byte) []byte {
	var out []byte
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p...)
	}
	return out
}
