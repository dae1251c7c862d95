package api

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser turns a response body into a result or the error it carries.
type Parser interface {
	Parse(body string) (*Result, error)
}

// JSONParser parses JSON bodies and maps the error envelope through a Resolver.
type JSONParser struct {
	Resolver *Resolver
}

var _ Parser = (*JSONParser)(nil)

// NewJSONParser creates a parser. A nil resolver means DefaultResolver.
func NewJSONParser(resolver *Resolver) *JSONParser {
	if resolver == nil {
		resolver = DefaultResolver()
	}
	return &JSONParser{Resolver: resolver}
}

// Parse implements Parser. A top-level "error" object wins over any other
// content; a null "error" is ignored.
func (p *JSONParser) Parse(body string) (*Result, error) {
	result, err := NewResult([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
	}

	obj, ok := result.value.(map[string]any)
	if !ok {
		return result, nil
	}
	envelope, ok := obj["error"]
	if !ok || envelope == nil {
		return result, nil
	}
	return nil, p.resolver().Resolve(errorCode(envelope), errorMessage(envelope), KindAPI)
}

func (p *JSONParser) resolver() *Resolver {
	if p.Resolver == nil {
		return DefaultResolver()
	}
	return p.Resolver
}

func errorCode(envelope any) int {
	m, ok := envelope.(map[string]any)
	if !ok {
		return 0
	}
	switch c := m["code"].(type) {
	case int:
		return c
	case float64:
		return int(c)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(c)); err == nil {
			return n
		}
	}
	return 0
}

func errorMessage(envelope any) any {
	m, ok := envelope.(map[string]any)
	if !ok {
		return envelope
	}
	if msg, ok := m["message"]; ok && msg != nil {
		return msg
	}
	if msg, ok := m["message_en"]; ok && msg != nil {
		return msg
	}
	return ""
}
