package api

import (
	"github.com/wykop-sdk/wykop-go/internal/text"
)

// Resolver turns a server error code and message into an *Error.
type Resolver struct {
	kinds    map[int]ErrorKind
	encoding string
}

// NewResolver creates a resolver over a code table. messageEncoding names
// the encoding RawMessage is produced in; empty means UTF-8.
func NewResolver(kinds map[int]ErrorKind, messageEncoding string) *Resolver {
	copied := make(map[int]ErrorKind, len(kinds))
	for code, kind := range kinds {
		copied[code] = kind
	}
	if messageEncoding == "" {
		messageEncoding = text.UTF8
	}
	return &Resolver{kinds: copied, encoding: messageEncoding}
}

// DefaultResolver resolves against DefaultKinds with UTF-8 messages.
func DefaultResolver() *Resolver {
	return NewResolver(DefaultKinds, text.UTF8)
}

// Encoding returns the message encoding name.
func (r *Resolver) Encoding() string {
	return r.encoding
}

// Kind returns the kind registered for code, or def.
func (r *Resolver) Kind(code int, def ErrorKind) ErrorKind {
	if kind, ok := r.kinds[code]; ok {
		return kind
	}
	return def
}

// Message encodes msg in the resolver's encoding. Messages the encoding
// cannot represent are kept as UTF-8.
func (r *Resolver) Message(msg any) []byte {
	if b, err := text.ToBytes(msg, r.encoding); err == nil {
		return b
	}
	if b, err := text.ToBytes(msg, text.UTF8); err == nil {
		return b
	}
	return []byte(text.MustText(msg))
}

// Resolve builds the error for code. It never fails.
func (r *Resolver) Resolve(code int, msg any, def ErrorKind) *Error {
	return &Error{
		Code:       code,
		Kind:       r.Kind(code, def),
		Message:    displayMessage(msg),
		RawMessage: r.Message(msg),
	}
}

func displayMessage(msg any) string {
	s, err := text.ToText(msg)
	if err != nil {
		if b, ok := msg.([]byte); ok {
			return string(b)
		}
		return ""
	}
	return s
}
