package api

import (
	"errors"
	"fmt"
)

// Error is returned for every failure the API reports and for every
// transport failure. Callers discriminate on Kind, usually through
// errors.Is with one of the sentinels below or IsKind.
type Error struct {
	// Code is the server error code, 0 for client-side failures.
	Code int
	Kind ErrorKind
	// Message is the server message as UTF-8 text.
	Message string
	// RawMessage is Message encoded in the resolver's message encoding.
	RawMessage []byte
	// Reason describes a transport failure (HTTP status or network error).
	Reason string
	// StatusCode is the HTTP status for transport failures caused by one.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.Reason != "":
		return fmt.Sprintf("wykop api error: %s", e.Reason)
	case e.Code != 0:
		return fmt.Sprintf("wykop api error %d (%s): %s", e.Code, e.Kind, e.Message)
	case e.Message != "":
		return fmt.Sprintf("wykop api error (%s): %s", e.kind(), e.Message)
	default:
		return fmt.Sprintf("wykop api error (%s)", e.kind())
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind() == t.kind()
}

// Suggestion returns the kind's suggestion.
func (e *Error) Suggestion() string {
	return e.kind().Suggestion()
}

func (e *Error) kind() ErrorKind {
	if e.Kind == "" {
		return KindAPI
	}
	return e.Kind
}

// Sentinels for errors.Is. They carry only a kind.
var (
	ErrAPI                = &Error{Kind: KindAPI}
	ErrCredentialsNotSet  = &Error{Kind: KindCredentialsNotSet}
	ErrInvalidUserKey     = &Error{Kind: KindInvalidUserKey}
	ErrInvalidSessionKey  = &Error{Kind: KindInvalidSessionKey}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrDailyRequestLimit  = &Error{Kind: KindDailyRequestLimit}
	ErrInvalidAPISign     = &Error{Kind: KindInvalidAPISign}
)

// ErrFilesNotSupported is returned by requesters that cannot send multipart bodies.
var ErrFilesNotSupported = fmt.Errorf("file upload needs a multipart-capable requester: %w", errors.ErrUnsupported)

// ErrSessionNotSaved wraps a session store failure after a successful
// login. The session key is still held by the client.
var ErrSessionNotSaved = errors.New("session key not saved")

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.kind() == kind
}

// KindOf returns the kind of err, or "" if err is not an *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.kind()
}

// IsAPIError checks if the error is an *Error of any kind.
func IsAPIError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}

// IsTransportError checks if the error came from the requester rather than the server.
func IsTransportError(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Reason != ""
}

func transportError(reason string, statusCode int, err error) *Error {
	return &Error{
		Kind:       KindAPI,
		Reason:     reason,
		StatusCode: statusCode,
		Err:        err,
	}
}
