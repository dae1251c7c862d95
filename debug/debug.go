// Package debug provides context-based debug mode with structured logging.
//
// Request tracing in the api package is emitted through log/slog only when
// the request context carries the debug flag.
package debug

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type contextKey string

const debugKey contextKey = "debug_enabled"

const redacted = "[redacted]"

// sensitiveFields are form fields whose values never reach the log.
var sensitiveFields = map[string]struct{}{
	"password":   {},
	"accountkey": {},
	"userkey":    {},
	"token":      {},
}

// WithDebug returns a context with debug mode enabled/disabled.
func WithDebug(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, debugKey, enabled)
}

// IsEnabled returns true if debug mode is enabled in the context.
func IsEnabled(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(debugKey).(bool); ok {
		return v
	}
	return false
}

// SetupLogger configures slog based on debug mode.
func SetupLogger(debugEnabled bool) {
	SetupLoggerTo(os.Stderr, debugEnabled)
}

// SetupLoggerTo is SetupLogger with an explicit destination.
func SetupLoggerTo(w io.Writer, debugEnabled bool) {
	var level slog.Level
	if debugEnabled {
		level = slog.LevelDebug
	} else {
		level = slog.LevelWarn
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}

// RedactForm returns a copy of form data with credential values masked.
func RedactForm(data map[string]string) map[string]string {
	if data == nil {
		return nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		if _, ok := sensitiveFields[strings.ToLower(k)]; ok && v != "" {
			out[k] = redacted
			continue
		}
		out[k] = v
	}
	return out
}

// RedactURL masks credential values embedded in an API path, both in the
// flat "userkey,<key>" form and the segment "userkey/<key>" form.
func RedactURL(rawURL string) string {
	segments := strings.Split(rawURL, "/")
	maskNext := false
	for i, seg := range segments {
		tokens := strings.Split(seg, ",")
		for j, tok := range tokens {
			if maskNext {
				maskNext = false
				if tok != "" {
					tokens[j] = redacted
				}
				continue
			}
			_, maskNext = sensitiveFields[strings.ToLower(tok)]
		}
		segments[i] = strings.Join(tokens, ",")
	}
	return strings.Join(segments, "/")
}
