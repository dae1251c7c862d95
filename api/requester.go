package api

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"time"

	"github.com/wykop-sdk/wykop-go/debug"
)

// DefaultTimeout bounds a single request made by the bundled requesters.
const DefaultTimeout = 30 * time.Second

const defaultContentType = "application/octet-stream"

// File is an upload: a readable stream with a filename. *os.File satisfies it.
// Requesters read files but never close them.
type File interface {
	io.Reader
	Name() string
}

type namedReader struct {
	io.Reader
	name string
}

func (n namedReader) Name() string { return n.name }

// NewFile wraps r as a File named name.
func NewFile(name string, r io.Reader) File {
	return namedReader{Reader: r, name: name}
}

// Requester performs one HTTP exchange and returns the response body.
//
// Implementations send a POST when data or files are present and a GET
// otherwise. Transport failures are returned as *Error with a Reason.
type Requester interface {
	MakeRequest(ctx context.Context, url string, data map[string]string, headers http.Header, files map[string]File) (string, error)
}

func requestMethod(data map[string]string, files map[string]File) string {
	if len(data) > 0 || len(files) > 0 {
		return http.MethodPost
	}
	return http.MethodGet
}

// fileName returns the base name of an upload, as sent in the multipart header.
func fileName(f File) string {
	return filepath.Base(f.Name())
}

func contentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return defaultContentType
}

func fileFields(files map[string]File) []string {
	fields := make([]string, 0, len(files))
	for field := range files {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}

func logRequest(ctx context.Context, method, url string, data map[string]string, headers http.Header, files map[string]File) {
	if !debug.IsEnabled(ctx) {
		return
	}
	slog.Debug("wykop request",
		"method", method,
		"url", debug.RedactURL(url),
		"data", debug.RedactForm(data),
		"headers", headers,
		"files", fileFields(files),
	)
}

func logResponse(ctx context.Context, method, url string, status int, start time.Time) {
	if !debug.IsEnabled(ctx) {
		return
	}
	slog.Debug("wykop response", "method", method, "url", debug.RedactURL(url), "status", status, "duration", time.Since(start))
}
