package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	Method      string
	Path        string
	ContentType string
	APISign     string
	UserAgent   string
	Form        map[string]string
	Files       map[string]capturedFile
}

type capturedFile struct {
	Name        string
	ContentType string
	Content     string
}

func captureServer(t *testing.T, status int, body string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.Method = r.Method
		captured.Path = r.URL.Path
		captured.ContentType = r.Header.Get("Content-Type")
		captured.APISign = r.Header.Get(HeaderAPISign)
		captured.UserAgent = r.Header.Get(HeaderUserAgent)
		captured.Form = map[string]string{}
		captured.Files = map[string]capturedFile{}

		if strings.HasPrefix(captured.ContentType, "multipart/form-data") {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("parse multipart: %v", err)
			}
			for k, v := range r.MultipartForm.Value {
				captured.Form[k] = v[0]
			}
			for field, headers := range r.MultipartForm.File {
				f, err := headers[0].Open()
				if err != nil {
					t.Errorf("open part: %v", err)
					continue
				}
				content, _ := io.ReadAll(f)
				_ = f.Close()
				captured.Files[field] = capturedFile{
					Name:        headers[0].Filename,
					ContentType: headers[0].Header.Get("Content-Type"),
					Content:     string(content),
				}
			}
		} else if r.Method == http.MethodPost {
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			for k, v := range r.PostForm {
				captured.Form[k] = v[0]
			}
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func signedHeaders() http.Header {
	h := http.Header{}
	h.Set(HeaderAPISign, "sig")
	h.Set(HeaderUserAgent, "wykop-sdk/test")
	return h
}

// closeTracker records whether anything closed the stream.
type closeTracker struct {
	io.Reader
	name   string
	closed bool
}

func (c *closeTracker) Name() string { return c.name }
func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func requesters() map[string]func() Requester {
	return map[string]func() Requester{
		"resty": func() Requester { return NewRestyRequester() },
		"basic": func() Requester { return NewBasicRequester() },
	}
}

func TestRequesters_GetWithoutData(t *testing.T) {
	for name, newRequester := range requesters() {
		t.Run(name, func(t *testing.T) {
			srv, captured := captureServer(t, http.StatusOK, `{"data":"data"}`)

			body, err := newRequester().MakeRequest(context.Background(), srv.URL+"/rtype/rmethod/appkey,a", nil, signedHeaders(), nil)

			require.NoError(t, err)
			assert.Equal(t, `{"data":"data"}`, body)
			assert.Equal(t, http.MethodGet, captured.Method)
			assert.Equal(t, "/rtype/rmethod/appkey,a", captured.Path)
			assert.Equal(t, "sig", captured.APISign)
			assert.Equal(t, "wykop-sdk/test", captured.UserAgent)
		})
	}
}

func TestRequesters_PostForm(t *testing.T) {
	for name, newRequester := range requesters() {
		t.Run(name, func(t *testing.T) {
			srv, captured := captureServer(t, http.StatusOK, `[]`)

			_, err := newRequester().MakeRequest(context.Background(), srv.URL+"/search/entries/", map[string]string{"q": "zażółć", "page": "2"}, signedHeaders(), nil)

			require.NoError(t, err)
			assert.Equal(t, http.MethodPost, captured.Method)
			assert.True(t, strings.HasPrefix(captured.ContentType, "application/x-www-form-urlencoded"), captured.ContentType)
			assert.Equal(t, map[string]string{"q": "zażółć", "page": "2"}, captured.Form)
		})
	}
}

func TestRequesters_HTTPErrorStatus(t *testing.T) {
	for name, newRequester := range requesters() {
		t.Run(name, func(t *testing.T) {
			srv, _ := captureServer(t, http.StatusNotFound, `nope`)

			_, err := newRequester().MakeRequest(context.Background(), srv.URL+"/x", nil, signedHeaders(), nil)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, KindAPI, apiErr.Kind)
			assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
			assert.Contains(t, apiErr.Reason, "404")
			assert.True(t, IsTransportError(err))
		})
	}
}

func TestRequesters_ConnectionError(t *testing.T) {
	for name, newRequester := range requesters() {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.NotFoundHandler())
			url := srv.URL
			srv.Close()

			_, err := newRequester().MakeRequest(context.Background(), url+"/x", nil, signedHeaders(), nil)

			assert.True(t, IsTransportError(err))
			assert.ErrorIs(t, err, ErrAPI)
		})
	}
}

func TestRestyRequester_Multipart(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, `{"ok":true}`)
	r := NewRestyRequester()
	t.Cleanup(func() { _ = r.Close() })
	embed := &closeTracker{Reader: strings.NewReader("PNGDATA"), name: "/tmp/uploads/kot.png"}

	body, err := r.MakeRequest(context.Background(), srv.URL+"/entries/add/", map[string]string{"body": "tekst"}, signedHeaders(), map[string]File{"embed": embed})

	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, body)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "tekst", captured.Form["body"])
	require.Contains(t, captured.Files, "embed")
	assert.Equal(t, "kot.png", captured.Files["embed"].Name)
	assert.Equal(t, "image/png", captured.Files["embed"].ContentType)
	assert.Equal(t, "PNGDATA", captured.Files["embed"].Content)
	assert.False(t, embed.closed)
}

func TestRestyRequester_FilesOnlyIsPost(t *testing.T) {
	srv, captured := captureServer(t, http.StatusOK, `{}`)

	_, err := NewRestyRequester().MakeRequest(context.Background(), srv.URL+"/x", nil, signedHeaders(),
		map[string]File{"embed": NewFile("data.unknownext", strings.NewReader("x"))})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "application/octet-stream", captured.Files["embed"].ContentType)
}

func TestBasicRequester_RejectsFilesWithoutNetwork(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	t.Cleanup(srv.Close)
	files := map[string]File{"embed": NewFile("kot.png", strings.NewReader("x"))}

	_, err := NewBasicRequester().MakeRequest(context.Background(), srv.URL+"/entries/add/", map[string]string{"body": "b"}, signedHeaders(), files)

	assert.ErrorIs(t, err, ErrFilesNotSupported)
	assert.ErrorIs(t, err, errors.ErrUnsupported)
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_FilesThroughBasicRequester(t *testing.T) {
	c := newTestClient(NewBasicRequester())

	_, err := c.Request(context.Background(), Request{
		Type:  "entries",
		Files: map[string]File{"embed": NewFile("kot.png", strings.NewReader("x"))},
	})

	assert.ErrorIs(t, err, ErrFilesNotSupported)
}

func TestBasicRequester_ContextCanceled(t *testing.T) {
	srv, _ := captureServer(t, http.StatusOK, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBasicRequester().MakeRequest(ctx, srv.URL, nil, signedHeaders(), nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, IsTransportError(err))
}

func TestRequestMethod(t *testing.T) {
	assert.Equal(t, http.MethodGet, requestMethod(nil, nil))
	assert.Equal(t, http.MethodPost, requestMethod(map[string]string{"a": "b"}, nil))
	assert.Equal(t, http.MethodPost, requestMethod(nil, map[string]File{"f": NewFile("a", strings.NewReader(""))}))
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", contentType("kot.png"))
	assert.Equal(t, "application/octet-stream", contentType("noext"))
}
