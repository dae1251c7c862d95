package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"resty.dev/v3"
)

// RestyRequester is the full transport: form posts, multipart uploads and
// plain GETs over a resty client.
type RestyRequester struct {
	client *resty.Client
}

var _ Requester = (*RestyRequester)(nil)

// NewRestyRequester creates a requester with DefaultTimeout.
func NewRestyRequester() *RestyRequester {
	return NewRestyRequesterWithClient(resty.New().SetTimeout(DefaultTimeout))
}

// NewRestyRequesterWithClient wraps an existing resty client.
func NewRestyRequesterWithClient(client *resty.Client) *RestyRequester {
	return &RestyRequester{client: client}
}

// Client exposes the underlying resty client for tuning (proxies, TLS, timeouts).
func (r *RestyRequester) Client() *resty.Client {
	return r.client
}

// Close releases idle connections held by the client.
func (r *RestyRequester) Close() error {
	return r.client.Close()
}

// MakeRequest implements Requester.
func (r *RestyRequester) MakeRequest(ctx context.Context, url string, data map[string]string, headers http.Header, files map[string]File) (string, error) {
	method := requestMethod(data, files)
	logRequest(ctx, method, url, data, headers, files)

	req := r.client.R().SetContext(ctx)
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	switch {
	case len(files) > 0:
		req.SetMultipartFormData(data)
		for _, field := range fileFields(files) {
			f := files[field]
			name := fileName(f)
			req.SetMultipartFields(&resty.MultipartField{
				Name:        field,
				FileName:    name,
				ContentType: contentType(name),
				// Hide any Close method so the caller keeps ownership of the stream.
				Reader: struct{ io.Reader }{f},
			})
		}
	case len(data) > 0:
		req.SetFormData(data)
	}

	start := time.Now()
	resp, err := req.Execute(method, url)
	if err != nil {
		return "", transportError(err.Error(), 0, err)
	}
	logResponse(ctx, method, url, resp.StatusCode(), start)

	if resp.IsError() {
		return "", transportError(resp.Status(), resp.StatusCode(), nil)
	}
	return resp.String(), nil
}
