package api

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// BasicRequester sends form posts and GETs with net/http. It cannot upload
// files.
type BasicRequester struct {
	HTTP *http.Client
}

var _ Requester = (*BasicRequester)(nil)

// NewBasicRequester creates a requester with DefaultTimeout and TLS 1.2+.
func NewBasicRequester() *BasicRequester {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	return &BasicRequester{
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
	}
}

// MakeRequest implements Requester. Files are rejected with
// ErrFilesNotSupported before anything is sent.
func (r *BasicRequester) MakeRequest(ctx context.Context, rawURL string, data map[string]string, headers http.Header, files map[string]File) (string, error) {
	if len(files) > 0 {
		return "", ErrFilesNotSupported
	}

	method := requestMethod(data, files)
	logRequest(ctx, method, rawURL, data, headers, files)

	var body io.Reader
	if len(data) > 0 {
		form := url.Values{}
		for k, v := range data {
			form.Set(k, v)
		}
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	client := r.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return "", transportError(connectionReason(err), 0, err)
	}
	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return "", transportError(err.Error(), resp.StatusCode, err)
	}
	logResponse(ctx, method, rawURL, resp.StatusCode, start)

	if resp.StatusCode >= 400 {
		return "", transportError(strconv.Itoa(resp.StatusCode), resp.StatusCode, nil)
	}
	return string(respBody), nil
}

// connectionReason strips the "Get \"url\": " prefix net/http adds.
func connectionReason(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
