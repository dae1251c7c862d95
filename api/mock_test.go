package api

import (
	"context"
	"net/http"
)

type recordedRequest struct {
	URL     string
	Data    map[string]string
	Headers http.Header
	Files   map[string]File
}

// mockRequester replays canned responses in order; the last one repeats.
type mockRequester struct {
	responses []mockResponse
	calls     []recordedRequest
}

type mockResponse struct {
	body string
	err  error
}

func newMockRequester(bodies ...string) *mockRequester {
	m := &mockRequester{}
	for _, b := range bodies {
		m.responses = append(m.responses, mockResponse{body: b})
	}
	return m
}

func (m *mockRequester) MakeRequest(_ context.Context, url string, data map[string]string, headers http.Header, files map[string]File) (string, error) {
	m.calls = append(m.calls, recordedRequest{URL: url, Data: data, Headers: headers, Files: files})
	if len(m.responses) == 0 {
		return "{}", nil
	}
	i := len(m.calls) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i].body, m.responses[i].err
}

func testConfig() Config {
	return Config{AppKey: "123456app", SecretKey: "654321secret"}
}

func newTestClient(r Requester, opts ...Option) *Client {
	return New(testConfig(), append([]Option{WithRequester(r), WithUserAgent("wykop-sdk/test")}, opts...)...)
}
