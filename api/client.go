package api

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/wykop-sdk/wykop-go/debug"
	"github.com/wykop-sdk/wykop-go/internal/text"
	"github.com/wykop-sdk/wykop-go/internal/version"
	"github.com/wykop-sdk/wykop-go/session"
)

// ClientName prefixes the User-Agent header.
const ClientName = "wykop-sdk"

// Header names sent with every request.
const (
	HeaderAPISign   = "apisign"
	HeaderUserAgent = "User-Agent"
)

// Config holds application credentials and response preferences.
type Config struct {
	AppKey     string
	SecretKey  string
	Login      string
	AccountKey string
	Password   string
	// Output is the API "output" parameter, empty by default.
	Output string
	// Format is the response format, "json" by default.
	Format string
	// MessageEncoding is the encoding error messages are exposed in as
	// Error.RawMessage, "utf-8" by default.
	MessageEncoding string
	// Version selects the API generation, V1 by default.
	Version APIVersion
}

// Request describes one API call.
type Request struct {
	Type         string
	Method       string
	MethodParams []any
	APIParams    Params
	PostParams   Params
	Files        map[string]File
}

// Client signs and sends API requests.
//
// The session key is not guarded by a lock: a client is meant to be used
// by one goroutine at a time.
type Client struct {
	Config

	requester Requester
	parser    Parser
	sessions  session.Store
	userAgent string
	userKey   string
}

// Option customizes a Client.
type Option func(*Client)

// WithRequester replaces the default RestyRequester.
func WithRequester(r Requester) Option {
	return func(c *Client) {
		c.requester = r
	}
}

// WithParser replaces the default JSONParser.
func WithParser(p Parser) Option {
	return func(c *Client) {
		c.parser = p
	}
}

// WithSessionStore persists the session key in s.
func WithSessionStore(s session.Store) Option {
	return func(c *Client) {
		c.sessions = s
	}
}

// WithVersion overrides Config.Version.
func WithVersion(v APIVersion) Option {
	return func(c *Client) {
		c.Version = v
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a client. Unset fields of cfg get their defaults and unset
// collaborators are the RestyRequester, a JSONParser resolving messages in
// cfg.MessageEncoding, and an in-memory session store.
func New(cfg Config, opts ...Option) *Client {
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if cfg.MessageEncoding == "" {
		cfg.MessageEncoding = text.UTF8
	}
	if cfg.Version.Name == "" {
		cfg.Version = V1
	}

	c := &Client{
		Config:    cfg,
		userAgent: ClientName + "/" + version.Get(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.requester == nil {
		c.requester = NewRestyRequester()
	}
	if c.parser == nil {
		c.parser = NewJSONParser(NewResolver(DefaultKinds, c.MessageEncoding))
	}
	if c.sessions == nil {
		c.sessions = session.NewMemory()
	}
	return c
}

// UserKey returns the current session key, empty before authentication.
func (c *Client) UserKey() string {
	return c.userKey
}

// UserAgent returns the User-Agent header value.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// Close releases the requester's resources when it holds any.
func (c *Client) Close() error {
	if closer, ok := c.requester.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// APIParams returns the default API parameters overridden by apiParams.
func (c *Client) APIParams(apiParams Params) Params {
	params := Params{
		"appkey":  c.AppKey,
		"format":  c.Format,
		"output":  c.Output,
		"userkey": c.userKey,
	}
	for k, v := range apiParams {
		params[k] = v
	}
	return params
}

// ConstructURL builds the request URL for the client's API version.
func (c *Client) ConstructURL(typ, method string, methodParams []any, apiParams Params) (string, error) {
	mparams, err := stringifyAll(methodParams)
	if err != nil {
		return "", err
	}
	all := c.APIParams(apiParams)
	if c.Version.DropFalsy {
		all = all.Compact()
	}
	params, err := all.Strings()
	if err != nil {
		return "", err
	}
	return c.Version.BaseURL() + "/" + c.Version.path(typ, method, mparams, params), nil
}

// Sign returns the apisign value: the MD5 hex digest of the secret, the
// URL and the post values ordered by key and joined with ",".
func (c *Client) Sign(url string, post Params) (string, error) {
	values, err := post.Strings()
	if err != nil {
		return "", err
	}
	return sign(c.SecretKey, url, values), nil
}

func sign(secret, url string, post map[string]string) string {
	keys := make([]string, 0, len(post))
	for k := range post {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, post[k])
	}

	sum := md5.Sum([]byte(secret + url + strings.Join(values, ",")))
	return hex.EncodeToString(sum[:])
}

// Headers returns the signed request headers.
func (c *Client) Headers(url string, post Params) (http.Header, error) {
	apisign, err := c.Sign(url, post)
	if err != nil {
		return nil, err
	}
	return c.headers(apisign), nil
}

func (c *Client) headers(apisign string) http.Header {
	h := http.Header{}
	h.Set(HeaderAPISign, apisign)
	h.Set(HeaderUserAgent, c.userAgent)
	return h
}

// Request sends req and parses the response.
func (c *Client) Request(ctx context.Context, req Request) (*Result, error) {
	body, err := c.RequestRaw(ctx, req)
	if err != nil {
		return nil, err
	}
	return c.parser.Parse(body)
}

// RequestRaw sends req and returns the unparsed response body.
func (c *Client) RequestRaw(ctx context.Context, req Request) (string, error) {
	if req.Type == "" {
		return "", errors.New("request type is required")
	}

	url, err := c.ConstructURL(req.Type, req.Method, req.MethodParams, req.APIParams)
	if err != nil {
		return "", fmt.Errorf("build url: %w", err)
	}
	post, err := req.PostParams.Strings()
	if err != nil {
		return "", fmt.Errorf("post parameters: %w", err)
	}
	for field, f := range req.Files {
		if f == nil || f.Name() == "" {
			return "", fmt.Errorf("file %q has no name", field)
		}
	}

	if debug.IsEnabled(ctx) {
		slog.Debug("making request", "type", req.Type, "method", req.Method, "version", c.Version.Name)
	}
	return c.requester.MakeRequest(ctx, url, post, c.headers(sign(c.SecretKey, url, post)), req.Files)
}

// State is a serializable snapshot of a client's configuration and session.
type State struct {
	AppKey          string `json:"appkey"`
	SecretKey       string `json:"secretkey"`
	Login           string `json:"login,omitempty"`
	AccountKey      string `json:"accountkey,omitempty"`
	Password        string `json:"password,omitempty"`
	Output          string `json:"output"`
	Format          string `json:"format"`
	MessageEncoding string `json:"message_encoding,omitempty"`
	Version         string `json:"version"`
	UserKey         string `json:"userkey"`
}

// State snapshots the client.
func (c *Client) State() State {
	return State{
		AppKey:          c.AppKey,
		SecretKey:       c.SecretKey,
		Login:           c.Login,
		AccountKey:      c.AccountKey,
		Password:        c.Password,
		Output:          c.Output,
		Format:          c.Format,
		MessageEncoding: c.MessageEncoding,
		Version:         c.Version.Name,
		UserKey:         c.userKey,
	}
}

// NewFromState recreates a client from a snapshot, session key included.
func NewFromState(s State, opts ...Option) (*Client, error) {
	v, err := VersionByName(s.Version)
	if err != nil {
		return nil, err
	}
	c := New(Config{
		AppKey:          s.AppKey,
		SecretKey:       s.SecretKey,
		Login:           s.Login,
		AccountKey:      s.AccountKey,
		Password:        s.Password,
		Output:          s.Output,
		Format:          s.Format,
		MessageEncoding: s.MessageEncoding,
		Version:         v,
	}, opts...)
	c.userKey = s.UserKey
	return c, nil
}
