package api

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// ConnectData is what the connect flow hands back to the redirect URL.
type ConnectData struct {
	AppKey string `json:"appkey"`
	Login  string `json:"login"`
	Token  string `json:"token"`
}

// ConnectParams returns the API parameters of the connect URL: "secure" is
// the signature of redirect and "redirect" its base64 form, query-escaped.
// An empty redirect omits the "redirect" parameter.
func (c *Client) ConnectParams(redirect string) Params {
	params := Params{"secure": sign(c.SecretKey, redirect, nil)}
	if redirect != "" {
		params["redirect"] = url.QueryEscape(base64.StdEncoding.EncodeToString([]byte(redirect)))
	}
	return params
}

// ConnectURL returns the URL a user visits to grant the application access.
func (c *Client) ConnectURL(redirect string) (string, error) {
	return c.ConstructURL("login", "connect", nil, c.ConnectParams(redirect))
}

// ParseConnectData decodes the base64 payload passed to the redirect URL.
func (c *Client) ParseConnectData(data string) (ConnectData, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(data))
	if err != nil {
		return ConnectData{}, fmt.Errorf("decode connect data: %w", err)
	}
	res, err := c.parser.Parse(string(decoded))
	if err != nil {
		return ConnectData{}, err
	}
	var out ConnectData
	if err := res.Decode(&out); err != nil {
		return ConnectData{}, err
	}
	return out, nil
}
