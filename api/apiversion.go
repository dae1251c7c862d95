package api

import (
	"fmt"
	"strings"
)

// LoginEndpoint describes how a version authenticates a user.
type LoginEndpoint struct {
	Type   string
	Method string
	// UserKeyQuery is the jq path that selects the session key in the response.
	UserKeyQuery string
}

// APIVersion bundles everything that differs between API generations.
type APIVersion struct {
	Name     string
	Protocol string
	Domain   string
	Encoder  ParamEncoder
	Login    LoginEndpoint
	// KeepEmptyMethod keeps an empty method as an empty path segment.
	KeepEmptyMethod bool
	// DropFalsy leaves out API params whose value is falsy before encoding.
	DropFalsy bool
	// Catalog lists the endpoints Client.Call knows about.
	Catalog []Endpoint
}

var (
	// V1 is the original API at a.wykop.pl.
	V1 = APIVersion{
		Name:            "v1",
		Protocol:        "http",
		Domain:          "a.wykop.pl",
		Encoder:         FlatEncoder{},
		Login:           LoginEndpoint{Type: "user", Method: "login", UserKeyQuery: ".userkey"},
		KeepEmptyMethod: true,
		Catalog:         v1Endpoints,
	}

	// V2 is the second API generation at a2.wykop.pl.
	V2 = APIVersion{
		Name:      "v2",
		Protocol:  "https",
		Domain:    "a2.wykop.pl",
		Encoder:   SegmentEncoder{},
		Login:     LoginEndpoint{Type: "login", UserKeyQuery: ".data.userkey"},
		DropFalsy: true,
		Catalog:   v2Endpoints,
	}
)

// VersionByName resolves "v1"/"1" and "v2"/"2". Empty means V1.
func VersionByName(name string) (APIVersion, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "v1", "1":
		return V1, nil
	case "v2", "2":
		return V2, nil
	default:
		return APIVersion{}, fmt.Errorf("unknown API version %q (expected v1 or v2)", name)
	}
}

// BaseURL returns protocol://domain.
func (v APIVersion) BaseURL() string {
	return v.Protocol + "://" + v.Domain
}

// path joins the request path segments. Segments are not escaped.
func (v APIVersion) path(typ, method string, methodParams []string, apiParams map[string]string) string {
	segments := make([]string, 0, 2+len(methodParams)+len(apiParams)*2)
	segments = append(segments, typ)
	if method != "" || v.KeepEmptyMethod {
		segments = append(segments, method)
	}
	segments = append(segments, methodParams...)
	segments = append(segments, v.Encoder.Encode(apiParams)...)
	return strings.Join(segments, "/")
}
