// Package version resolves the library version reported in the User-Agent.
package version

import (
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"
)

// Dev is reported when no release version can be determined.
const Dev = "dev"

// ModulePath is the module whose version is looked up in the build info.
const ModulePath = "github.com/wykop-sdk/wykop-go"

// version is set at build time via ldflags
var version = ""

// readBuildInfo can be replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Get returns the library version without the leading "v", or Dev.
//
// An ldflags override wins; otherwise the version of ModulePath recorded in
// the binary's build info is used when it is a valid semantic version.
func Get() string {
	if v := normalize(version); v != "" {
		return v
	}
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return Dev
	}
	if info.Main.Path == ModulePath {
		if v := normalize(info.Main.Version); v != "" {
			return v
		}
	}
	for _, dep := range info.Deps {
		if dep == nil || dep.Path != ModulePath {
			continue
		}
		if dep.Replace != nil {
			dep = dep.Replace
		}
		if v := normalize(dep.Version); v != "" {
			return v
		}
	}
	return Dev
}

// normalize returns v without the "v" prefix when it is a valid semantic
// version, or "" otherwise.
func normalize(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || v == "(devel)" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return strings.TrimPrefix(semver.Canonical(v), "v")
}
