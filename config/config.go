// Package config loads application credentials for the API client from the
// environment, dotenv files and keyring profiles.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/wykop-sdk/wykop-go/api"
	"github.com/wykop-sdk/wykop-go/internal/text"
)

// Environment variables read by FromEnv.
const (
	EnvAppKey          = "WYKOP_APPKEY"
	EnvSecretKey       = "WYKOP_SECRETKEY"
	EnvLogin           = "WYKOP_LOGIN"
	EnvAccountKey      = "WYKOP_ACCOUNTKEY"
	EnvPassword        = "WYKOP_PASSWORD"
	EnvOutput          = "WYKOP_OUTPUT"
	EnvFormat          = "WYKOP_FORMAT"
	EnvMessageEncoding = "WYKOP_MESSAGE_ENCODING"
	EnvAPIVersion      = "WYKOP_API_VERSION"
	EnvProfile         = "WYKOP_PROFILE"
)

// ErrNotConfigured is returned when no credentials are available.
var ErrNotConfigured = errors.New("wykop credentials not configured")

// Credentials holds everything needed to build an api.Client.
type Credentials struct {
	AppKey          string `json:"appkey"`
	SecretKey       string `json:"secretkey"`
	Login           string `json:"login,omitempty"`
	AccountKey      string `json:"accountkey,omitempty"`
	Password        string `json:"password,omitempty"`
	Output          string `json:"output,omitempty"`
	Format          string `json:"format,omitempty"`
	MessageEncoding string `json:"message_encoding,omitempty"`
	APIVersion      string `json:"api_version,omitempty"`
}

// FromEnv reads credentials from the process environment.
func FromEnv() Credentials {
	return fromLookup(os.LookupEnv)
}

// FromEnvFile reads credentials from a dotenv file. Variables exported in
// the process environment take precedence over the file.
func FromEnvFile(path string) (Credentials, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Credentials{}, fmt.Errorf("env file path is empty")
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read env file %q: %w", path, err)
	}
	return fromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}), nil
}

// LoadDotEnv exports the variables of the given dotenv files (".env" when
// none are given) into the process environment without overwriting
// variables that are already set. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

func fromLookup(lookup func(string) (string, bool)) Credentials {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}
	// Secrets keep surrounding whitespace.
	secret := func(key string) string {
		v, _ := lookup(key)
		return v
	}
	return Credentials{
		AppKey:          get(EnvAppKey),
		SecretKey:       secret(EnvSecretKey),
		Login:           get(EnvLogin),
		AccountKey:      secret(EnvAccountKey),
		Password:        secret(EnvPassword),
		Output:          get(EnvOutput),
		Format:          get(EnvFormat),
		MessageEncoding: get(EnvMessageEncoding),
		APIVersion:      get(EnvAPIVersion),
	}
}

// IsZero reports whether no application key or secret is set.
func (c Credentials) IsZero() bool {
	return c.AppKey == "" && c.SecretKey == ""
}

// Merge returns c with empty fields filled from other.
func (c Credentials) Merge(other Credentials) Credentials {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Credentials{
		AppKey:          pick(c.AppKey, other.AppKey),
		SecretKey:       pick(c.SecretKey, other.SecretKey),
		Login:           pick(c.Login, other.Login),
		AccountKey:      pick(c.AccountKey, other.AccountKey),
		Password:        pick(c.Password, other.Password),
		Output:          pick(c.Output, other.Output),
		Format:          pick(c.Format, other.Format),
		MessageEncoding: pick(c.MessageEncoding, other.MessageEncoding),
		APIVersion:      pick(c.APIVersion, other.APIVersion),
	}
}

// Validate checks that the credentials can build a client.
func (c Credentials) Validate() error {
	var errs []error
	if c.AppKey == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvAppKey))
	}
	if c.SecretKey == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvSecretKey))
	}
	if c.Login == "" && (c.AccountKey != "" || c.Password != "") {
		errs = append(errs, fmt.Errorf("%s is required with an account key or password", EnvLogin))
	}
	if _, err := api.VersionByName(c.APIVersion); err != nil {
		errs = append(errs, err)
	}
	if c.MessageEncoding != "" {
		if _, err := text.Lookup(c.MessageEncoding); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid credentials: %w", errors.Join(errs...))
	}
	return nil
}

// APIConfig validates c and converts it to an api.Config.
func (c Credentials) APIConfig() (api.Config, error) {
	if err := c.Validate(); err != nil {
		return api.Config{}, err
	}
	v, err := api.VersionByName(c.APIVersion)
	if err != nil {
		return api.Config{}, err
	}
	return api.Config{
		AppKey:          c.AppKey,
		SecretKey:       c.SecretKey,
		Login:           c.Login,
		AccountKey:      c.AccountKey,
		Password:        c.Password,
		Output:          c.Output,
		Format:          c.Format,
		MessageEncoding: c.MessageEncoding,
		Version:         v,
	}, nil
}

// NewClient builds a client from c.
func (c Credentials) NewClient(opts ...api.Option) (*api.Client, error) {
	cfg, err := c.APIConfig()
	if err != nil {
		return nil, err
	}
	return api.New(cfg, opts...), nil
}
