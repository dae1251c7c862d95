// Package session persists the API session key ("userkey") between client
// instances.
package session

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned by Load when no session key is stored.
var ErrNotFound = errors.New("session key not found")

// Store saves and restores one session key.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// KeyFor returns the storage key for an application and login pair.
func KeyFor(appKey, login string) string {
	parts := []string{"wykop", "session", strings.TrimSpace(appKey)}
	if login = strings.TrimSpace(login); login != "" {
		parts = append(parts, strings.ToLower(login))
	}
	return strings.Join(parts, ":")
}
