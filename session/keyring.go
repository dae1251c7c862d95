package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

// Keyring stores the session key as a keyring item.
type Keyring struct {
	ring keyring.Keyring
	key  string
}

var _ Store = (*Keyring)(nil)

// NewKeyring stores the session under key in ring. See KeyFor.
func NewKeyring(ring keyring.Keyring, key string) *Keyring {
	return &Keyring{ring: ring, key: key}
}

func (k *Keyring) Load(_ context.Context) (string, error) {
	item, err := k.ring.Get(k.key)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get session: %w", err)
	}
	if len(item.Data) == 0 {
		return "", ErrNotFound
	}
	return string(item.Data), nil
}

func (k *Keyring) Save(_ context.Context, key string) error {
	if err := k.ring.Set(keyring.Item{
		Key:         k.key,
		Data:        []byte(key),
		Label:       "wykop session",
		Description: "wykop API session key",
	}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (k *Keyring) Clear(_ context.Context) error {
	if err := k.ring.Remove(k.key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}
