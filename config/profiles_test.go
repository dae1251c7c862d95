package config

import (
	"context"
	"errors"
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withMockKeyring sets up an in-memory keyring for the duration of a test.
func withMockKeyring(t *testing.T) *keyring.ArrayKeyring {
	t.Helper()
	ring := keyring.NewArrayKeyring(nil)
	restore := SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return ring, nil
	})
	t.Cleanup(restore)
	return ring
}

func withFailingKeyring(t *testing.T, err error) {
	t.Helper()
	restore := SetOpenKeyring(func(keyring.Config) (keyring.Keyring, error) {
		return nil, err
	})
	t.Cleanup(restore)
}

func TestProfileKey(t *testing.T) {
	assert.Equal(t, "profile:default", profileKey(""))
	assert.Equal(t, "profile:work", profileKey("work"))
}

func TestSaveAndLoadProfile(t *testing.T) {
	withMockKeyring(t)
	creds := Credentials{AppKey: "a", SecretKey: "s", Login: "l", Password: "p"}

	require.NoError(t, SaveProfile("work", creds))

	got, err := LoadProfile("work")
	require.NoError(t, err)
	assert.Equal(t, creds, got)

	current, err := CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "work", current)

	profiles, err := ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"work"}, profiles)
}

func TestLoadProfile_NotConfigured(t *testing.T) {
	withMockKeyring(t)

	_, err := LoadProfile("missing")

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestSaveProfile_DeduplicatesIndex(t *testing.T) {
	withMockKeyring(t)

	require.NoError(t, SaveProfile("a", Credentials{AppKey: "1"}))
	require.NoError(t, SaveProfile("b", Credentials{AppKey: "2"}))
	require.NoError(t, SaveProfile("a", Credentials{AppKey: "3"}))

	profiles, err := ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, profiles)

	got, err := LoadProfile("a")
	require.NoError(t, err)
	assert.Equal(t, "3", got.AppKey)
}

func TestDeleteProfile_MovesCurrent(t *testing.T) {
	withMockKeyring(t)
	require.NoError(t, SaveProfile("a", Credentials{AppKey: "1"}))
	require.NoError(t, SaveProfile("b", Credentials{AppKey: "2"}))

	require.NoError(t, DeleteProfile("b"))

	current, err := CurrentProfile()
	require.NoError(t, err)
	assert.Equal(t, "a", current)

	profiles, err := ListProfiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, profiles)

	_, err = LoadProfile("b")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestCurrentProfile_Default(t *testing.T) {
	withMockKeyring(t)

	current, err := CurrentProfile()

	require.NoError(t, err)
	assert.Equal(t, "default", current)
}

func TestLoad(t *testing.T) {
	t.Run("environment wins", func(t *testing.T) {
		clearCredentialEnv(t)
		withMockKeyring(t)
		require.NoError(t, SaveProfile("default", Credentials{AppKey: "profile"}))
		t.Setenv(EnvAppKey, "env")
		t.Setenv(EnvSecretKey, "s")

		creds, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "env", creds.AppKey)
	})

	t.Run("named profile filled from environment", func(t *testing.T) {
		clearCredentialEnv(t)
		withMockKeyring(t)
		require.NoError(t, SaveProfile("work", Credentials{AppKey: "work", SecretKey: "ws"}))
		require.NoError(t, SetCurrentProfile("default"))
		t.Setenv(EnvProfile, "work")
		t.Setenv(EnvPassword, "from-env")

		creds, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "work", creds.AppKey)
		assert.Equal(t, "from-env", creds.Password)
	})

	t.Run("current profile", func(t *testing.T) {
		clearCredentialEnv(t)
		withMockKeyring(t)
		require.NoError(t, SaveProfile("home", Credentials{AppKey: "home", SecretKey: "hs"}))

		creds, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "home", creds.AppKey)
	})

	t.Run("nothing configured", func(t *testing.T) {
		clearCredentialEnv(t)
		withMockKeyring(t)

		_, err := Load()

		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

func TestKeyringFailures(t *testing.T) {
	boom := errors.New("keyring locked")
	withFailingKeyring(t, boom)

	assert.ErrorIs(t, SaveProfile("x", Credentials{}), boom)
	_, err := LoadProfile("x")
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, DeleteProfile("x"), boom)
	_, err = ListProfiles()
	assert.ErrorIs(t, err, boom)
	_, err = CurrentProfile()
	assert.ErrorIs(t, err, boom)
	_, err = Credentials{AppKey: "a"}.KeyringSession()
	assert.ErrorIs(t, err, boom)
}

func TestKeyringSession(t *testing.T) {
	ring := withMockKeyring(t)
	ctx := context.Background()

	store, err := Credentials{AppKey: "app", Login: "me"}.KeyringSession()
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "userkey"))

	item, err := ring.Get("wykop:session:app:me")
	require.NoError(t, err)
	assert.Equal(t, "userkey", string(item.Data))
}
