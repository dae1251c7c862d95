package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/99designs/keyring"
)

const (
	defaultProfile    = "default"
	profilePrefix     = "profile:"
	profileIndexKey   = "profiles_index"
	currentProfileKey = "current_profile"
)

func profileKey(name string) string {
	if name == "" {
		name = defaultProfile
	}
	return profilePrefix + name
}

// Load resolves credentials: the environment when WYKOP_APPKEY is set,
// otherwise the profile named by WYKOP_PROFILE, otherwise the current
// profile. Environment values fill gaps left by a profile.
func Load() (Credentials, error) {
	env := FromEnv()
	if env.AppKey != "" {
		return env, nil
	}

	profile := strings.TrimSpace(os.Getenv(EnvProfile))
	if profile == "" {
		current, err := CurrentProfile()
		if err != nil {
			return Credentials{}, err
		}
		profile = current
	}

	creds, err := LoadProfile(profile)
	if err != nil {
		return Credentials{}, err
	}
	return creds.Merge(env), nil
}

// SaveProfile stores credentials under a named profile and makes it current.
func SaveProfile(profile string, creds Credentials) error {
	if profile == "" {
		profile = defaultProfile
	}

	ring, err := OpenKeyring()
	if err != nil {
		return err
	}

	data, err := json.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	if err := ring.Set(keyring.Item{
		Key:   profileKey(profile),
		Data:  data,
		Label: "wykop " + profile,
	}); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	profiles, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	if err := saveProfileIndex(ring, normalizeProfiles(append(profiles, profile))); err != nil {
		return err
	}

	return setCurrentProfile(ring, profile)
}

// LoadProfile retrieves credentials for a named profile.
func LoadProfile(profile string) (Credentials, error) {
	if profile == "" {
		profile = defaultProfile
	}

	ring, err := OpenKeyring()
	if err != nil {
		return Credentials{}, err
	}

	item, err := ring.Get(profileKey(profile))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return Credentials{}, fmt.Errorf("profile %q: %w", profile, ErrNotConfigured)
		}
		return Credentials{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(item.Data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return creds, nil
}

// DeleteProfile removes a stored profile. When it was current, the first
// remaining profile (or the default) becomes current.
func DeleteProfile(profile string) error {
	if profile == "" {
		profile = defaultProfile
	}

	ring, err := OpenKeyring()
	if err != nil {
		return err
	}

	if err := ring.Remove(profileKey(profile)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}

	profiles, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	var remaining []string
	for _, p := range profiles {
		if p != profile {
			remaining = append(remaining, p)
		}
	}
	if err := saveProfileIndex(ring, remaining); err != nil {
		return err
	}

	current, err := currentProfile(ring)
	if err == nil && current == profile {
		next := defaultProfile
		if len(remaining) > 0 {
			next = remaining[0]
		}
		return setCurrentProfile(ring, next)
	}
	return nil
}

// ListProfiles returns the known profile names in the order they were saved.
func ListProfiles() ([]string, error) {
	ring, err := OpenKeyring()
	if err != nil {
		return nil, err
	}
	return loadProfileIndex(ring)
}

// CurrentProfile returns the active profile name.
func CurrentProfile() (string, error) {
	ring, err := OpenKeyring()
	if err != nil {
		return "", err
	}
	return currentProfile(ring)
}

// SetCurrentProfile sets the active profile name.
func SetCurrentProfile(profile string) error {
	ring, err := OpenKeyring()
	if err != nil {
		return err
	}
	return setCurrentProfile(ring, profile)
}

func currentProfile(ring keyring.Keyring) (string, error) {
	item, err := ring.Get(currentProfileKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return defaultProfile, nil
		}
		return "", fmt.Errorf("failed to get current profile: %w", err)
	}
	return string(item.Data), nil
}

func setCurrentProfile(ring keyring.Keyring, profile string) error {
	if profile == "" {
		profile = defaultProfile
	}
	return ring.Set(keyring.Item{
		Key:  currentProfileKey,
		Data: []byte(profile),
	})
}

func loadProfileIndex(ring keyring.Keyring) ([]string, error) {
	item, err := ring.Get(profileIndexKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to get profile index: %w", err)
	}
	var profiles []string
	if err := json.Unmarshal(item.Data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile index: %w", err)
	}
	return profiles, nil
}

func saveProfileIndex(ring keyring.Keyring, profiles []string) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("failed to marshal profile index: %w", err)
	}
	return ring.Set(keyring.Item{
		Key:  profileIndexKey,
		Data: data,
	})
}

func normalizeProfiles(profiles []string) []string {
	seen := make(map[string]struct{}, len(profiles))
	var out []string
	for _, p := range profiles {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
