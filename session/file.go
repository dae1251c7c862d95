package session

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type fileEntry struct {
	SavedAt time.Time `json:"saved_at"`
	UserKey string    `json:"userkey"`
}

// File stores the session key as a small JSON file, readable only by the
// owner.
type File struct {
	path string
	// TTL expires the stored key; zero keeps it until cleared.
	TTL time.Duration
	now func() time.Time
}

var _ Store = (*File)(nil)

// NewFile stores the session for key in dir. See KeyFor and DefaultDir.
func NewFile(dir, key string, ttl time.Duration) *File {
	hash := sha1.Sum([]byte(key))
	return &File{
		path: filepath.Join(dir, "session_"+hex.EncodeToString(hash[:6])+".json"),
		TTL:  ttl,
		now:  time.Now,
	}
}

// DefaultDir returns "$XDG_CACHE_HOME/wykop-sdk" or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "wykop-sdk"), nil
}

// Path returns the file the session is stored in.
func (f *File) Path() string {
	return f.path
}

func (f *File) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read session file: %w", err)
	}
	var e fileEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return "", fmt.Errorf("parse session file %s: %w", f.path, err)
	}
	if e.UserKey == "" || (f.TTL > 0 && f.now().Sub(e.SavedAt) > f.TTL) {
		return "", ErrNotFound
	}
	return e.UserKey, nil
}

func (f *File) Save(_ context.Context, key string) error {
	data, err := json.Marshal(fileEntry{SavedAt: f.now(), UserKey: key})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	// Write to a temp file and rename so readers never see a partial file.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (f *File) Clear(_ context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
