package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wykop-sdk/wykop-go/debug"
	"github.com/wykop-sdk/wykop-go/session"
)

// Authenticate logs in with the configured login and account key or
// password, then stores the returned session key.
//
// Missing credentials fail immediately with KindCredentialsNotSet. When
// the login succeeds but the store fails, the key is kept and the returned
// error wraps ErrSessionNotSaved.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.Login == "" || (c.AccountKey == "" && c.Password == "") {
		return &Error{
			Kind:    KindCredentialsNotSet,
			Message: "login or (password or account key) not set",
		}
	}

	res, err := c.UserLogin(ctx, c.Login, c.AccountKey, c.Password)
	if err != nil {
		return err
	}

	key, err := userKeyFrom(res, c.Version.Login.UserKeyQuery)
	if err != nil {
		return err
	}
	c.userKey = key
	if debug.IsEnabled(ctx) {
		slog.Debug("authenticated", "login", c.Login, "version", c.Version.Name)
	}

	if err := c.sessions.Save(ctx, key); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionNotSaved, err)
	}
	return nil
}

// AuthenticateAs replaces the configured credentials and authenticates.
// Empty arguments keep the current values.
func (c *Client) AuthenticateAs(ctx context.Context, login, accountKey, password string) error {
	if login != "" {
		c.Login = login
	}
	if accountKey != "" {
		c.AccountKey = accountKey
	}
	if password != "" {
		c.Password = password
	}
	return c.Authenticate(ctx)
}

// UserLogin sends the version's login request without touching the session.
func (c *Client) UserLogin(ctx context.Context, login, accountKey, password string) (*Result, error) {
	post := Params{"login": login}
	if accountKey != "" {
		post["accountkey"] = accountKey
	}
	if password != "" {
		post["password"] = password
	}
	return c.Request(ctx, Request{
		Type:       c.Version.Login.Type,
		Method:     c.Version.Login.Method,
		PostParams: post,
	})
}

func userKeyFrom(res *Result, query string) (string, error) {
	v, err := res.Query(query)
	if err != nil {
		return "", fmt.Errorf("read session key: %w", err)
	}
	key, ok := v.(string)
	if !ok || key == "" {
		return "", fmt.Errorf("login response has no session key at %s", query)
	}
	return key, nil
}

// LoginRequired runs fn with a valid session. It authenticates first when
// there is no session key; when fn fails with KindInvalidUserKey it
// authenticates once more and retries fn once. A second failure is returned.
func LoginRequired[T any](ctx context.Context, c *Client, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if c.userKey == "" {
		if err := c.ensureLogin(ctx); err != nil {
			return zero, err
		}
	}

	v, err := fn(ctx)
	if err == nil || !IsKind(err, KindInvalidUserKey) {
		return v, err
	}

	if debug.IsEnabled(ctx) {
		slog.Debug("session key rejected, re-authenticating", "login", c.Login)
	}
	if err := c.ensureLogin(ctx); err != nil {
		return zero, err
	}
	return fn(ctx)
}

// ensureLogin authenticates and tolerates a session store failure.
func (c *Client) ensureLogin(ctx context.Context) error {
	err := c.Authenticate(ctx)
	if errors.Is(err, ErrSessionNotSaved) {
		slog.Warn("wykop session key not persisted", "login", c.Login, "error", err)
		return nil
	}
	return err
}

// RequestWithLogin is Request wrapped in LoginRequired.
func (c *Client) RequestWithLogin(ctx context.Context, req Request) (*Result, error) {
	return LoginRequired(ctx, c, func(ctx context.Context) (*Result, error) {
		return c.Request(ctx, req)
	})
}

// RestoreSession loads a stored session key. It reports false when the
// store has none.
func (c *Client) RestoreSession(ctx context.Context) (bool, error) {
	key, err := c.sessions.Load(ctx)
	if errors.Is(err, session.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	c.userKey = key
	return key != "", nil
}

// ResetSession forgets the session key, locally and in the store.
func (c *Client) ResetSession(ctx context.Context) error {
	c.userKey = ""
	if err := c.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
