package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/desertthunder/autoalbum/internal/shared"
)

// OAuthConfig builds an [oauth2.Config] from a client secret JSON file's contents.
//
// A non-empty redirectURL replaces the one in the secret, pointing Google at the local callback server.
func OAuthConfig(secret json.RawMessage, scopes []string, redirectURL string) (*oauth2.Config, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("%w: client secret", shared.ErrMissingCredentials)
	}

	conf, err := google.ConfigFromJSON(secret, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse client secret: %v", shared.ErrInvalidConfig, err)
	}

	if redirectURL != "" {
		conf.RedirectURL = redirectURL
	}
	return conf, nil
}

// LoginFunc runs an interactive authorization and returns the granted token.
type LoginFunc func(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)

// Authenticator produces HTTP clients authorized against the Photos Library API.
type Authenticator struct {
	Config *oauth2.Config
	Store  CredentialStore
	Login  LoginFunc // Optional; without it an unusable cached token is an error
	Logger *log.Logger
}

// Token returns a usable token.
//
// The cached token is read once. A valid token is returned as is; an expired token with a refresh token is
// refreshed and stored; anything else goes through Login and the result is stored.
func (a *Authenticator) Token(ctx context.Context) (*oauth2.Token, error) {
	logger := a.logger()

	cached, err := a.Store.Get(ctx)
	switch {
	case err == nil && cached.Valid():
		logger.Debug("using cached token", "expiry", cached.Expiry)
		return cached, nil
	case err == nil && cached.RefreshToken != "":
		fresh, rerr := a.Config.TokenSource(ctx, cached).Token()
		if rerr == nil {
			logger.Info("refreshed access token", "expiry", fresh.Expiry)
			a.store(ctx, fresh)
			return fresh, nil
		}
		logger.Warn("token refresh failed", "error", rerr)
	case err != nil && !errors.Is(err, shared.ErrNotAuthenticated):
		return nil, err
	}

	if a.Login == nil {
		return nil, fmt.Errorf("%w: run `autoalbum auth login`", shared.ErrNoRefreshToken)
	}

	token, err := a.Login(ctx, a.Config)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	a.store(ctx, token)
	return token, nil
}

// Client returns an HTTP client whose token source writes every changed token back to the store.
func (a *Authenticator) Client(ctx context.Context) (*http.Client, error) {
	token, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}

	source := &refreshableTokenSource{
		source: a.Config.TokenSource(ctx, token),
		last:   token.AccessToken,
		callback: func(t *oauth2.Token) {
			a.logger().Debug("access token changed", "expiry", t.Expiry)
			a.store(ctx, t)
		},
	}

	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(token, source)), nil
}

func (a *Authenticator) store(ctx context.Context, token *oauth2.Token) {
	if err := a.Store.Put(ctx, token); err != nil {
		a.logger().Warn("failed to cache token", "error", err)
	}
}

func (a *Authenticator) logger() *log.Logger {
	if a.Logger == nil {
		a.Logger = shared.NewLogger(nil)
	}
	return a.Logger
}

// refreshableTokenSource wraps an [oauth2.TokenSource] and calls callback whenever the access token changes.
type refreshableTokenSource struct {
	mu       sync.Mutex
	source   oauth2.TokenSource
	callback func(*oauth2.Token)
	last     string
}

func (s *refreshableTokenSource) Token() (*oauth2.Token, error) {
	token, err := s.source.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	changed := token.AccessToken != s.last
	s.last = token.AccessToken
	s.mu.Unlock()

	if changed && s.callback != nil {
		s.callback(token)
	}
	return token, nil
}
