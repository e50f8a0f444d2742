package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/autoalbum/internal/server"
	"github.com/desertthunder/autoalbum/internal/services"
	"github.com/desertthunder/autoalbum/internal/shared"
)

const (
	loginTimeout    = 2 * time.Minute
	shutdownTimeout = 5 * time.Second
)

// AuthLogin runs the browser authorization for the configured client secret and caches the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	conf, err := shared.LoadSyncConfig(cmd.String("conf"))
	if err != nil {
		return err
	}

	oauthConf, err := services.OAuthConfig(conf.Auth, services.DefaultScopes, r.settings().Server.RedirectURL())
	if err != nil {
		return err
	}

	token, err := r.login(ctx, oauthConf)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}

	store := services.NewFileStore(r.settings().Auth.TokenPath)
	if err := store.Put(ctx, token); err != nil {
		return err
	}

	r.logger.Info("authentication successful", "token_path", store.Path)
	return r.writePlain("✓ Authentication successful\nToken saved to: %s\n", store.Path)
}

// AuthStatus reports the cached token state without calling the API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	conf, err := shared.LoadSyncConfig(cmd.String("conf"))
	if err != nil {
		return err
	}
	if !conf.HasAuth() {
		return fmt.Errorf("%w: client secret is missing (run `autoalbum configure`)", shared.ErrMissingCredentials)
	}

	store := services.NewFileStore(r.settings().Auth.TokenPath)
	token, err := store.Get(ctx)
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return r.writePlain("Authentication: ✗ Not authenticated\nRun `autoalbum auth login` to authorize.\n")
	}
	if err != nil {
		return err
	}

	r.writePlain("Token: %s\n", store.Path)
	switch {
	case token.Valid():
		r.writePlain("Authentication: ✓ Authenticated\n")
		r.writePlain("Expires: %s\n", token.Expiry.Local().Format(time.RFC1123))
	case token.RefreshToken != "":
		r.writePlain("Authentication: ✓ Expired, will refresh on next use\n")
	default:
		r.writePlain("Authentication: ✗ Expired without refresh token\n")
	}
	return nil
}

// photosService authorizes against the Photos Library API with the cached token, logging in when needed.
func (r *Runner) photosService(ctx context.Context, secret json.RawMessage, scopes []string) (services.AlbumService, error) {
	settings := r.settings()

	conf, err := services.OAuthConfig(secret, scopes, settings.Server.RedirectURL())
	if err != nil {
		return nil, err
	}

	auth := &services.Authenticator{
		Config: conf,
		Store:  services.NewFileStore(settings.Auth.TokenPath),
		Login:  r.login,
		Logger: r.logger,
	}

	client, err := auth.Client(ctx)
	if err != nil {
		return nil, err
	}

	return services.NewPhotosService(client, services.PhotosOpts{
		PageSize:          settings.API.PageSize,
		BatchSize:         settings.API.BatchSize,
		RequestsPerSecond: settings.API.RequestsPerSecond,
		Logger:            r.logger,
	})
}

// loginWithBrowser runs the authorization code flow (PKCE) through a local callback server.
//
// The redirect URL follows the address actually bound, so port 0 in the settings picks a free port.
func (r *Runner) loginWithBrowser(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	state, err := shared.GenerateState()
	if err != nil {
		return nil, fmt.Errorf("failed to generate state: %w", err)
	}

	router := server.NewBasicRouter(server.RequestLogger(r.logger))
	srv, err := server.Start(r.settings().Server.Addr(), router)
	if err != nil {
		return nil, err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			r.logger.Warn("failed to stop callback server", "error", err)
		}
	}()

	local := *conf
	local.RedirectURL = "http://" + srv.Addr() + server.CallbackPath

	handler, authURL := server.NewOAuthHandlerPKCE(&local, state)
	router.Handler(handler)

	r.logger.Info("waiting for authorization", "callback", local.RedirectURL)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser, visit the URL manually", "url", authURL, "error", err)
	}

	timer := time.NewTimer(loginTimeout)
	defer timer.Stop()

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return nil, err
		}
		return result.Token, nil
	case err := <-srv.Errors():
		return nil, fmt.Errorf("callback server failed: %w", err)
	case <-timer.C:
		return nil, fmt.Errorf("%w: no authorization received within %v", shared.ErrTimeout, loginTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
