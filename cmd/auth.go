package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/lyrio/internal/auth"
	"github.com/desertthunder/lyrio/internal/server"
	"github.com/desertthunder/lyrio/internal/shared"
	"github.com/desertthunder/lyrio/internal/store"
	"github.com/urfave/cli/v3"
)

// authTimeout bounds how long `auth login` waits for the user to
// complete the browser flow.
const authTimeout = 3 * time.Minute

// AuthLogin performs the full OAuth2 authorization-code flow: starts
// the local callback server, opens the browser, waits for the
// exchange, and persists the token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	config := r.reloadConfig(cmd.String("config"))

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := auth.NewManager(config.Credentials.Spotify.Map(), store.NewTokenStore(db), r.logger)
	if err != nil {
		return err
	}

	state := shared.GenerateState()
	callback, err := server.NewCallbackServer(manager.OAuthConfig(), state)
	if err != nil {
		return err
	}
	if err := callback.Start(); err != nil {
		return err
	}
	defer callback.Shutdown()

	authURL := manager.AuthURL(state)
	r.writePlain("Opening browser for Spotify authorization…\n")
	r.writePlain("If it does not open, visit:\n%s\n", authURL)

	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
	}

	token, err := callback.Wait(ctx, authTimeout)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := manager.InstallOAuthToken(token); err != nil {
		return err
	}

	r.logger.Info("authentication successful")
	return r.writePlainln("✓ Connected to Spotify")
}

// AuthStatus reports whether a usable session exists.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	config := r.reloadConfig(cmd.String("config"))

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	manager, err := auth.NewManager(config.Credentials.Spotify.Map(), store.NewTokenStore(db), r.logger)
	if err != nil {
		return err
	}

	authenticated, err := manager.Initialize(ctx)
	if err != nil {
		return err
	}

	if !authenticated {
		return r.writePlain("✗ Not authenticated. Run `lyrio auth login`\n")
	}

	r.writePlain("✓ Authenticated\n")
	if token := manager.Token(); token != nil && token.ExpiresAt != nil {
		r.writePlain("Token expires: %s\n", token.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// AuthLogout clears the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	config := r.reloadConfig(cmd.String("config"))

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.NewTokenStore(db).Clear(); err != nil {
		return err
	}

	return r.writePlain("✓ Logged out\n")
}

func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage Spotify authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Authorize lyrio with Spotify",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogin,
			},
			{
				Name:   "status",
				Usage:  "Show authentication state",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthStatus,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored token",
				Flags:  []cli.Flag{configFlag()},
				Action: r.AuthLogout,
			},
		},
	}
}
