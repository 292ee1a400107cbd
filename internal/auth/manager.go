// Package auth owns the OAuth2 session with Spotify: the
// authorization-code flow, the current token, validity checks, and
// refresh-on-demand.
//
// [Manager.EnsureValid] is the single gate every remote playback call
// passes through. Refresh failure clears the persisted token and
// forces re-authentication; it is never silently retried.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrio/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	defaultRedirectURI = "http://localhost:8888/callback"
)

// Scopes required to read playback state.
var spotifyScopes = []string{
	"user-read-currently-playing",
	"user-read-playback-state",
}

// TokenStore persists the serialized token across process restarts.
//
// Load returns (nil, nil) when no token has been stored; errors are
// reserved for I/O-level failures on the store itself.
type TokenStore interface {
	Save(token *Token) error
	Load() (*Token, error)
	Clear() error
}

// Manager owns the token lifecycle. The token cell is guarded by a
// mutex that is never held across a network call: state is read before
// the call and written after.
type Manager struct {
	config *oauth2.Config
	store  TokenStore
	logger *log.Logger

	mu    sync.Mutex
	token *Token

	now func() time.Time
}

// NewManager creates a Manager from the credential map produced by
// [shared.SpotifyConfig.Map]. Fails when client_id or client_secret is
// absent; redirect_uri falls back to the localhost callback.
func NewManager(credentials map[string]string, store TokenStore, logger *log.Logger) (*Manager, error) {
	clientID := credentials["client_id"]
	if clientID == "" {
		return nil, fmt.Errorf("%w: client_id", shared.ErrMissingCredentials)
	}

	clientSecret := credentials["client_secret"]
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: client_secret", shared.ErrMissingCredentials)
	}

	redirectURI := credentials["redirect_uri"]
	if redirectURI == "" {
		redirectURI = defaultRedirectURI
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       spotifyScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	return &Manager{
		config: config,
		store:  store,
		logger: logger,
		now:    time.Now,
	}, nil
}

// OAuthConfig exposes the underlying [oauth2.Config] for the callback
// server, which performs its own exchange.
func (m *Manager) OAuthConfig() *oauth2.Config {
	return m.config
}

// AuthURL returns the authorization URL the user must visit to grant
// access. The state token guards the callback against CSRF.
func (m *Manager) AuthURL(state string) string {
	return m.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeCode exchanges an authorization code for a token and
// persists it.
func (m *Manager) ExchangeCode(ctx context.Context, code string) error {
	tok, err := m.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("%w: code exchange: %v", shared.ErrAuthFailed, err)
	}

	return m.SetToken(fromOAuth2(tok, m.config.Scopes))
}

// InstallOAuthToken persists a token obtained by the callback server's
// own exchange.
func (m *Manager) InstallOAuthToken(tok *oauth2.Token) error {
	return m.SetToken(fromOAuth2(tok, m.config.Scopes))
}

// SetToken installs a token obtained out-of-band (e.g. by the callback
// server) and persists it.
func (m *Manager) SetToken(token *Token) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	if err := m.store.Save(token); err != nil {
		return fmt.Errorf("%w: saving token: %v", shared.ErrSecureStorage, err)
	}

	m.logger.Info("token stored")
	return nil
}

// Token returns a copy of the current token, or nil when
// unauthenticated.
func (m *Manager) Token() *Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return nil
	}
	copied := *m.token
	return &copied
}

// AccessToken returns the current bearer token string, empty when
// unauthenticated.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == nil {
		return ""
	}
	return m.token.AccessToken
}

// IsValid reports whether a token exists and expires more than 60
// seconds in the future. Tokens without an expiry count as valid.
func (m *Manager) IsValid() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token.ValidAt(m.now())
}

// Refresh performs a refresh exchange with the stored refresh token.
// On success the new token is persisted; on failure the persisted
// token is cleared so the next startup demands re-authentication.
func (m *Manager) Refresh(ctx context.Context) error {
	m.mu.Lock()
	current := m.token
	m.mu.Unlock()

	if current == nil {
		return fmt.Errorf("%w: no token to refresh", shared.ErrNotAuthenticated)
	}
	if current.RefreshToken == "" {
		m.clear()
		return fmt.Errorf("%w: %w", shared.ErrRefreshFailed, shared.ErrNoRefreshToken)
	}

	// Force the token source to hit the refresh endpoint by handing it
	// an already-expired access token.
	seed := current.toOAuth2()
	seed.Expiry = m.now().Add(-time.Minute)
	seed.AccessToken = ""

	tok, err := m.config.TokenSource(ctx, seed).Token()
	if err != nil {
		m.logger.Error("token refresh failed", "error", err)
		m.clear()
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	refreshed := fromOAuth2(tok, current.Scopes)
	if refreshed.RefreshToken == "" {
		// Spotify omits the refresh token when it is unchanged.
		refreshed.RefreshToken = current.RefreshToken
	}

	if err := m.SetToken(refreshed); err != nil {
		return err
	}

	m.logger.Info("token refreshed")
	return nil
}

// EnsureValid fails immediately when unauthenticated, refreshes when
// the token is stale, and is a no-op otherwise.
func (m *Manager) EnsureValid(ctx context.Context) error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token == nil {
		return shared.ErrNotAuthenticated
	}

	if !m.IsValid() {
		m.logger.Info("token expired or about to expire, refreshing")
		return m.Refresh(ctx)
	}

	return nil
}

// Initialize loads a persisted token on startup and reports whether
// the session is usable. A missing token or a failed refresh yields
// (false, nil) — "authentication required" is an outcome, not an
// error. Only store I/O failures are returned as errors.
func (m *Manager) Initialize(ctx context.Context) (bool, error) {
	token, err := m.store.Load()
	if err != nil {
		return false, fmt.Errorf("%w: loading token: %v", shared.ErrSecureStorage, err)
	}

	if token == nil {
		m.logger.Info("no stored token found, authentication required")
		return false, nil
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()

	if m.IsValid() {
		m.logger.Info("stored token is valid")
		return true, nil
	}

	m.logger.Info("stored token is expired, attempting refresh")
	if err := m.Refresh(ctx); err != nil {
		m.logger.Warn("token refresh failed, authentication required", "error", err)
		return false, nil
	}

	return true, nil
}

// Logout clears the token from memory and from the store.
func (m *Manager) Logout() error {
	m.clear()
	return nil
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.token = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear stored token", "error", err)
	}
}
