package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/desertthunder/lyrio/internal/auth"
)

// Fixed identifiers for the single Spotify session lyrio manages.
const (
	TokenService = "com.lyrio.spotify"
	TokenAccount = "spotify_token"
)

// TokenStore implements [auth.TokenStore] on the tokens table.
type TokenStore struct {
	db      *sql.DB
	service string
	account string
}

// NewTokenStore creates a TokenStore bound to the fixed
// service+account pair.
func NewTokenStore(db *sql.DB) *TokenStore {
	return &TokenStore{db: db, service: TokenService, account: TokenAccount}
}

// Save upserts the serialized token.
func (s *TokenStore) Save(token *auth.Token) error {
	if token == nil {
		return fmt.Errorf("no token to save")
	}

	value, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to serialize token: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO tokens (service, account, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (service, account)
		DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		s.service, s.account, string(value))
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	return nil
}

// Load retrieves the stored token, or (nil, nil) when none exists.
func (s *TokenStore) Load() (*auth.Token, error) {
	var value string
	err := s.db.QueryRow(
		"SELECT value FROM tokens WHERE service = ? AND account = ?",
		s.service, s.account).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}

	var token auth.Token
	if err := json.Unmarshal([]byte(value), &token); err != nil {
		return nil, fmt.Errorf("failed to deserialize token: %w", err)
	}

	return &token, nil
}

// Clear deletes the stored token. Deleting an absent token is not an
// error.
func (s *TokenStore) Clear() error {
	if _, err := s.db.Exec(
		"DELETE FROM tokens WHERE service = ? AND account = ?",
		s.service, s.account); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
