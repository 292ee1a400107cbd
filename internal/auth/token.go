package auth

import (
	"time"

	"golang.org/x/oauth2"
)

// Token is the credential blob owned by the [Manager] and persisted
// through a [TokenStore]. The JSON form is the stored representation.
type Token struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	Scopes       []string   `json:"scopes"`
}

// refreshBuffer is how long before expiry a token stops counting as
// valid, absorbing clock skew and request latency.
const refreshBuffer = 60 * time.Second

// ValidAt reports whether the token is usable at the given instant. A
// token without an expiry is treated as valid once present; otherwise
// it must expire strictly more than the refresh buffer from now.
func (t *Token) ValidAt(now time.Time) bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	if t.ExpiresAt == nil {
		return true
	}
	return t.ExpiresAt.After(now.Add(refreshBuffer))
}

// fromOAuth2 converts an [oauth2.Token] returned by an exchange or
// refresh into the persisted form, carrying the granted scopes.
func fromOAuth2(tok *oauth2.Token, scopes []string) *Token {
	t := &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		Scopes:       scopes,
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		t.ExpiresAt = &expiry
	}
	return t
}

// toOAuth2 converts back for use with an [oauth2.Config].
func (t *Token) toOAuth2() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
	}
	if t.ExpiresAt != nil {
		tok.Expiry = *t.ExpiresAt
	}
	return tok
}
