package auth

import (
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestTokenValidAt(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		e := now.Add(d)
		return &e
	}

	cases := []struct {
		name  string
		token *Token
		valid bool
	}{
		{"Nil Token", nil, false},
		{"Empty Access Token", &Token{}, false},
		{"No Expiry", &Token{AccessToken: "tok"}, true},
		{"Expires Beyond Buffer", &Token{AccessToken: "tok", ExpiresAt: at(61 * time.Second)}, true},
		{"Expires At Buffer", &Token{AccessToken: "tok", ExpiresAt: at(60 * time.Second)}, false},
		{"Expires Within Buffer", &Token{AccessToken: "tok", ExpiresAt: at(59 * time.Second)}, false},
		{"Expired", &Token{AccessToken: "tok", ExpiresAt: at(-time.Hour)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.token.ValidAt(now); got != tc.valid {
				t.Errorf("expected valid=%v, got %v", tc.valid, got)
			}
		})
	}
}

func TestTokenConversion(t *testing.T) {
	t.Run("Round Trip", func(t *testing.T) {
		expiry := time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC)
		src := &oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       expiry,
		}

		token := fromOAuth2(src, spotifyScopes)
		if token.ExpiresAt == nil || !token.ExpiresAt.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, token.ExpiresAt)
		}

		back := token.toOAuth2()
		if back.AccessToken != "access" || back.RefreshToken != "refresh" || !back.Expiry.Equal(expiry) {
			t.Errorf("round trip lost data: %+v", back)
		}
	})

	t.Run("Zero Expiry Maps To Nil", func(t *testing.T) {
		token := fromOAuth2(&oauth2.Token{AccessToken: "access"}, nil)
		if token.ExpiresAt != nil {
			t.Errorf("expected nil expiry, got %v", token.ExpiresAt)
		}
	})
}
