package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

// newOAuthConfig points the token exchange at a stubbed token server.
func newOAuthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost:8888/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  "http://localhost/auth",
			TokenURL: tokenURL,
		},
	}
}

func newTokenServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "exchanged", "token_type": "Bearer", "expires_in": 3600, "refresh_token": "refresh"}`))
	}))
}

func TestOAuthHandler(t *testing.T) {
	t.Run("Successful Callback", func(t *testing.T) {
		tokenSrv := newTokenServer(t)
		defer tokenSrv.Close()

		handler := NewOAuthHandler(newOAuthConfig(tokenSrv.URL), "expected_state")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=expected_state&code=auth_code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Authorization Successful") {
			t.Error("expected the success page")
		}

		select {
		case result := <-handler.Result():
			if result.Error() != nil {
				t.Fatalf("expected no error, got %v", result.Error())
			}
			if result.Token == nil || result.Token.AccessToken != "exchanged" {
				t.Errorf("unexpected token: %+v", result.Token)
			}
		case <-time.After(time.Second):
			t.Fatal("no result delivered")
		}
	})

	t.Run("State Mismatch", func(t *testing.T) {
		handler := NewOAuthHandler(newOAuthConfig("http://localhost/token"), "expected_state")

		req := httptest.NewRequest(http.MethodGet, "/callback?state=forged&code=auth_code", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil {
			t.Error("expected an error result for a forged state")
		}
	})

	t.Run("Denied Authorization", func(t *testing.T) {
		handler := NewOAuthHandler(newOAuthConfig("http://localhost/token"), "expected_state")

		req := httptest.NewRequest(http.MethodGet,
			"/callback?state=expected_state&error=access_denied&error_description=User%20denied", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", rec.Code)
		}

		result := <-handler.Result()
		if result.Error() == nil || !strings.Contains(result.Error().Error(), "access_denied") {
			t.Errorf("expected access_denied in the error, got %v", result.Error())
		}
	})

	t.Run("Replay Is Rejected", func(t *testing.T) {
		tokenSrv := newTokenServer(t)
		defer tokenSrv.Close()

		handler := NewOAuthHandler(newOAuthConfig(tokenSrv.URL), "expected_state")

		first := httptest.NewRecorder()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/callback?state=expected_state&code=c1", nil))
		if first.Code != http.StatusOK {
			t.Fatalf("expected first callback to succeed, got %d", first.Code)
		}

		second := httptest.NewRecorder()
		handler.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/callback?state=expected_state&code=c2", nil))
		if second.Code != http.StatusBadRequest {
			t.Errorf("expected replay to get 400, got %d", second.Code)
		}
	})
}

func TestCallbackServer(t *testing.T) {
	t.Run("Serves The Redirect Path", func(t *testing.T) {
		tokenSrv := newTokenServer(t)
		defer tokenSrv.Close()

		config := newOAuthConfig(tokenSrv.URL)
		config.RedirectURL = "http://127.0.0.1:0/callback"

		srv, err := NewCallbackServer(config, "state123")
		if err != nil {
			t.Fatalf("failed to build server: %v", err)
		}

		// Drive the handler directly through the mux rather than a real
		// listener, so the test never fights over a port.
		rec := httptest.NewRecorder()
		srv.srv.Handler.ServeHTTP(rec,
			httptest.NewRequest(http.MethodGet, "/callback?state=state123&code=auth_code", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 from callback path, got %d", rec.Code)
		}

		tok, err := srv.Wait(context.Background(), time.Second)
		if err != nil {
			t.Fatalf("expected a token, got %v", err)
		}
		if tok.AccessToken != "exchanged" {
			t.Errorf("unexpected token: %+v", tok)
		}
	})

	t.Run("Wait Times Out", func(t *testing.T) {
		srv, err := NewCallbackServer(newOAuthConfig("http://localhost/token"), "state")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := srv.Wait(context.Background(), 10*time.Millisecond); err == nil {
			t.Error("expected a timeout error")
		}
	})

	t.Run("Wait Honors Cancellation", func(t *testing.T) {
		srv, err := NewCallbackServer(newOAuthConfig("http://localhost/token"), "state")
		if err != nil {
			t.Fatal(err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := srv.Wait(ctx, time.Minute); err == nil {
			t.Error("expected a cancellation error")
		}
	})

	t.Run("Invalid Redirect URI", func(t *testing.T) {
		config := newOAuthConfig("http://localhost/token")
		config.RedirectURL = "://not-a-url"
		if _, err := NewCallbackServer(config, "state"); err == nil {
			t.Error("expected an error for a malformed redirect URI")
		}
	})
}
