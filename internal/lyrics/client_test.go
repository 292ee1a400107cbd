package lyrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient(t *testing.T) {
	t.Run("Fetch Success", func(t *testing.T) {
		var requestedPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedPath = r.URL.EscapedPath()
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"lyrics": "la la"}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		text, err := client.Fetch(context.Background(), "Some Artist", "Some Title")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if text != "la la" {
			t.Errorf("expected lyrics 'la la', got %q", text)
		}
		if requestedPath != "/Some%20Artist/Some%20Title" {
			t.Errorf("expected path segments to be URL-encoded, got %s", requestedPath)
		}
	})

	t.Run("Fetch Not Found", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error": "No lyrics found"}`, http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		_, err := client.Fetch(context.Background(), "Artist", "Title")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Fetch Server Error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srv.Close()

		client := NewClient(srv.URL)
		_, err := client.Fetch(context.Background(), "Artist", "Title")
		if err == nil {
			t.Fatal("expected error for 500 response")
		}
		if errors.Is(err, ErrNotFound) {
			t.Error("500 must not be reported as not-found")
		}
	})

	t.Run("Default Endpoint", func(t *testing.T) {
		client := NewClient("")
		if client.endpoint != defaultEndpoint {
			t.Errorf("expected default endpoint, got %s", client.endpoint)
		}
	})
}
