package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// CallbackServer serves the OAuth redirect endpoint on the host:port
// named by the configured redirect URI and waits for the single
// authorization result.
type CallbackServer struct {
	handler *OAuthHandler
	srv     *http.Server
	addr    string
	path    string
}

// NewCallbackServer builds a server for the given OAuth2 config and
// state token, deriving its listen address from config.RedirectURL.
func NewCallbackServer(config *oauth2.Config, state string) (*CallbackServer, error) {
	redirect, err := url.Parse(config.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}

	path := redirect.Path
	if path == "" {
		path = "/callback"
	}

	handler := NewOAuthHandler(config, state)
	mux := http.NewServeMux()
	mux.Handle(path, handler)

	return &CallbackServer{
		handler: handler,
		srv:     &http.Server{Addr: redirect.Host, Handler: mux},
		addr:    redirect.Host,
		path:    path,
	}, nil
}

// Start begins listening. Returns an error immediately if the port
// cannot be bound (e.g. another lyrio instance is mid-flow).
func (s *CallbackServer) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.addr, err)
	}

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.handler.send(OAuthResult{err: fmt.Errorf("callback server failed: %w", err)})
		}
	}()

	return nil
}

// Wait blocks until the callback delivers a token, the timeout
// elapses, or ctx is cancelled.
func (s *CallbackServer) Wait(ctx context.Context, timeout time.Duration) (*oauth2.Token, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-s.handler.Result():
		if err := result.Error(); err != nil {
			return nil, err
		}
		return result.Token, nil
	case <-timer.C:
		return nil, fmt.Errorf("timed out waiting for authorization after %s", timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops the server, giving in-flight responses a moment to
// complete.
func (s *CallbackServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}
