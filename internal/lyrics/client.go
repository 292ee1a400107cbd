package lyrics

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/lyrio/internal/shared"
)

const defaultEndpoint = "https://api.lyrics.ovh/v1"

// ErrNotFound marks the remote's definitive "no lyrics exist" answer,
// which the service caches as a negative entry rather than treating as
// a failure.
var ErrNotFound = fmt.Errorf("lyrics not found")

type ovhResponse struct {
	Lyrics string `json:"lyrics"`
}

// Client fetches lyrics from the lyrics.ovh API.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a Client for the given endpoint, defaulting to the
// public lyrics.ovh API.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   endpoint,
	}
}

// Fetch retrieves lyrics for the artist/title pair. Returns
// [ErrNotFound] on the API's 404 answer and a generic error for any
// other non-200 status.
func (c *Client) Fetch(ctx context.Context, artist, title string) (string, error) {
	reqURL := fmt.Sprintf("%s/%s/%s", c.endpoint, url.PathEscape(artist), url.PathEscape(title))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", shared.ErrLyricsFetch, resp.StatusCode)
	}

	var body ovhResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return body.Lyrics, nil
}
