// Spotify playback API client.
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrio/internal/auth"
	"github.com/desertthunder/lyrio/internal/models"
	"github.com/desertthunder/lyrio/internal/shared"
)

const spotifyBaseURL = "https://api.spotify.com/v1"

// requestTimeout bounds every playback API call. There is no
// per-operation cancellation beyond this and the caller's context.
const requestTimeout = 10 * time.Second

type artist struct {
	Name string `json:"name"`
}

type trackItem struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []artist `json:"artists"`
	DurationMS int      `json:"duration_ms"`
}

// currentlyPlaying mirrors the /me/player/currently-playing response.
type currentlyPlaying struct {
	IsPlaying            bool       `json:"is_playing"`
	CurrentlyPlayingType string     `json:"currently_playing_type"`
	Item                 *trackItem `json:"item"`
}

// Client queries the Spotify playback API. Every request passes
// through the auth manager's validity gate first.
type Client struct {
	auth       *auth.Manager
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

// NewClient creates a playback client gated by the given auth manager.
func NewClient(manager *auth.Manager, logger *log.Logger) *Client {
	return &Client{
		auth:       manager,
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    spotifyBaseURL,
		logger:     logger,
	}
}

// CurrentlyPlaying returns the track playing right now, or nil when
// nothing is playing or the playing item is not a track (podcast
// episodes resolve to "no track", not an error).
func (c *Client) CurrentlyPlaying(ctx context.Context) (*models.Track, error) {
	if err := c.auth.EnsureValid(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me/player/currently-playing", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.auth.AccessToken())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	// 204 means no active playback.
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var playing currentlyPlaying
	if err := json.NewDecoder(resp.Body).Decode(&playing); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if playing.Item == nil || playing.CurrentlyPlayingType != "track" {
		return nil, nil
	}

	track := &models.Track{
		ID:         playing.Item.ID,
		Name:       playing.Item.Name,
		DurationMS: playing.Item.DurationMS,
	}
	for _, a := range playing.Item.Artists {
		track.Artists = append(track.Artists, a.Name)
	}

	return track, nil
}
