// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"sync"

	"github.com/desertthunder/lyrio/internal/auth"
	"github.com/desertthunder/lyrio/internal/models"
)

// MemoryTokenStore is a test double for [auth.TokenStore].
type MemoryTokenStore struct {
	mu      sync.Mutex
	Token   *auth.Token
	LoadErr error
	SaveErr error

	Saves  int
	Loads  int
	Clears int
}

func (s *MemoryTokenStore) Save(token *auth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	copied := *token
	s.Token = &copied
	return nil
}

func (s *MemoryTokenStore) Load() (*auth.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Loads++
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.Token == nil {
		return nil, nil
	}
	copied := *s.Token
	return &copied, nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Clears++
	s.Token = nil
	return nil
}

// Stored returns the currently persisted token.
func (s *MemoryTokenStore) Stored() *auth.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Token
}

// Observation is one scripted answer from a [ScriptedSource].
type Observation struct {
	Track *models.Track
	Err   error
}

// ScriptedSource is a test double for the poller's playback source,
// returning queued observations in order. The final observation
// repeats once the script is exhausted.
type ScriptedSource struct {
	mu     sync.Mutex
	Script []Observation
	calls  int
}

func (s *ScriptedSource) CurrentlyPlaying(ctx context.Context) (*models.Track, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.Script) == 0 {
		return nil, errors.New("scripted source is empty")
	}

	i := s.calls
	if i >= len(s.Script) {
		i = len(s.Script) - 1
	}
	s.calls++

	obs := s.Script[i]
	return obs.Track, obs.Err
}

// Calls returns how many observations were consumed.
func (s *ScriptedSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// RecordingPresentation is a test double for the Presentation port
// that records every call.
type RecordingPresentation struct {
	mu      sync.Mutex
	visible bool
	posX    int
	posY    int

	Tracks []models.Track
	Lyrics []string
}

func NewRecordingPresentation(visible bool) *RecordingPresentation {
	return &RecordingPresentation{visible: visible}
}

func (p *RecordingPresentation) Show() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = true
	return nil
}

func (p *RecordingPresentation) Hide() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visible = false
	return nil
}

func (p *RecordingPresentation) IsVisible() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visible
}

func (p *RecordingPresentation) UpdateTrack(track models.Track) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Tracks = append(p.Tracks, track)
}

func (p *RecordingPresentation) UpdateLyrics(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Lyrics = append(p.Lyrics, text)
}

func (p *RecordingPresentation) SetPosition(x, y int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.posX, p.posY = x, y
}

func (p *RecordingPresentation) Position() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.posX, p.posY
}

// TrackCount returns how many track updates were received.
func (p *RecordingPresentation) TrackCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Tracks)
}

// LastLyrics returns the most recent lyrics update, or "".
func (p *RecordingPresentation) LastLyrics() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Lyrics) == 0 {
		return ""
	}
	return p.Lyrics[len(p.Lyrics)-1]
}
