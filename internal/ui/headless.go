package ui

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrio/internal/models"
)

// Headless implements the Presentation port with log output only.
// Used by `lyrio run --headless` and as a recording double in tests.
type Headless struct {
	logger *log.Logger

	mu      sync.Mutex
	visible bool
	posX    int
	posY    int
}

// NewHeadless creates a log-only presentation.
func NewHeadless(logger *log.Logger, visible bool) *Headless {
	return &Headless{logger: logger, visible: visible}
}

func (h *Headless) Show() error {
	h.mu.Lock()
	h.visible = true
	h.mu.Unlock()
	return nil
}

func (h *Headless) Hide() error {
	h.mu.Lock()
	h.visible = false
	h.mu.Unlock()
	return nil
}

func (h *Headless) IsVisible() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.visible
}

func (h *Headless) UpdateTrack(track models.Track) {
	h.logger.Info("now playing", "track", track.Label())
}

func (h *Headless) UpdateLyrics(text string) {
	h.logger.Info("lyrics updated", "chars", len(text))
}

func (h *Headless) SetPosition(x, y int) {
	h.mu.Lock()
	h.posX, h.posY = x, y
	h.mu.Unlock()
}

func (h *Headless) Position() (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.posX, h.posY
}
