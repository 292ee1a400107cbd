package app

import "github.com/desertthunder/lyrio/internal/models"

// Presentation is the port the dispatcher drives. The core never
// depends on a rendering toolkit; implementations live in internal/ui
// (terminal overlay, headless logger).
type Presentation interface {
	// Show makes the overlay visible.
	Show() error

	// Hide conceals the overlay without discarding its content.
	Hide() error

	// IsVisible reports the current visibility state.
	IsVisible() bool

	// UpdateTrack sets the header for the track whose lyrics are
	// being resolved.
	UpdateTrack(track models.Track)

	// UpdateLyrics replaces the displayed lyrics text. Also used for
	// the "not available" and service-error messages.
	UpdateLyrics(text string)

	// SetPosition and Position manage the overlay's window position,
	// persisted in configuration across restarts.
	SetPosition(x, y int)
	Position() (x, y int)
}
