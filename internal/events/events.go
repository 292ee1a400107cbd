// Package events defines the application event stream consumed by the
// dispatcher.
//
// Every cross-component signal in lyrio travels as an [Event] value on
// one bounded channel: the poller reports track changes and service
// faults, lyrics lookups report their results, and the UI forwards
// user actions. Events are immutable value objects; producers retain
// no references into a sent event.
package events

import "github.com/desertthunder/lyrio/internal/models"

// DefaultCapacity is the buffer size of the main event channel. The
// bound applies backpressure to producers instead of letting a stalled
// consumer accumulate unbounded state.
const DefaultCapacity = 100

// Event is the closed set of application events. Implementations are
// the variant structs in this package and nothing else.
type Event interface {
	isEvent()
}

// TrackChanged reports that the currently-playing track differs from
// the last one observed.
type TrackChanged struct {
	Track models.Track
}

// LyricsRetrieved carries the outcome of a lyrics lookup. Text is nil
// when lyrics are confirmed unavailable; the dispatcher renders that
// case explicitly rather than dropping it.
type LyricsRetrieved struct {
	Text *string
}

// ToggleOverlay requests that the overlay flip its visibility.
type ToggleOverlay struct{}

// Authenticate requests that the authorization URL be opened in the
// user's browser.
type Authenticate struct{}

// Quit requests a graceful shutdown. Terminal: the dispatcher saves
// state and exits its loop.
type Quit struct{}

// ServiceError surfaces a non-fatal playback-service fault to the
// user, typically an expired session or exhausted retries.
type ServiceError struct {
	Message string
}

func (TrackChanged) isEvent()    {}
func (LyricsRetrieved) isEvent() {}
func (ToggleOverlay) isEvent()   {}
func (Authenticate) isEvent()    {}
func (Quit) isEvent()            {}
func (ServiceError) isEvent()    {}
