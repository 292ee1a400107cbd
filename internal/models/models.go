// package models defines the data model shared across the lyrio agent
package models

import (
	"slices"
	"strings"
	"time"
)

// Track describes a playable Spotify track as observed by the poller.
//
// Instances are constructed per poll and never mutated; comparison is
// by value via [Track.Equal].
type Track struct {
	ID         string   // Stable opaque Spotify track identifier
	Name       string   // Track title
	Artists    []string // Artist names in listed order
	DurationMS int      // Track length in milliseconds
}

// Equal reports whether two tracks are structurally identical.
func (t Track) Equal(other Track) bool {
	return t.ID == other.ID &&
		t.Name == other.Name &&
		t.DurationMS == other.DurationMS &&
		slices.Equal(t.Artists, other.Artists)
}

// PrimaryArtist returns the first listed artist, or an empty string.
func (t Track) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// Label formats the track for display as "Title - Artist, Artist".
func (t Track) Label() string {
	if len(t.Artists) == 0 {
		return t.Name
	}
	return t.Name + " - " + strings.Join(t.Artists, ", ")
}

// ObservedTrack pairs a Track with the time the poller first saw it
// playing. Rows of the local listening history store.
type ObservedTrack struct {
	Track
	ObservedAt time.Time
}
