package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/lyrio/internal/models"
)

// HistoryRepository records every track change the poller emits.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a HistoryRepository on the given database.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record appends an observation. Artists are stored as a single
// delimited column; track names containing the delimiter are not a
// concern for display-only history.
func (r *HistoryRepository) Record(track models.Track, observedAt time.Time) error {
	_, err := r.db.Exec(`
		INSERT INTO track_history (track_id, name, artists, duration_ms, observed_at)
		VALUES (?, ?, ?, ?, ?)`,
		track.ID, track.Name, strings.Join(track.Artists, "\x1f"), track.DurationMS, observedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to record track: %w", err)
	}
	return nil
}

// Recent returns up to limit observations, newest first.
func (r *HistoryRepository) Recent(limit int) ([]models.ObservedTrack, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.Query(`
		SELECT track_id, name, artists, duration_ms, observed_at
		FROM track_history
		ORDER BY observed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var tracks []models.ObservedTrack
	for rows.Next() {
		var (
			t       models.ObservedTrack
			artists string
		)
		if err := rows.Scan(&t.ID, &t.Name, &artists, &t.DurationMS, &t.ObservedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if artists != "" {
			t.Artists = strings.Split(artists, "\x1f")
		}
		tracks = append(tracks, t)
	}

	return tracks, rows.Err()
}
