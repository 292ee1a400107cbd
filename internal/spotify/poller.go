package spotify

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrio/internal/events"
	"github.com/desertthunder/lyrio/internal/models"
)

// PlaybackSource is the narrow query the poller depends on,
// implemented by [Client].
type PlaybackSource interface {
	CurrentlyPlaying(ctx context.Context) (*models.Track, error)
}

// retryDelays is the backoff schedule for a single poll: one attempt
// per entry, sleeping the entry's delay after a failure except for the
// final attempt.
var retryDelays = []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}

// Poller watches the playback source on a fixed interval and emits a
// TrackChanged event only when the observed track differs from the
// last known one by value.
type Poller struct {
	source   PlaybackSource
	interval time.Duration
	logger   *log.Logger

	// last is touched only by the Run goroutine.
	last *models.Track

	// sleep is replaced in tests to avoid real backoff delays.
	sleep func(ctx context.Context, d time.Duration)
}

// NewPoller creates a Poller over the given source. A non-positive
// interval falls back to 5 seconds.
func NewPoller(source PlaybackSource, interval time.Duration, logger *log.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{
		source:   source,
		interval: interval,
		logger:   logger,
		sleep:    sleepCtx,
	}
}

// Run polls until ctx is cancelled, sending events on out. It is the
// exclusive owner of the last-known-track cell. Exhausted retries
// surface as a ServiceError and leave the last-known track unchanged;
// the loop itself never terminates on poll failure.
func (p *Poller) Run(ctx context.Context, out chan<- events.Event) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("started track polling", "interval", p.interval)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("track polling stopped")
			return
		case <-ticker.C:
		}

		track, err := p.observe(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("failed to get current track after retries", "error", err)
			if !send(ctx, out, events.ServiceError{Message: err.Error()}) {
				return
			}
			continue
		}

		if !p.changed(track) {
			continue
		}
		p.last = track

		// Transitioning to nothing-playing updates state but emits no
		// event; there is no "track cleared" in the contract.
		if track == nil {
			continue
		}

		p.logger.Info("track changed", "track", track.Label())
		if !send(ctx, out, events.TrackChanged{Track: *track}) {
			return
		}
	}
}

// observe queries the source with up to len(retryDelays) attempts,
// backing off between failures.
func (p *Poller) observe(ctx context.Context) (*models.Track, error) {
	var lastErr error

	for attempt, delay := range retryDelays {
		track, err := p.source.CurrentlyPlaying(ctx)
		if err == nil {
			return track, nil
		}

		p.logger.Warn("currently-playing query failed", "attempt", attempt+1, "error", err)
		lastErr = err

		if ctx.Err() != nil {
			break
		}
		if attempt < len(retryDelays)-1 {
			p.sleep(ctx, delay)
		}
	}

	return nil, lastErr
}

// changed compares the observation against the last known state; nil
// (nothing playing) is a distinct state from any track.
func (p *Poller) changed(track *models.Track) bool {
	if p.last == nil || track == nil {
		return (p.last == nil) != (track == nil)
	}
	return !p.last.Equal(*track)
}

// send delivers an event unless the consumer is gone; false means the
// poller should stop producing.
func send(ctx context.Context, out chan<- events.Event, ev events.Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
