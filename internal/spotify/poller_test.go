package spotify

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/lyrio/internal/events"
	"github.com/desertthunder/lyrio/internal/models"
	"github.com/desertthunder/lyrio/internal/shared"
	lyriotest "github.com/desertthunder/lyrio/internal/testing"
)

func track(id, name string) *models.Track {
	return &models.Track{ID: id, Name: name, Artists: []string{"Artist"}, DurationMS: 1000}
}

// runPoller runs the poller until want events arrive or the deadline
// hits, then cancels it.
func runPoller(t *testing.T, p *Poller, want int) []events.Event {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan events.Event, events.DefaultCapacity)
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx, out)
	}()

	var collected []events.Event
	deadline := time.After(2 * time.Second)
	for len(collected) < want {
		select {
		case ev := <-out:
			collected = append(collected, ev)
		case <-deadline:
			cancel()
			<-done
			t.Fatalf("timed out waiting for %d events, got %d: %v", want, len(collected), collected)
		}
	}

	cancel()
	<-done
	return collected
}

func newTestPoller(source PlaybackSource) *Poller {
	p := NewPoller(source, time.Millisecond, shared.NewLogger(io.Discard))
	p.sleep = func(ctx context.Context, d time.Duration) {}
	return p
}

func TestPoller(t *testing.T) {
	t.Run("Emits Only On Change", func(t *testing.T) {
		source := &lyriotest.ScriptedSource{Script: []lyriotest.Observation{
			{Track: track("1", "First")},
			{Track: track("1", "First")},
			{Track: track("2", "Second")},
		}}
		collected := runPoller(t, newTestPoller(source), 2)

		first, ok := collected[0].(events.TrackChanged)
		if !ok || first.Track.ID != "1" {
			t.Errorf("expected first TrackChanged for track 1, got %v", collected[0])
		}
		second, ok := collected[1].(events.TrackChanged)
		if !ok || second.Track.ID != "2" {
			t.Errorf("expected second TrackChanged for track 2, got %v", collected[1])
		}
	})

	t.Run("Nothing Playing Emits No Event", func(t *testing.T) {
		source := &lyriotest.ScriptedSource{Script: []lyriotest.Observation{
			{Track: nil},
			{Track: nil},
			{Track: track("1", "First")},
		}}
		collected := runPoller(t, newTestPoller(source), 1)

		ev, ok := collected[0].(events.TrackChanged)
		if !ok || ev.Track.ID != "1" {
			t.Errorf("expected TrackChanged for track 1, got %v", collected[0])
		}
		if source.Calls() < 3 {
			t.Errorf("expected the empty observations to be consumed, got %d calls", source.Calls())
		}
	})

	t.Run("Transition To Nothing Then Back Re-Emits", func(t *testing.T) {
		source := &lyriotest.ScriptedSource{Script: []lyriotest.Observation{
			{Track: track("1", "First")},
			{Track: nil},
			{Track: track("1", "First")},
		}}
		collected := runPoller(t, newTestPoller(source), 2)

		for i, ev := range collected {
			tc, ok := ev.(events.TrackChanged)
			if !ok || tc.Track.ID != "1" {
				t.Errorf("event %d: expected TrackChanged for track 1, got %v", i, ev)
			}
		}
	})

	t.Run("Retries Before Succeeding", func(t *testing.T) {
		source := &lyriotest.ScriptedSource{Script: []lyriotest.Observation{
			{Err: errors.New("connection reset")},
			{Err: errors.New("connection reset")},
			{Track: track("1", "First")},
		}}

		var mu sync.Mutex
		var delays []time.Duration
		p := NewPoller(source, time.Millisecond, shared.NewLogger(io.Discard))
		p.sleep = func(ctx context.Context, d time.Duration) {
			mu.Lock()
			delays = append(delays, d)
			mu.Unlock()
		}

		collected := runPoller(t, p, 1)

		ev, ok := collected[0].(events.TrackChanged)
		if !ok || ev.Track.ID != "1" {
			t.Fatalf("expected TrackChanged after retries, got %v", collected[0])
		}

		mu.Lock()
		defer mu.Unlock()
		if len(delays) < 2 || delays[0] != time.Second || delays[1] != 2*time.Second {
			t.Errorf("expected backoff delays [1s 2s], got %v", delays)
		}
	})

	t.Run("Exhausted Retries Surface As ServiceError", func(t *testing.T) {
		source := &lyriotest.ScriptedSource{Script: []lyriotest.Observation{
			{Err: errors.New("network down")},
		}}
		p := newTestPoller(source)
		collected := runPoller(t, p, 1)

		ev, ok := collected[0].(events.ServiceError)
		if !ok {
			t.Fatalf("expected ServiceError, got %v", collected[0])
		}
		if ev.Message != "network down" {
			t.Errorf("expected the last error's message, got %q", ev.Message)
		}
		if p.last != nil {
			t.Error("expected last known track to be unchanged after failed poll")
		}
		if source.Calls() < len(retryDelays) {
			t.Errorf("expected at least %d attempts, got %d", len(retryDelays), source.Calls())
		}
	})

	t.Run("Recovers After Failure", func(t *testing.T) {
		source := &lyriotest.ScriptedSource{Script: []lyriotest.Observation{
			{Err: errors.New("boom")},
			{Err: errors.New("boom")},
			{Err: errors.New("boom")},
			{Track: track("1", "First")},
		}}
		collected := runPoller(t, newTestPoller(source), 2)

		if _, ok := collected[0].(events.ServiceError); !ok {
			t.Errorf("expected ServiceError first, got %v", collected[0])
		}
		ev, ok := collected[1].(events.TrackChanged)
		if !ok || ev.Track.ID != "1" {
			t.Errorf("expected TrackChanged after recovery, got %v", collected[1])
		}
	})

	t.Run("Stops On Cancel", func(t *testing.T) {
		source := &lyriotest.ScriptedSource{Script: []lyriotest.Observation{
			{Track: track("1", "First")},
		}}
		p := newTestPoller(source)

		ctx, cancel := context.WithCancel(context.Background())
		out := make(chan events.Event) // unbuffered, nobody reading

		done := make(chan struct{})
		go func() {
			defer close(done)
			p.Run(ctx, out)
		}()

		// Give the poller a moment to block on the full channel, then
		// cancel; Run must return rather than leak.
		time.Sleep(10 * time.Millisecond)
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("poller did not stop after cancellation")
		}
	})
}
