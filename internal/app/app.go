// Package app wires the agent together and runs the event dispatcher:
// a single consumer draining one ordered, bounded event channel for
// the lifetime of the process.
//
// Processing an event never overlaps processing of the next, so state
// touched during handling needs no locking at the dispatcher boundary.
// Lyrics resolution runs asynchronously and re-enters the channel as a
// LyricsRetrieved event; in-flight lookups are not cancelled when a
// newer track arrives, so results for an older track may interleave
// with newer TrackChanged events.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/lyrio/internal/auth"
	"github.com/desertthunder/lyrio/internal/events"
	"github.com/desertthunder/lyrio/internal/lyrics"
	"github.com/desertthunder/lyrio/internal/models"
	"github.com/desertthunder/lyrio/internal/shared"
	"github.com/desertthunder/lyrio/internal/spotify"
	"github.com/desertthunder/lyrio/internal/store"
)

// notAvailableMessage is what the overlay shows for a confirmed
// negative lyrics result; nil is never silently dropped.
const notAvailableMessage = "Lyrics not available for this track"

// Opts contains the collaborators an App coordinates.
type Opts struct {
	Config       *shared.Config
	ConfigPath   string
	Auth         *auth.Manager
	Lyrics       *lyrics.Service
	Poller       *spotify.Poller
	History      *store.HistoryRepository
	Presentation Presentation
	Logger       *log.Logger
	OpenBrowser  func(url string) error
}

// App owns the main event channel and the dispatcher loop.
type App struct {
	cfg        *shared.Config
	cfgPath    string
	auth       *auth.Manager
	lyrics     *lyrics.Service
	poller     *spotify.Poller
	history    *store.HistoryRepository
	pres       Presentation
	logger     *log.Logger
	openURL    func(url string) error
	eventsChan chan events.Event
	wg         sync.WaitGroup
}

// New creates an App with a bounded main event channel.
func New(opts Opts) *App {
	openURL := opts.OpenBrowser
	if openURL == nil {
		openURL = shared.OpenBrowser
	}

	return &App{
		cfg:        opts.Config,
		cfgPath:    opts.ConfigPath,
		auth:       opts.Auth,
		lyrics:     opts.Lyrics,
		poller:     opts.Poller,
		history:    opts.History,
		pres:       opts.Presentation,
		logger:     opts.Logger,
		openURL:    openURL,
		eventsChan: make(chan events.Event, events.DefaultCapacity),
	}
}

// Events exposes the main channel for producers (the UI forwarder
// pushes user actions here as the same variants the dispatcher already
// consumes).
func (a *App) Events() chan<- events.Event {
	return a.eventsChan
}

// Initialize restores the session and starts polling when
// authenticated. Returns whether the session is usable; the caller
// decides how to prompt for authentication.
func (a *App) Initialize(ctx context.Context) (bool, error) {
	authenticated, err := a.auth.Initialize(ctx)
	if err != nil {
		return false, err
	}

	if a.cfg.Overlay.Visible {
		if err := a.pres.Show(); err != nil {
			a.logger.Warn("failed to show overlay", "error", err)
		}
	}
	a.pres.SetPosition(a.cfg.Overlay.PositionX, a.cfg.Overlay.PositionY)

	if authenticated {
		a.logger.Info("authenticated with Spotify, starting track polling")
		a.startPolling(ctx)
	} else {
		a.logger.Warn("not authenticated with Spotify, run `lyrio auth login` or trigger authentication from the overlay")
	}

	return authenticated, nil
}

func (a *App) startPolling(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.poller.Run(ctx, a.eventsChan)
	}()
}

// Run drains the event channel until a Quit event arrives or the
// channel is closed. This is the single logical consumer; events are
// handled strictly in arrival order.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting main event loop")

	for {
		select {
		case <-ctx.Done():
			a.logger.Warn("context cancelled, exiting event loop")
			return a.shutdown()
		case ev, ok := <-a.eventsChan:
			if !ok {
				a.logger.Warn("event channel closed, exiting")
				return a.shutdown()
			}

			switch ev := ev.(type) {
			case events.TrackChanged:
				a.handleTrackChanged(ctx, ev.Track)
			case events.LyricsRetrieved:
				a.handleLyricsRetrieved(ev.Text)
			case events.ToggleOverlay:
				a.handleToggleOverlay()
			case events.Authenticate:
				a.handleAuthenticate()
			case events.ServiceError:
				a.handleServiceError(ev.Message)
			case events.Quit:
				a.logger.Info("quit event received")
				return a.shutdown()
			}
		}
	}
}

// Wait blocks until background producers (poller, in-flight lyrics
// lookups) have drained. Call after Run returns and the context that
// drives them is cancelled.
func (a *App) Wait() {
	a.wg.Wait()
}

// handleTrackChanged records the observation and resolves lyrics
// asynchronously; the result re-enters the main channel.
func (a *App) handleTrackChanged(ctx context.Context, track models.Track) {
	a.logger.Info("handling track change", "track", track.Label())

	a.pres.UpdateTrack(track)

	if a.history != nil {
		if err := a.history.Record(track, time.Now()); err != nil {
			a.logger.Warn("failed to record track history", "error", err)
		}
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		text := a.lyrics.Fetch(ctx, track.ID, track.PrimaryArtist(), track.Name)
		select {
		case a.eventsChan <- events.LyricsRetrieved{Text: text}:
		case <-ctx.Done():
		}
	}()
}

func (a *App) handleLyricsRetrieved(text *string) {
	if text == nil {
		a.logger.Info("no lyrics available for this track")
		a.pres.UpdateLyrics(notAvailableMessage)
		return
	}

	a.logger.Info("updating overlay with lyrics", "chars", len(*text))
	a.pres.UpdateLyrics(*text)
}

// handleToggleOverlay flips visibility and reflects the resulting
// state back into configuration so it survives restarts.
func (a *App) handleToggleOverlay() {
	var err error
	if a.pres.IsVisible() {
		a.logger.Info("hiding overlay")
		err = a.pres.Hide()
	} else {
		a.logger.Info("showing overlay")
		err = a.pres.Show()
	}
	if err != nil {
		a.logger.Warn("failed to toggle overlay", "error", err)
		return
	}

	a.cfg.Overlay.Visible = a.pres.IsVisible()
}

// handleAuthenticate opens the authorization URL in the browser. The
// code exchange itself is handled out-of-band by `lyrio auth login`.
func (a *App) handleAuthenticate() {
	a.logger.Info("starting authentication flow")

	authURL := a.auth.AuthURL(shared.GenerateState())
	a.logger.Info("please visit the authorization URL", "url", authURL)

	if err := a.openURL(authURL); err != nil {
		a.logger.Error("failed to open browser", "error", err)
	}

	a.logger.Warn("complete authentication with `lyrio auth login`, then restart the agent")
}

// handleServiceError surfaces a playback fault without stopping the
// loop. The message shown was already formatted by the producer; raw
// transport detail is not appended here.
func (a *App) handleServiceError(message string) {
	a.logger.Error("spotify error", "error", message)
	a.pres.UpdateLyrics(fmt.Sprintf("Unable to connect to Spotify\n\n%s", message))
}

// shutdown persists mutated configuration and lets background
// goroutines drain naturally. There is no forced abort.
func (a *App) shutdown() error {
	a.logger.Info("shutting down")

	x, y := a.pres.Position()
	a.cfg.Overlay.PositionX, a.cfg.Overlay.PositionY = x, y
	a.cfg.Overlay.Visible = a.pres.IsVisible()

	if a.cfgPath != "" {
		if err := shared.SaveConfig(a.cfgPath, a.cfg); err != nil {
			a.logger.Warn("failed to save configuration", "error", err)
		} else {
			a.logger.Info("configuration saved")
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
