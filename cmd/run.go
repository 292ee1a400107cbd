package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/lyrio/internal/app"
	"github.com/desertthunder/lyrio/internal/auth"
	"github.com/desertthunder/lyrio/internal/lyrics"
	"github.com/desertthunder/lyrio/internal/shared"
	"github.com/desertthunder/lyrio/internal/spotify"
	"github.com/desertthunder/lyrio/internal/store"
	"github.com/desertthunder/lyrio/internal/ui"
	"github.com/urfave/cli/v3"
)

// RunAgent starts the background agent: authentication restore, track
// polling, lyrics resolution, and the presentation surface.
func (r *Runner) RunAgent(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	headless := cmd.Bool("headless")
	config := r.reloadConfig(configPath)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	logger := r.logger
	if !headless {
		// The overlay owns the terminal; log to file instead.
		fileLogger, err := shared.NewFileLogger("./tmp/lyrio.log")
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		logger = fileLogger
	}

	manager, err := auth.NewManager(config.Credentials.Spotify.Map(), store.NewTokenStore(db), logger)
	if err != nil {
		return err
	}

	client := spotify.NewClient(manager, logger)
	poller := spotify.NewPoller(client, config.Poller.Interval(), logger)
	lyricsService := lyrics.NewService(
		lyrics.NewClient(config.Lyrics.Endpoint), config.Lyrics.CacheSize, logger)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		presentation app.Presentation
		adapter      *ui.Adapter
		program      *tea.Program
	)
	if headless {
		presentation = ui.NewHeadless(logger, config.Overlay.Visible)
	} else {
		var model ui.Overlay
		adapter, model = ui.NewAdapter(config.Overlay.Visible)
		program = tea.NewProgram(model, tea.WithAltScreen())
		adapter.Attach(program)
		presentation = adapter
	}

	application := app.New(app.Opts{
		Config:       config,
		ConfigPath:   configPath,
		Auth:         manager,
		Lyrics:       lyricsService,
		Poller:       poller,
		History:      store.NewHistoryRepository(db),
		Presentation: presentation,
		Logger:       logger,
	})

	if _, err := application.Initialize(runCtx); err != nil {
		return err
	}

	if adapter != nil {
		go forwardUIEvents(runCtx, adapter, application)
	}

	if headless {
		return r.runHeadless(runCtx, cancel, application)
	}
	return r.runOverlay(runCtx, cancel, application, program)
}

// forwardUIEvents copies user actions from the overlay onto the main
// event channel. A stopped dispatcher stops the forwarder too.
func forwardUIEvents(ctx context.Context, adapter *ui.Adapter, application *app.App) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-adapter.Forward():
			select {
			case application.Events() <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (r *Runner) runHeadless(ctx context.Context, cancel context.CancelFunc, application *app.App) error {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := application.Run(sigCtx)
	cancel()
	application.Wait()
	return err
}

func (r *Runner) runOverlay(ctx context.Context, cancel context.CancelFunc, application *app.App, program *tea.Program) error {
	dispatcherErr := make(chan error, 1)
	go func() {
		dispatcherErr <- application.Run(ctx)
		cancel()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-dispatcherErr
		application.Wait()
		return fmt.Errorf("error running overlay: %w", err)
	}

	cancel()
	err := <-dispatcherErr
	application.Wait()
	return err
}

func runCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the lyrics agent",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "headless",
				Usage: "Run without the terminal overlay (log output only)",
			},
		},
		Action: r.RunAgent,
	}
}
