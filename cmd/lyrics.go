package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/lyrio/internal/lyrics"
	"github.com/desertthunder/lyrio/internal/shared"
	"github.com/urfave/cli/v3"
)

// Lyrics performs a one-shot lyrics lookup without the agent.
func (r *Runner) Lyrics(ctx context.Context, cmd *cli.Command) error {
	artist := cmd.String("artist")
	title := cmd.String("title")
	if artist == "" || title == "" {
		return fmt.Errorf("%w: artist and title", shared.ErrMissingArgument)
	}

	config := r.reloadConfig(cmd.String("config"))
	service := lyrics.NewService(lyrics.NewClient(config.Lyrics.Endpoint), 1, r.logger)

	text := service.Fetch(ctx, artist+"/"+title, artist, title)
	if text == nil {
		return r.writePlain("No lyrics available for %s - %s\n", artist, title)
	}

	return r.writePlain("%s\n", *text)
}

func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lyrics",
		Usage: "Look up lyrics for a track",
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{Name: "artist", Usage: "Artist name", Required: true},
			&cli.StringFlag{Name: "title", Usage: "Track title", Required: true},
		},
		Action: r.Lyrics,
	}
}
