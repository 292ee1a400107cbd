package main

import (
	"context"
	"time"

	"github.com/desertthunder/lyrio/internal/store"
	"github.com/urfave/cli/v3"
)

// History lists recently observed tracks, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	config := r.reloadConfig(cmd.String("config"))

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	tracks, err := store.NewHistoryRepository(db).Recent(int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if len(tracks) == 0 {
		return r.writePlain("No listening history yet.\n")
	}

	r.writePlain("Last %d tracks:\n\n", len(tracks))
	for i, t := range tracks {
		r.writePlain("%d. %s\n", i+1, t.Label())
		r.writePlain("   Observed: %s\n", t.ObservedAt.Local().Format(time.RFC822))
	}
	return nil
}

func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recently observed tracks",
		Flags: []cli.Flag{
			configFlag(),
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum entries to show",
				Value: 20,
			},
		},
		Action: r.History,
	}
}
