package main

import (
	"context"
	"os"

	"github.com/desertthunder/lyrio/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file (when absent) and initializes the
// database schema.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return err
		}
		r.writePlain("✓ Created %s. Add your Spotify credentials\n", configPath)
	} else {
		r.writePlain("Config file already exists at %s\n", configPath)
	}

	config := r.reloadConfig(configPath)

	db, err := r.openDatabase(config)
	if err != nil {
		return err
	}
	defer db.Close()

	r.writePlain("✓ Database ready at %s\n", config.Database.Path)
	return nil
}

func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize configuration and database",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}
