package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/lyrio/internal/shared"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("pipe closed")
}

func newTestRunner(out io.Writer) *Runner {
	return NewRunner(RunnerOpts{
		Config: shared.DefaultConfig(),
		Logger: shared.NewLogger(io.Discard),
		Output: out,
	})
}

func TestRunner(t *testing.T) {
	t.Run("Register Exposes All Commands", func(t *testing.T) {
		commands := newTestRunner(&bytes.Buffer{}).register()

		names := map[string]bool{}
		for _, command := range commands {
			names[command.Name] = true
		}
		for _, want := range []string{"setup", "auth", "run", "lyrics", "history"} {
			if !names[want] {
				t.Errorf("expected command %q to be registered", want)
			}
		}
	})

	t.Run("WritePlain", func(t *testing.T) {
		var buf bytes.Buffer
		runner := newTestRunner(&buf)

		if err := runner.writePlain("track: %s", "Song"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "track: Song" {
			t.Errorf("unexpected output: %q", buf.String())
		}

		if err := newTestRunner(failingWriter{}).writePlain("x"); err == nil {
			t.Error("expected an error from a failing writer")
		}
	})

	t.Run("WritePlainln Wraps With Newlines", func(t *testing.T) {
		var buf bytes.Buffer
		runner := newTestRunner(&buf)

		if err := runner.writePlainln("done"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if buf.String() != "\ndone\n" {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("ReloadConfig", func(t *testing.T) {
		t.Run("Default Path Keeps Startup Config", func(t *testing.T) {
			runner := newTestRunner(&bytes.Buffer{})
			runner.config.Credentials.Spotify.ClientID = "startup_client"

			config := runner.reloadConfig("config.toml")
			if config.Credentials.Spotify.ClientID != "startup_client" {
				t.Error("expected the startup config to be reused")
			}
		})

		t.Run("Explicit Path Is Loaded", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "custom.toml")
			custom := shared.DefaultConfig()
			custom.Credentials.Spotify.ClientID = "custom_client"
			if err := shared.SaveConfig(path, custom); err != nil {
				t.Fatal(err)
			}

			config := newTestRunner(&bytes.Buffer{}).reloadConfig(path)
			if config.Credentials.Spotify.ClientID != "custom_client" {
				t.Errorf("expected the custom config, got %q", config.Credentials.Spotify.ClientID)
			}
		})

		t.Run("Unreadable Path Falls Back To Defaults", func(t *testing.T) {
			config := newTestRunner(&bytes.Buffer{}).reloadConfig(filepath.Join(t.TempDir(), "absent.toml"))
			if config == nil {
				t.Fatal("expected a fallback config")
			}
		})
	})

	t.Run("OpenDatabase Migrates", func(t *testing.T) {
		runner := newTestRunner(&bytes.Buffer{})
		config := shared.DefaultConfig()
		config.Database.Path = filepath.Join(t.TempDir(), "lyrio.db")

		db, err := runner.openDatabase(config)
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		var name string
		if err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'tokens'").Scan(&name); err != nil {
			t.Errorf("expected migrated schema: %v", err)
		}
	})

	t.Run("ConfigFlag Default", func(t *testing.T) {
		flag := configFlag()
		if flag.Name != "config" || flag.Value != "config.toml" {
			t.Errorf("unexpected flag: %+v", flag)
		}
		if !strings.Contains(flag.Usage, "config") {
			t.Errorf("unexpected usage text: %q", flag.Usage)
		}
	})
}
