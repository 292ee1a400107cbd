package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Poller      PollerConfig      `toml:"poller"`
	Lyrics      LyricsConfig      `toml:"lyrics"`
	Overlay     OverlayConfig     `toml:"overlay"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Map converts the credentials to the map form consumed by the auth manager.
func (s SpotifyConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     s.ClientID,
		"client_secret": s.ClientSecret,
		"redirect_uri":  s.RedirectURI,
	}
}

// PollerConfig contains playback polling settings.
type PollerConfig struct {
	IntervalSecs int `toml:"interval_secs"`
}

// Interval returns the poll interval as a [time.Duration], falling
// back to 5 seconds when unset or nonsensical.
func (p PollerConfig) Interval() time.Duration {
	if p.IntervalSecs <= 0 {
		return 5 * time.Second
	}
	return time.Duration(p.IntervalSecs) * time.Second
}

// LyricsConfig contains lyrics provider settings.
type LyricsConfig struct {
	Endpoint  string `toml:"endpoint"`
	CacheSize int    `toml:"cache_size"`
}

// OverlayConfig contains presentation state written back on shutdown.
type OverlayConfig struct {
	Visible   bool `toml:"visible"`
	PositionX int  `toml:"position_x"`
	PositionY int  `toml:"position_y"`
}

// DatabaseConfig contains local storage settings.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	config.ApplyEnv()
	return &config, nil
}

// SaveConfig writes the configuration back to the specified path.
func SaveConfig(path string, config *Config) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from
// the embedded example config, with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.ApplyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path
// using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overlays Spotify credentials from the environment. Set
// variables win over file values so deployments can keep secrets out
// of the config file entirely.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("SPOTIFY_CLIENT_ID"); v != "" {
		c.Credentials.Spotify.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_CLIENT_SECRET"); v != "" {
		c.Credentials.Spotify.ClientSecret = v
	}
	if v := os.Getenv("SPOTIFY_REDIRECT_URI"); v != "" {
		c.Credentials.Spotify.RedirectURI = v
	}
}
