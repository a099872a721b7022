package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

type settingsEnv struct {
	StorageBackend string `env:"SHELF_STORAGE_BACKEND"`
	StoragePath    string `env:"SHELF_STORAGE_PATH"`
	LogLevel       string `env:"SHELF_LOG_LEVEL"`
	LogFile        string `env:"SHELF_LOG_FILE"`
	GamesDBRelay   string `env:"SHELF_GAMESDB_RELAY_URL"`
	Theme          string `env:"SHELF_THEME"`
}

type credentialsEnv struct {
	TMDBAPIKey         string `env:"SHELF_TMDB_API_KEY"`
	GamesDBAPIKey      string `env:"SHELF_GAMESDB_API_KEY"`
	PodcastIndexKey    string `env:"SHELF_PODCASTINDEX_API_KEY"`
	PodcastIndexSecret string `env:"SHELF_PODCASTINDEX_API_SECRET"`
}

func (c *Config) applyEnvOverrides() error {
	var e settingsEnv
	if err := ParseEnv(&e); err != nil {
		return err
	}
	if e.StorageBackend != "" {
		c.Storage.Backend = e.StorageBackend
	}
	if e.StoragePath != "" {
		c.Storage.Path = e.StoragePath
	}
	if e.LogLevel != "" {
		c.Logging.Level = e.LogLevel
	}
	if e.LogFile != "" {
		c.Logging.File = e.LogFile
	}
	if e.GamesDBRelay != "" {
		c.Providers.GamesDB.RelayURL = e.GamesDBRelay
	}
	if e.Theme != "" {
		c.UI.Theme = e.Theme
	}
	return nil
}

// applyEnvOverrides replaces file values with any SHELF_*_API_* variables and
// marks the credential set as coming from the environment.
func (c *Credentials) applyEnvOverrides() error {
	var e credentialsEnv
	if err := ParseEnv(&e); err != nil {
		return err
	}
	overridden := false
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
			overridden = true
		}
	}
	set(&c.TMDBAPIKey, e.TMDBAPIKey)
	set(&c.GamesDBAPIKey, e.GamesDBAPIKey)
	set(&c.PodcastIndexKey, e.PodcastIndexKey)
	set(&c.PodcastIndexSecret, e.PodcastIndexSecret)
	if overridden {
		c.Source = SourceEnv
	}
	return nil
}
