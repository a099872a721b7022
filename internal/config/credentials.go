package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const credFileName = "credentials.json"

// Credential sources.
const (
	SourceFile = "file"
	SourceEnv  = "env"
)

// ErrNoCredentials means a provider needs a key nobody configured.
var ErrNoCredentials = errors.New("no credentials configured")

// Provider names accepted by Credentials.Set.
const (
	ProviderTMDB         = "tmdb"
	ProviderGamesDB      = "gamesdb"
	ProviderPodcastIndex = "podcastindex"
)

// Credentials are the provider API keys. They are kept out of config.yaml and
// written owner-only.
type Credentials struct {
	TMDBAPIKey         string    `json:"tmdb_api_key,omitempty"`
	GamesDBAPIKey      string    `json:"gamesdb_api_key,omitempty"`
	PodcastIndexKey    string    `json:"podcastindex_api_key,omitempty"`
	PodcastIndexSecret string    `json:"podcastindex_api_secret,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
	Source             string    `json:"-"` // "env" | "file" | ""
}

// CredentialsPath returns ~/.shelf/credentials.json.
func CredentialsPath() string {
	return filepath.Join(AppDir(), credFileName)
}

// LoadCredentials reads path (missing is fine) and applies env overrides.
func LoadCredentials(path string) (*Credentials, error) {
	c, err := LoadCredentialsFile(path)
	if err != nil {
		return nil, err
	}
	if err := c.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCredentialsFile reads path without looking at the environment. Use it
// before SaveCredentials so env keys never end up on disk.
func LoadCredentialsFile(path string) (*Credentials, error) {
	var c Credentials
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read credentials: %w", err)
	default:
		if err := json.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse credentials: %w", err)
		}
		c.Source = SourceFile
	}
	return &c, nil
}

// Set stores key (and secret, for podcastindex) for provider.
func (c *Credentials) Set(provider, key, secret string) error {
	key, secret = strings.TrimSpace(key), strings.TrimSpace(secret)
	if key == "" {
		return fmt.Errorf("empty key")
	}
	switch strings.ToLower(provider) {
	case ProviderTMDB:
		c.TMDBAPIKey = key
	case ProviderGamesDB:
		c.GamesDBAPIKey = key
	case ProviderPodcastIndex:
		if secret == "" {
			return fmt.Errorf("podcastindex needs both a key and a secret")
		}
		c.PodcastIndexKey, c.PodcastIndexSecret = key, secret
	default:
		return fmt.Errorf("unknown provider %q (want tmdb, gamesdb or podcastindex)", provider)
	}
	return nil
}

// Clear forgets provider's key; "" clears everything.
func (c *Credentials) Clear(provider string) error {
	switch strings.ToLower(provider) {
	case "":
		*c = Credentials{}
	case ProviderTMDB:
		c.TMDBAPIKey = ""
	case ProviderGamesDB:
		c.GamesDBAPIKey = ""
	case ProviderPodcastIndex:
		c.PodcastIndexKey, c.PodcastIndexSecret = "", ""
	default:
		return fmt.Errorf("unknown provider %q", provider)
	}
	return nil
}

// Configured reports which providers have usable keys.
func (c *Credentials) Configured() map[string]bool {
	return map[string]bool{
		ProviderTMDB:         c.TMDBAPIKey != "",
		ProviderGamesDB:      c.GamesDBAPIKey != "",
		ProviderPodcastIndex: c.PodcastIndexKey != "" && c.PodcastIndexSecret != "",
	}
}

// SaveCredentials writes c to path with 0600, inside a 0700 directory.
func SaveCredentials(path string, c *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	out := *c
	out.UpdatedAt = time.Now().UTC()
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// DeleteCredentials removes the credentials file. Missing is fine.
func DeleteCredentials(path string) error {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
