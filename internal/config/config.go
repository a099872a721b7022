package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	appDirName     = ".shelf"
	configFileName = "config.yaml"
)

// Config holds all shelf configuration. Secrets live in Credentials, not here.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Search    SearchConfig    `yaml:"search"`
	Providers ProvidersConfig `yaml:"providers"`
	Logging   LoggingConfig   `yaml:"logging"`
	UI        UIConfig        `yaml:"ui"`
}

// StorageConfig selects the snapshot backend.
type StorageConfig struct {
	Backend string `yaml:"backend"` // json, sqlite, memory
	Path    string `yaml:"path"`    // directory for json, file for sqlite
}

// SearchConfig tunes the add-item search box.
type SearchConfig struct {
	Debounce       string `yaml:"debounce"`
	MinQueryLength int    `yaml:"min_query_length"`
	MockLatency    string `yaml:"mock_latency"`
	Timeout        string `yaml:"timeout"`
}

// ProvidersConfig holds the endpoints of the metadata providers.
type ProvidersConfig struct {
	TMDB         TMDBConfig         `yaml:"tmdb"`
	Books        BooksConfig        `yaml:"books"`
	GamesDB      GamesDBConfig      `yaml:"gamesdb"`
	PodcastIndex PodcastIndexConfig `yaml:"podcastindex"`
}

type TMDBConfig struct {
	BaseURL      string `yaml:"base_url"`
	ImageBaseURL string `yaml:"image_base_url"`
}

type BooksConfig struct {
	BaseURL string `yaml:"base_url"`
}

type GamesDBConfig struct {
	BaseURL  string `yaml:"base_url"`
	RelayURL string `yaml:"relay_url"` // empty talks to the API directly
}

type PodcastIndexConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // "-" logs to stderr
}

type UIConfig struct {
	Theme string `yaml:"theme"` // classic, neon, mono
}

// Default values.
const (
	DefaultDebounce       = 500 * time.Millisecond
	DefaultMinQueryLength = 2
	DefaultMockLatency    = 600 * time.Millisecond
	DefaultTimeout        = 10 * time.Second
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	dir := AppDir()
	return &Config{
		Storage: StorageConfig{
			Backend: "json",
			Path:    filepath.Join(dir, "data"),
		},
		Search: SearchConfig{
			Debounce:       DefaultDebounce.String(),
			MinQueryLength: DefaultMinQueryLength,
			MockLatency:    DefaultMockLatency.String(),
			Timeout:        DefaultTimeout.String(),
		},
		Providers: ProvidersConfig{
			TMDB: TMDBConfig{
				BaseURL:      "https://api.themoviedb.org/3",
				ImageBaseURL: "https://image.tmdb.org/t/p/w500",
			},
			Books: BooksConfig{
				BaseURL: "https://www.googleapis.com/books/v1",
			},
			GamesDB: GamesDBConfig{
				BaseURL:  "https://api.thegamesdb.net/v1",
				RelayURL: "https://corsproxy.io/?",
			},
			PodcastIndex: PodcastIndexConfig{
				BaseURL:   "https://api.podcastindex.org/api/1.0",
				UserAgent: "shelf/1.0",
			},
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dir, "shelf.log"),
		},
		UI: UIConfig{Theme: "classic"},
	}
}

// AppDir is ~/.shelf, or ./.shelf when the home directory is unknown.
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return appDirName
	}
	return filepath.Join(home, appDirName)
}

// DefaultConfigPath returns SHELF_CONFIG or ~/.shelf/config.yaml.
func DefaultConfigPath() string {
	if p := strings.TrimSpace(os.Getenv("SHELF_CONFIG")); p != "" {
		return p
	}
	return filepath.Join(AppDir(), configFileName)
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects settings nothing downstream can use.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Storage.Backend) {
	case "json", "sqlite", "memory":
	default:
		return fmt.Errorf("storage.backend: unknown backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend != "memory" && strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path is required")
	}
	if c.Search.MinQueryLength < 1 {
		return fmt.Errorf("search.min_query_length must be at least 1, got %d", c.Search.MinQueryLength)
	}
	return nil
}

func (c *Config) GetDebounce() time.Duration {
	return parseDuration(c.Search.Debounce, DefaultDebounce)
}

func (c *Config) GetMockLatency() time.Duration {
	return parseDuration(c.Search.MockLatency, DefaultMockLatency)
}

func (c *Config) GetTimeout() time.Duration {
	return parseDuration(c.Search.Timeout, DefaultTimeout)
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return def
	}
	return d
}
