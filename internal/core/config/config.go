// Package config handles configuration loading and validation for stride.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Catalog CatalogConfig `yaml:"catalog"`
	Feed    FeedConfig    `yaml:"feed"`
	Upload  UploadConfig  `yaml:"upload"`
	DataDir string        `yaml:"-"` // set by caller, not from config file
}

// APIConfig locates the activity API.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CatalogConfig tunes the paginated activity catalog.
type CatalogConfig struct {
	PageSize int `yaml:"page_size"`
}

// FeedConfig tunes the recent activity feed.
type FeedConfig struct {
	Limit int `yaml:"limit"`
}

// UploadConfig limits files sent to the API.
type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
	// TrackTypes are the MIME types picked up by bulk import.
	TrackTypes []string `yaml:"track_types"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "http://localhost:8000/api/v1",
			Timeout: 30 * time.Second,
		},
		Catalog: CatalogConfig{PageSize: 20},
		Feed:    FeedConfig{Limit: 5},
		Upload: UploadConfig{
			MaxBytes: 50 << 20,
			TrackTypes: []string{
				"application/gpx+xml",
				"application/vnd.ant.fit",
				"application/vnd.garmin.tcx+xml",
			},
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg, err := Read(configPath, dataDir)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read parses the config file and applies defaults without validating, so
// diagnostics can report every invalid field.
func Read(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = defaults.API.Timeout
	}
	if c.Catalog.PageSize == 0 {
		c.Catalog.PageSize = defaults.Catalog.PageSize
	}
	if c.Feed.Limit == 0 {
		c.Feed.Limit = defaults.Feed.Limit
	}
	if c.Upload.MaxBytes == 0 {
		c.Upload.MaxBytes = defaults.Upload.MaxBytes
	}
	if len(c.Upload.TrackTypes) == 0 {
		c.Upload.TrackTypes = defaults.Upload.TrackTypes
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if u, err := url.Parse(c.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = errs.Append("api.base_url", fmt.Errorf("must be an absolute URL, got %q", c.API.BaseURL))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = errs.Append("api.base_url", fmt.Errorf("scheme must be http or https"))
	}

	if c.API.Timeout < 0 {
		errs = errs.Append("api.timeout", fmt.Errorf("must not be negative"))
	}

	if c.Catalog.PageSize < 1 || c.Catalog.PageSize > 200 {
		errs = errs.Append("catalog.page_size", fmt.Errorf("must be between 1 and 200"))
	}

	if c.Feed.Limit < 1 || c.Feed.Limit > 50 {
		errs = errs.Append("feed.limit", fmt.Errorf("must be between 1 and 50"))
	}

	if c.Upload.MaxBytes < 1 {
		errs = errs.Append("upload.max_bytes", fmt.Errorf("must be positive"))
	}

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	return errs.ToError()
}

// CredentialsFile returns the path to the stored bearer token.
func (c *Config) CredentialsFile() string {
	return filepath.Join(c.DataDir, "credentials.json")
}

// LogsDir returns the directory for per-run log files, such as batch logs.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}
