// Package config loads pagedview settings from ~/.pagedview/config.yaml,
// a .env file and PAGEDVIEW_* environment variables, in that order of precedence
// (later sources win). Command-line flags are applied last by the cli package.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/pagedview/internal/cache"
	"github.com/rshade/pagedview/internal/pagination"
	"github.com/rshade/pagedview/internal/source"
)

// configFileName is the name of the config file inside the config directory.
const configFileName = "config.yaml"

// Theme names.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Output formats for non-interactive commands.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Validation errors.
var (
	ErrInvalidBaseURL = errors.New("source.base_url must be an http or https URL")
	ErrInvalidTimeout = errors.New("source.timeout must be positive")
	ErrInvalidRate    = errors.New("source.rate_limit cannot be negative")
	ErrInvalidTheme   = errors.New("tui.theme must be dark or light")
	ErrInvalidFormat  = errors.New("output.format must be table or json")
	ErrInvalidLevel   = errors.New("logging.level is not a valid level")
)

// Config is the full pagedview configuration.
type Config struct {
	Source     SourceConfig     `yaml:"source"`
	Pagination PaginationConfig `yaml:"pagination"`
	Cache      CacheConfig      `yaml:"cache"`
	Logging    LoggingConfig    `yaml:"logging"`
	Output     OutputConfig     `yaml:"output"`
	TUI        TUIConfig        `yaml:"tui"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

// SourceConfig describes the remote collection.
type SourceConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	RateLimit float64       `yaml:"rate_limit"`
	Burst     int           `yaml:"burst"`
	Retries   int           `yaml:"retries"`
	UserAgent string        `yaml:"user_agent,omitempty"`
}

// PaginationConfig holds page size and selector width.
type PaginationConfig struct {
	PageSize     int `yaml:"page_size"`
	WindowRadius int `yaml:"window_radius"`
}

// CacheConfig controls the on-disk page cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Directory string        `yaml:"directory,omitempty"`
	TTL       time.Duration `yaml:"ttl"`
	MaxSizeMB int           `yaml:"max_size_mb"`
}

// LoggingConfig controls log level, format and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// OutputConfig sets the default format of the list command.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// TUIConfig holds interactive display preferences.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// MetricsConfig enables the Prometheus endpoint when Address is set.
type MetricsConfig struct {
	Address string `yaml:"address,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Source: SourceConfig{
			BaseURL: source.DefaultBaseURL,
			Timeout: source.DefaultTimeout,
		},
		Pagination: PaginationConfig{
			PageSize:     pagination.DefaultPageSize,
			WindowRadius: pagination.DefaultWindowRadius,
		},
		Cache: CacheConfig{
			Enabled:   true,
			TTL:       cache.DefaultTTL,
			MaxSizeMB: cache.DefaultMaxSizeMB,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Output: OutputConfig{Format: FormatTable},
		TUI:    TUIConfig{Theme: ThemeDark},
	}
}

// Load builds a Config from defaults, the config file at path (if it exists),
// a .env file in the working directory and the environment.
// An empty path uses the default location.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}

	if err := LoadDotEnv(""); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks every section and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.Source.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.Source.BaseURL))
	}
	if c.Source.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %s", ErrInvalidTimeout, c.Source.Timeout))
	}
	if c.Source.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidRate, c.Source.RateLimit))
	}

	params := pagination.Params{
		Page:         pagination.DefaultPage,
		PageSize:     c.Pagination.PageSize,
		WindowRadius: c.Pagination.WindowRadius,
	}
	if err = params.Validate(); err != nil {
		errs = append(errs, err)
	}

	if c.Cache.Enabled {
		if err = cache.ValidateTTL(c.Cache.TTL); err != nil {
			errs = append(errs, err)
		}
	}

	if !validLevel(c.Logging.Level) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLevel, c.Logging.Level))
	}
	if c.Output.Format != FormatTable && c.Output.Format != FormatJSON {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format))
	}
	if c.TUI.Theme != ThemeDark && c.TUI.Theme != ThemeLight {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidTheme, c.TUI.Theme))
	}

	return errors.Join(errs...)
}

// CacheDir returns the configured cache directory or the default under the config directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Directory != "" {
		return c.Cache.Directory, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}

// ConfigPath returns the default config file location.
func ConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
