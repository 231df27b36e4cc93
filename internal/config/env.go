package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/rshade/pagedview/internal/cache"
)

// Environment variable names.
const (
	EnvHome        = "PAGEDVIEW_HOME"
	EnvBaseURL     = "PAGEDVIEW_URL"
	EnvTimeout     = "PAGEDVIEW_TIMEOUT"
	EnvRateLimit   = "PAGEDVIEW_RATE_LIMIT"
	EnvPageSize    = "PAGEDVIEW_PAGE_SIZE"
	EnvLogLevel    = "PAGEDVIEW_LOG_LEVEL"
	EnvLogFormat   = "PAGEDVIEW_LOG_FORMAT"
	EnvLogFile     = "PAGEDVIEW_LOG_FILE"
	EnvTheme       = "PAGEDVIEW_THEME"
	EnvMetricsAddr = "PAGEDVIEW_METRICS_ADDR"

	dotEnvFile = ".env"
)

// LoadDotEnv loads variables from path (".env" when empty) without overriding
// variables already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = dotEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from PAGEDVIEW_* variables. Unparseable values are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Source.BaseURL = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Source.Timeout = d
		}
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Source.RateLimit = f
		}
	}
	if v := os.Getenv(EnvPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Pagination.PageSize = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Logging.File = v
	}
	if v := os.Getenv(EnvTheme); v != "" {
		c.TUI.Theme = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.Metrics.Address = v
	}

	c.Cache.Enabled = cache.EnabledFromEnv(c.Cache.Enabled)
	c.Cache.Directory = cache.DirFromEnv(c.Cache.Directory)
	c.Cache.TTL = cache.TTLFromEnv(c.Cache.TTL)
	c.Cache.MaxSizeMB = cache.MaxSizeFromEnv(c.Cache.MaxSizeMB)
}

func validLevel(level string) bool {
	if level == "" {
		return true
	}
	_, err := zerolog.ParseLevel(level)
	return err == nil
}
