package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/pagedview/internal/cache"
	"github.com/rshade/pagedview/internal/logging"
	"github.com/rshade/pagedview/internal/pagination"
	"github.com/rshade/pagedview/internal/source"
)

// isolate points the config directory and working directory at temp dirs so
// neither the user's files nor a stray .env leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	t.Chdir(t.TempDir())
	return home
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNew_Defaults(t *testing.T) {
	cfg := New()
	assert.Equal(t, source.DefaultBaseURL, cfg.Source.BaseURL)
	assert.Equal(t, source.DefaultTimeout, cfg.Source.Timeout)
	assert.Equal(t, pagination.DefaultPageSize, cfg.Pagination.PageSize)
	assert.Equal(t, pagination.DefaultWindowRadius, cfg.Pagination.WindowRadius)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, cache.DefaultTTL, cfg.Cache.TTL)
	assert.Equal(t, ThemeDark, cfg.TUI.Theme)
	assert.Equal(t, FormatTable, cfg.Output.Format)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"bad scheme", func(c *Config) { c.Source.BaseURL = "ftp://x/posts" }, ErrInvalidBaseURL},
		{"no host", func(c *Config) { c.Source.BaseURL = "http:///posts" }, ErrInvalidBaseURL},
		{"zero timeout", func(c *Config) { c.Source.Timeout = 0 }, ErrInvalidTimeout},
		{"negative rate", func(c *Config) { c.Source.RateLimit = -1 }, ErrInvalidRate},
		{"page size", func(c *Config) { c.Pagination.PageSize = 0 }, pagination.ErrInvalidPageSize},
		{"radius", func(c *Config) { c.Pagination.WindowRadius = -1 }, pagination.ErrNegativeRadius},
		{"ttl", func(c *Config) { c.Cache.TTL = time.Millisecond }, cache.ErrInvalidTTL},
		{"level", func(c *Config) { c.Logging.Level = "chatty" }, ErrInvalidLevel},
		{"format", func(c *Config) { c.Output.Format = "xml" }, ErrInvalidFormat},
		{"theme", func(c *Config) { c.TUI.Theme = "neon" }, ErrInvalidTheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}

	t.Run("disabled cache skips ttl", func(t *testing.T) {
		cfg := New()
		cfg.Cache.Enabled = false
		cfg.Cache.TTL = 0
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, New(), cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	home := isolate(t)
	path := writeFile(t, filepath.Join(home, "config.yaml"), `
source:
  base_url: http://localhost:3001/posts
  rate_limit: 5
pagination:
  page_size: 10
tui:
  theme: light
unknown_section:
  ignored: true
`)
	t.Setenv(EnvPageSize, "25")
	t.Setenv(cache.EnvCacheEnabled, "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3001/posts", cfg.Source.BaseURL)
	assert.InDelta(t, 5, cfg.Source.RateLimit, 0)
	assert.Equal(t, source.DefaultTimeout, cfg.Source.Timeout, "omitted field keeps its default")
	assert.Equal(t, 25, cfg.Pagination.PageSize, "env beats file")
	assert.Equal(t, pagination.DefaultWindowRadius, cfg.Pagination.WindowRadius)
	assert.Equal(t, ThemeLight, cfg.TUI.Theme)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoad_Invalid(t *testing.T) {
	home := isolate(t)

	bad := writeFile(t, filepath.Join(home, "bad.yaml"), "source: [unterminated")
	_, err := Load(bad)
	assert.Error(t, err)

	invalid := writeFile(t, filepath.Join(home, "invalid.yaml"), "tui:\n  theme: neon\n")
	_, err = Load(invalid)
	assert.ErrorIs(t, err, ErrInvalidTheme)
}

func TestLoad_DotEnv(t *testing.T) {
	isolate(t)
	writeFile(t, ".env", "PAGEDVIEW_URL=http://dotenv.test/posts\n")
	t.Setenv(EnvBaseURL, "")
	require.NoError(t, os.Unsetenv(EnvBaseURL))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv.test/posts", cfg.Source.BaseURL)
	require.NoError(t, os.Unsetenv(EnvBaseURL))
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	isolate(t)
	path := writeFile(t, filepath.Join(t.TempDir(), "custom.env"), "PAGEDVIEW_THEME=light\n")
	t.Setenv(EnvTheme, "dark")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "dark", os.Getenv(EnvTheme))
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestApplyEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvBaseURL, "https://api.test/posts")
	t.Setenv(EnvTimeout, "3s")
	t.Setenv(EnvRateLimit, "2.5")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogFile, "/tmp/pv.log")
	t.Setenv(EnvTheme, "light")
	t.Setenv(EnvMetricsAddr, ":9090")
	t.Setenv(cache.EnvTTL, "1m")

	cfg := New()
	cfg.ApplyEnv()

	assert.Equal(t, "https://api.test/posts", cfg.Source.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Source.Timeout)
	assert.InDelta(t, 2.5, cfg.Source.RateLimit, 0)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "/tmp/pv.log", cfg.Logging.File)
	assert.Equal(t, ThemeLight, cfg.TUI.Theme)
	assert.Equal(t, ":9090", cfg.Metrics.Address)
	assert.Equal(t, time.Minute, cfg.Cache.TTL)

	t.Setenv(EnvTimeout, "soon")
	t.Setenv(EnvPageSize, "many")
	cfg = New()
	cfg.ApplyEnv()
	assert.Equal(t, source.DefaultTimeout, cfg.Source.Timeout, "unparseable values ignored")
	assert.Equal(t, pagination.DefaultPageSize, cfg.Pagination.PageSize)
}

func TestSaveRoundTrip(t *testing.T) {
	home := isolate(t)
	cfg := New()
	cfg.Source.BaseURL = "http://localhost:3001/posts"
	cfg.Cache.TTL = 90 * time.Second

	path := filepath.Join(home, "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCacheDir(t *testing.T) {
	home := isolate(t)
	cfg := New()

	dir, err := cfg.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "cache"), dir)

	cfg.Cache.Directory = "/var/cache/pv"
	dir, err = cfg.CacheDir()
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/pv", dir)
}

func TestGlobalConfig(t *testing.T) {
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Same(t, cfg, GetGlobalConfig())
	assert.Equal(t, "info", GetLogLevel())

	custom := New()
	custom.Logging.File = "/tmp/custom.log"
	SetGlobalConfig(custom)
	assert.Same(t, custom, GetGlobalConfig())
	assert.Equal(t, "/tmp/custom.log", GetLogFile())

	ResetGlobalConfigForTest()
	assert.NotSame(t, custom, GetGlobalConfig())
}

func TestEnsureDirs(t *testing.T) {
	home := filepath.Join(isolate(t), "sub")
	t.Setenv(EnvHome, home)
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	require.NoError(t, EnsureConfigDir())
	assert.DirExists(t, home)

	cfg := New()
	cfg.Logging.File = filepath.Join(home, "logs", "pv.log")
	SetGlobalConfig(cfg)
	require.NoError(t, EnsureLogDir())
	assert.DirExists(t, filepath.Join(home, "logs"))
}

func TestLoggingConversion(t *testing.T) {
	home := isolate(t)

	t.Run("stderr by default", func(t *testing.T) {
		lc := LoggingConfig{Level: "warn", Format: "json"}
		got := lc.ToLoggingConfig()
		assert.Equal(t, logging.OutputStderr, got.Output)
		assert.Equal(t, "warn", got.Level)
	})

	t.Run("file when set", func(t *testing.T) {
		got := LoggingConfig{File: "/tmp/x.log"}.ToLoggingConfig()
		assert.Equal(t, logging.OutputFile, got.Output)
		assert.Equal(t, "/tmp/x.log", got.File)
	})

	t.Run("tui discards without debug", func(t *testing.T) {
		got := LoggingConfig{Level: "info"}.ToTUILoggingConfig(false)
		assert.Equal(t, logging.OutputDiscard, got.Output)
	})

	t.Run("tui debug logs to config dir", func(t *testing.T) {
		got := LoggingConfig{Level: "debug"}.ToTUILoggingConfig(true)
		assert.Equal(t, logging.OutputFile, got.Output)
		assert.Equal(t, filepath.Join(home, "pagedview.log"), got.File)
	})

	t.Run("tui keeps configured file", func(t *testing.T) {
		got := LoggingConfig{File: "/tmp/y.log"}.ToTUILoggingConfig(false)
		assert.Equal(t, logging.OutputFile, got.Output)
	})
}
