package config

import (
	"path/filepath"

	"github.com/rshade/pagedview/internal/logging"
)

// tuiLogFileName is used when the TUI runs with debug logging but no log file is configured.
const tuiLogFileName = "pagedview.log"

// ToLoggingConfig converts the logging section for plain command-line use.
//   - Level and Format are copied directly
//   - If File is set, Output becomes "file"
//   - Otherwise logs go to stderr
func (lc LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// ToTUILoggingConfig converts the logging section for the interactive browser,
// which owns the terminal. Logs go to the configured file; with debug enabled and
// no file configured they go to pagedview.log in the config directory; otherwise
// they are discarded.
func (lc LoggingConfig) ToTUILoggingConfig(debug bool) logging.Config {
	cfg := lc.ToLoggingConfig()
	if lc.File != "" {
		return cfg
	}
	if !debug {
		cfg.Output = logging.OutputDiscard
		return cfg
	}

	dir, err := GetConfigDir()
	if err != nil {
		cfg.Output = logging.OutputDiscard
		return cfg
	}
	cfg.Output = logging.OutputFile
	cfg.File = filepath.Join(dir, tuiLogFileName)
	return cfg
}

// GetLoggingConfig returns the Logging section of the global configuration.
// Overrides such as --debug are applied by the caller.
func GetLoggingConfig() LoggingConfig {
	return GetGlobalConfig().Logging
}
