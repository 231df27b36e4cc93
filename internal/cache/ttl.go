package cache

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// TTL limits and environment overrides.
const (
	// DefaultTTL keeps a page for five minutes.
	DefaultTTL = 5 * time.Minute

	// MinTTL is the shortest accepted TTL.
	MinTTL = time.Second

	// MaxTTL is the longest accepted TTL.
	MaxTTL = 24 * time.Hour

	// DefaultMaxSizeMB bounds the cache directory.
	DefaultMaxSizeMB = 50

	hoursPerDay    = 24
	minutesPerHour = 60

	EnvTTL          = "PAGEDVIEW_CACHE_TTL"
	EnvCacheEnabled = "PAGEDVIEW_CACHE_ENABLED"
	EnvCacheDir     = "PAGEDVIEW_CACHE_DIR"
	EnvCacheMaxSize = "PAGEDVIEW_CACHE_MAX_SIZE_MB"
)

// ErrInvalidTTL is returned for a TTL outside [MinTTL, MaxTTL].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %s and %s", MinTTL, MaxTTL)

// ParseTTL accepts integer seconds ("300") or a Go duration ("5m", "1h30m").
func ParseTTL(s string) (time.Duration, error) {
	var d time.Duration
	if seconds, err := strconv.Atoi(s); err == nil {
		d = time.Duration(seconds) * time.Second
	} else {
		parsed, parseErr := time.ParseDuration(s)
		if parseErr != nil {
			return 0, fmt.Errorf("invalid TTL format: %w", parseErr)
		}
		d = parsed
	}

	if err := ValidateTTL(d); err != nil {
		return 0, err
	}
	return d, nil
}

// ValidateTTL checks d against the accepted range.
func ValidateTTL(d time.Duration) error {
	if d < MinTTL || d > MaxTTL {
		return fmt.Errorf("%w: got %s", ErrInvalidTTL, d)
	}
	return nil
}

// TTLFromEnv returns the TTL override, or fallback when unset or invalid.
func TTLFromEnv(fallback time.Duration) time.Duration {
	v := os.Getenv(EnvTTL)
	if v == "" {
		return fallback
	}
	d, err := ParseTTL(v)
	if err != nil {
		return fallback
	}
	return d
}

// EnabledFromEnv returns the enabled override, or fallback when unset or unparseable.
func EnabledFromEnv(fallback bool) bool {
	v := os.Getenv(EnvCacheEnabled)
	if v == "" {
		return fallback
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return enabled
}

// DirFromEnv returns the cache directory override, or fallback when unset.
func DirFromEnv(fallback string) string {
	if v := os.Getenv(EnvCacheDir); v != "" {
		return v
	}
	return fallback
}

// MaxSizeFromEnv returns the size limit override in MB, or fallback when unset or invalid.
func MaxSizeFromEnv(fallback int) int {
	v := os.Getenv(EnvCacheMaxSize)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// FormatDuration renders a TTL compactly: "45s", "5m", "1h30m", "2d".
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.0fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	case d < hoursPerDay*time.Hour:
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	default:
		days := int(d.Hours()) / hoursPerDay
		hours := int(d.Hours()) % hoursPerDay
		if hours == 0 {
			return fmt.Sprintf("%dd", days)
		}
		return fmt.Sprintf("%dd%dh", days, hours)
	}
}
