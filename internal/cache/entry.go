package cache

import (
	"encoding/json"
	"errors"
	"time"
)

// Entry is a single cached page with TTL metadata.
type Entry struct {
	// Key is the SHA256 key of the page request.
	Key string `json:"key"`

	// Data is the cached page result (JSON).
	Data json.RawMessage `json:"data"`

	// CreatedAt is when the entry was written.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is when the entry stops being served.
	ExpiresAt time.Time `json:"expires_at"`
}

// NewEntry creates an entry that expires ttl after now.
func NewEntry(key string, data json.RawMessage, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Key:       key,
		Data:      data,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the entry is past its expiration time.
func (e *Entry) IsExpired() bool {
	return !time.Now().Before(e.ExpiresAt)
}

// TimeUntilExpiration returns the remaining lifetime, or 0 if already expired.
func (e *Entry) TimeUntilExpiration() time.Duration {
	return max(time.Until(e.ExpiresAt), 0)
}

// MarshalJSON writes timestamps as RFC3339Nano so sub-second TTLs survive a round trip.
func (e *Entry) MarshalJSON() ([]byte, error) {
	type alias Entry
	return json.Marshal(&struct {
		*alias

		CreatedAt string `json:"created_at"`
		ExpiresAt string `json:"expires_at"`
	}{
		alias:     (*alias)(e),
		CreatedAt: e.CreatedAt.Format(time.RFC3339Nano),
		ExpiresAt: e.ExpiresAt.Format(time.RFC3339Nano),
	})
}

// UnmarshalJSON parses the RFC3339Nano timestamps written by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if e == nil {
		return errors.New("cannot unmarshal into nil Entry")
	}
	type alias Entry
	aux := &struct {
		*alias

		CreatedAt string `json:"created_at"`
		ExpiresAt string `json:"expires_at"`
	}{
		alias: (*alias)(e),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, aux.CreatedAt); err != nil {
		return err
	}
	if e.ExpiresAt, err = time.Parse(time.RFC3339Nano, aux.ExpiresAt); err != nil {
		return err
	}
	return nil
}
