package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rshade/pagedview/internal/pagination"
)

const (
	entryFileExtension = ".json"
	bytesPerMB         = 1024 * 1024
)

// Common cache errors.
var (
	ErrCacheNotFound   = errors.New("cache entry not found")
	ErrCacheExpired    = errors.New("cache entry expired")
	ErrInvalidCacheKey = errors.New("cache key cannot be empty")
	ErrCacheDisabled   = errors.New("cache is disabled")
)

// FileStore keeps page results as JSON files in a single directory.
// Safe for concurrent use.
type FileStore struct {
	directory string
	enabled   bool
	ttl       time.Duration

	// maxBytes bounds the directory size after each write (0 = unlimited).
	maxBytes int64

	mu sync.RWMutex
}

// NewFileStore creates a store rooted at directory, creating it if needed.
// A disabled store is returned without touching the filesystem.
func NewFileStore(directory string, enabled bool, ttl time.Duration, maxSizeMB int) (*FileStore, error) {
	if !enabled {
		return &FileStore{enabled: false}, nil
	}
	if directory == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidTTL, ttl)
	}
	if err := os.MkdirAll(directory, 0750); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &FileStore{
		directory: directory,
		enabled:   true,
		ttl:       ttl,
		maxBytes:  int64(max(maxSizeMB, 0)) * bytesPerMB,
	}, nil
}

// Get returns the live entry for key.
// Expired entries are removed and reported as ErrCacheExpired.
func (s *FileStore) Get(key string) (*Entry, error) {
	if !s.enabled {
		return nil, ErrCacheDisabled
	}
	if key == "" {
		return nil, ErrInvalidCacheKey
	}

	path := s.entryPath(key)

	s.mu.RLock()
	entry, err := readEntry(path)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	if entry.IsExpired() {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrCacheExpired
	}
	return entry, nil
}

// Set writes data under key with the store TTL, replacing any existing entry.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	entryData, err := json.Marshal(NewEntry(key, data, s.ttl))
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.entryPath(key)
	tmp := path + ".tmp"
	if writeErr := os.WriteFile(tmp, entryData, 0600); writeErr != nil {
		return fmt.Errorf("failed to write cache file: %w", writeErr)
	}
	if renameErr := os.Rename(tmp, path); renameErr != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename cache file: %w", renameErr)
	}

	return s.enforceSizeLocked()
}

// GetPage decodes the cached page result for key.
func (s *FileStore) GetPage(key string) (pagination.PageResult, error) {
	entry, err := s.Get(key)
	if err != nil {
		return pagination.PageResult{}, err
	}
	var result pagination.PageResult
	if unmarshalErr := json.Unmarshal(entry.Data, &result); unmarshalErr != nil {
		return pagination.PageResult{}, fmt.Errorf("failed to decode cached page: %w", unmarshalErr)
	}
	return result, nil
}

// SetPage stores a page result under key.
func (s *FileStore) SetPage(key string, result pagination.PageResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode page: %w", err)
	}
	return s.Set(key, data)
}

// Delete removes the entry for key. Missing entries are not an error.
func (s *FileStore) Delete(key string) error {
	if !s.enabled {
		return ErrCacheDisabled
	}
	if key == "" {
		return ErrInvalidCacheKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.entryPath(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete cache file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (s *FileStore) Clear() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.entryFilesLocked()
	if err != nil {
		return 0, err
	}
	for i, f := range files {
		if removeErr := os.Remove(f.path); removeErr != nil && !os.IsNotExist(removeErr) {
			return i, fmt.Errorf("failed to remove cache file %s: %w", filepath.Base(f.path), removeErr)
		}
	}
	return len(files), nil
}

// CleanupExpired removes expired and unreadable entries and returns how many were deleted.
func (s *FileStore) CleanupExpired() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := s.entryFilesLocked()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, f := range files {
		entry, readErr := readEntry(f.path)
		if readErr == nil && !entry.IsExpired() {
			continue
		}
		if os.Remove(f.path) == nil {
			removed++
		}
	}
	return removed, nil
}

// Size returns the total size of all entries in bytes.
func (s *FileStore) Size() (int64, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.entryFilesLocked()
	if err != nil {
		return 0, err
	}
	var total int64
	for _, f := range files {
		total += f.size
	}
	return total, nil
}

// Count returns the number of entries, including expired ones not yet removed.
func (s *FileStore) Count() (int, error) {
	if !s.enabled {
		return 0, ErrCacheDisabled
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.entryFilesLocked()
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// IsEnabled reports whether the store is active.
func (s *FileStore) IsEnabled() bool {
	return s.enabled
}

// Directory returns the cache directory path.
func (s *FileStore) Directory() string {
	return s.directory
}

// TTL returns the lifetime given to new entries.
func (s *FileStore) TTL() time.Duration {
	return s.ttl
}

type entryFile struct {
	path    string
	size    int64
	modTime time.Time
}

func (s *FileStore) entryFilesLocked() ([]entryFile, error) {
	dirEntries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	files := make([]entryFile, 0, len(dirEntries))
	for _, d := range dirEntries {
		if d.IsDir() || filepath.Ext(d.Name()) != entryFileExtension {
			continue
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			continue
		}
		files = append(files, entryFile{
			path:    filepath.Join(s.directory, d.Name()),
			size:    info.Size(),
			modTime: info.ModTime(),
		})
	}
	return files, nil
}

// enforceSizeLocked evicts the oldest entries until the directory fits maxBytes.
func (s *FileStore) enforceSizeLocked() error {
	if s.maxBytes <= 0 {
		return nil
	}
	files, err := s.entryFilesLocked()
	if err != nil {
		return err
	}

	var total int64
	for _, f := range files {
		total += f.size
	}
	if total <= s.maxBytes {
		return nil
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })
	for _, f := range files {
		if total <= s.maxBytes {
			break
		}
		if os.Remove(f.path) == nil {
			total -= f.size
		}
	}
	return nil
}

// entryPath maps a key to its file. Keys from GenerateKey are hex and need no escaping;
// other keys are hashed so that any string is filesystem safe.
func (s *FileStore) entryPath(key string) string {
	if !isHexKey(key) {
		key = hashString(key)
	}
	return filepath.Join(s.directory, key+entryFileExtension)
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCacheNotFound
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var entry Entry
	if unmarshalErr := json.Unmarshal(data, &entry); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal cache entry: %w", unmarshalErr)
	}
	return &entry, nil
}
