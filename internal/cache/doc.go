// Package cache provides a file-based page cache with TTL expiration.
//
// Fetched pages are stored as JSON files under ~/.pagedview/cache/ so that
// paging back and forth over a slow remote collection does not repeat the
// same request within the TTL window. Key features:
//   - One file per page request, named by a SHA256 key of the canonical request
//   - Configurable TTL (default 5 minutes) via config file, environment or flag
//   - Expired entries are reported as ErrCacheExpired and removed lazily
//   - A disabled store answers every call with ErrCacheDisabled
package cache
