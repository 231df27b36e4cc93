// Package pagination provides the data model and arithmetic for page-based listings.
//
// This package contains the pagination logic shared by the controller, the
// remote source, the TUI and the CLI commands, including:
//   - Filter, PageRequest, PageResult and Item: the request/response model
//   - Params: CLI flag parsing and validation for page-based requests
//   - Meta: previous/next and summary metadata for a rendered page
//   - ComputeView: the compact page-selector window with ellipsis tokens
//
// All page numbers are 1-based. A total page count of 0 means the total is
// unknown or empty, in which case page 1 is the only valid page.
package pagination
