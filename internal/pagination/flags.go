package pagination

import (
	"errors"
	"fmt"
)

// Pagination defaults and validation limits.
const (
	DefaultPage         = 1
	MinPage             = 1
	DefaultPageSize     = 3
	MinPageSize         = 1
	MaxPageSize         = 1000
	DefaultWindowRadius = 2
)

// Common validation errors.
var (
	ErrInvalidPage     = errors.New("page must be >= 1")
	ErrInvalidPageSize = errors.New("page-size must be between 1 and 1000")
	ErrNegativeRadius  = errors.New("window radius cannot be negative")
)

// Params holds CLI pagination flags and provides validation.
type Params struct {
	// Page is the 1-based page number requested on the command line.
	Page int

	// PageSize is the number of items per page.
	PageSize int

	// WindowRadius is the number of pages shown on each side of the current page.
	WindowRadius int
}

// NewParams creates Params with default values.
func NewParams() *Params {
	return &Params{
		Page:         DefaultPage,
		PageSize:     DefaultPageSize,
		WindowRadius: DefaultWindowRadius,
	}
}

// Validate checks that the parameters are within bounds (value receiver).
func (p Params) Validate() error {
	if p.Page < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if p.PageSize < MinPageSize || p.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, p.PageSize)
	}
	if p.WindowRadius < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeRadius, p.WindowRadius)
	}
	return nil
}

// Request builds the PageRequest described by these parameters and the given filter.
func (p Params) Request(filter Filter) PageRequest {
	return PageRequest{
		PageNumber: p.Page,
		PageSize:   p.PageSize,
		Filter:     filter.Normalize(),
	}
}

// TotalPages returns ceil(totalItems / pageSize).
// Returns 0 when totalItems is 0 (or negative) or when pageSize is not positive.
func TotalPages(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 0
	}
	pages := totalItems / pageSize
	if totalItems%pageSize > 0 {
		pages++
	}
	return pages
}

// ClampPage bounds page to [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	upper := totalPages
	if upper < MinPage {
		upper = MinPage
	}
	switch {
	case page < MinPage:
		return MinPage
	case page > upper:
		return upper
	default:
		return page
	}
}

// LastPage returns the last valid page for the given total, which is 1 when the total is unknown.
func LastPage(totalPages int) int {
	return max(MinPage, totalPages)
}
