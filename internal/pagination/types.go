package pagination

import (
	"fmt"
	"strings"
)

// Item is a single record of the remote collection.
// ID is the identifying key used when rendering; Title and Body are display fields.
type Item struct {
	ID     int    `json:"id"     yaml:"id"`
	UserID int    `json:"userId" yaml:"user_id"`
	Title  string `json:"title"  yaml:"title"`
	Body   string `json:"body"   yaml:"body"`
}

// Filter holds user-supplied constraints on the collection.
// An empty field means "no constraint on this field".
type Filter struct {
	ID    string `json:"id,omitempty"    yaml:"id,omitempty"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
	Body  string `json:"body,omitempty"  yaml:"body,omitempty"`
}

// Normalize returns a copy of the filter with surrounding whitespace removed,
// so that a field containing only spaces is treated as unset.
func (f Filter) Normalize() Filter {
	return Filter{
		ID:    strings.TrimSpace(f.ID),
		Title: strings.TrimSpace(f.Title),
		Body:  strings.TrimSpace(f.Body),
	}
}

// IsEmpty reports whether no field constrains the collection.
func (f Filter) IsEmpty() bool {
	n := f.Normalize()
	return n.ID == "" && n.Title == "" && n.Body == ""
}

// String renders the active constraints as "field~value" pairs for status lines and logs.
func (f Filter) String() string {
	n := f.Normalize()
	var parts []string
	if n.ID != "" {
		parts = append(parts, "id="+n.ID)
	}
	if n.Title != "" {
		parts = append(parts, "title~"+n.Title)
	}
	if n.Body != "" {
		parts = append(parts, "body~"+n.Body)
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// PageRequest fully determines a fetch from the remote collection.
type PageRequest struct {
	PageNumber int    `json:"page_number"`
	PageSize   int    `json:"page_size"`
	Filter     Filter `json:"filter"`
}

// Validate checks that the page number and page size are positive.
func (r PageRequest) Validate() error {
	if r.PageNumber < MinPage {
		return fmt.Errorf("%w: got %d", ErrInvalidPage, r.PageNumber)
	}
	if r.PageSize < MinPageSize || r.PageSize > MaxPageSize {
		return fmt.Errorf("%w: got %d", ErrInvalidPageSize, r.PageSize)
	}
	return nil
}

// Offset returns the zero-based index of the first item on the requested page.
func (r PageRequest) Offset() int {
	return (r.PageNumber - 1) * r.PageSize
}

// PageResult is the response from the remote collection for a single page.
type PageResult struct {
	Items      []Item `json:"items"`
	TotalItems int    `json:"total_items"`

	// TotalKnown is false when the collection did not report a total count.
	// TotalItems is 0 in that case.
	TotalKnown bool `json:"total_known"`
}

// TotalPages returns the number of pages for this result at the given page size.
func (r PageResult) TotalPages(pageSize int) int {
	return TotalPages(r.TotalItems, pageSize)
}
