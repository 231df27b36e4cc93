package pagination

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:gochecknoglobals // Shared printer for locale-aware item counts.
var printer = message.NewPrinter(language.English)

// Meta contains metadata about a rendered page.
type Meta struct {
	CurrentPage int  `json:"current_page" yaml:"current_page"`
	PageSize    int  `json:"page_size"    yaml:"page_size"`
	TotalPages  int  `json:"total_pages"  yaml:"total_pages"`
	TotalItems  int  `json:"total_items"  yaml:"total_items"`
	HasPrevious bool `json:"has_previous" yaml:"has_previous"`
	HasNext     bool `json:"has_next"     yaml:"has_next"`
}

// NewMeta creates page metadata from the current page, page size and total item count.
func NewMeta(currentPage, pageSize, totalItems int) Meta {
	totalPages := TotalPages(totalItems, pageSize)
	if currentPage < MinPage {
		currentPage = MinPage
	}

	return Meta{
		CurrentPage: currentPage,
		PageSize:    pageSize,
		TotalPages:  totalPages,
		TotalItems:  max(totalItems, 0),
		HasPrevious: currentPage > MinPage,
		HasNext:     currentPage < totalPages,
	}
}

// Summary renders the "Showing page X of Y. Total items: N." line.
func (m Meta) Summary() string {
	return printer.Sprintf("Showing page %d of %d. Total items: %d.", m.CurrentPage, m.TotalPages, m.TotalItems)
}
