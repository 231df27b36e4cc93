package pagination

import (
	"sort"
	"strconv"
)

// Token is a single page-selector entry: either a page number or an ellipsis marker.
// Ellipsis tokens are not interactive.
type Token struct {
	Page     int
	Ellipsis bool
}

// PageToken returns a token for page p.
func PageToken(p int) Token {
	return Token{Page: p}
}

// EllipsisToken returns a token for an elided range of pages.
func EllipsisToken() Token {
	return Token{Ellipsis: true}
}

// String renders the token as it appears on a page bar.
func (t Token) String() string {
	if t.Ellipsis {
		return "…"
	}
	return strconv.Itoa(t.Page)
}

// ComputeView returns the compact page-selector window for the current page.
//
// Page 1 is always present, the last page is present when totalPages > 1, and
// every page within radius of currentPage is present. A single ellipsis
// replaces each gap between consecutive pages. totalPages == 0 yields nil.
func ComputeView(currentPage, totalPages, radius int) []Token {
	if totalPages <= 0 {
		return nil
	}
	if radius < 0 {
		radius = 0
	}

	included := map[int]struct{}{1: {}}
	if totalPages > 1 {
		included[totalPages] = struct{}{}
	}
	for p := currentPage - radius; p <= currentPage+radius; p++ {
		if p > 1 && p < totalPages {
			included[p] = struct{}{}
		}
	}

	pages := make([]int, 0, len(included))
	for p := range included {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	tokens := make([]Token, 0, len(pages)*2) //nolint:mnd // Worst case one ellipsis per page.
	for i, p := range pages {
		if i > 0 && p-pages[i-1] > 1 {
			tokens = append(tokens, EllipsisToken())
		}
		tokens = append(tokens, PageToken(p))
	}
	return tokens
}

// Pages returns only the page numbers of a view, dropping ellipsis tokens.
func Pages(view []Token) []int {
	pages := make([]int, 0, len(view))
	for _, t := range view {
		if !t.Ellipsis {
			pages = append(pages, t.Page)
		}
	}
	return pages
}
