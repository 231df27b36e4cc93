package tui

import (
	"strconv"
	"strings"

	"github.com/rshade/pagedview/internal/engine"
	"github.com/rshade/pagedview/internal/pagination"
)

// RenderPageBar renders the compact page selector with Previous and Next
// controls. The current page is highlighted. It returns "" when there is
// nothing to page through.
func RenderPageBar(theme Theme, s engine.State) string {
	if !s.ShowControls() {
		return ""
	}

	parts := make([]string, 0, len(s.View)+2)
	if s.CurrentPage > pagination.MinPage {
		parts = append(parts, theme.PageLink.Render("‹ Prev"))
	} else {
		parts = append(parts, theme.PageEllipsis.Render("‹ Prev"))
	}

	for _, tok := range s.View {
		switch {
		case tok.Ellipsis:
			parts = append(parts, theme.PageEllipsis.Render(tok.String()))
		case tok.Page == s.CurrentPage:
			parts = append(parts, theme.PageCurrent.Render(tok.String()))
		default:
			parts = append(parts, theme.PageLink.Render(tok.String()))
		}
	}

	if s.CurrentPage < s.TotalPages {
		parts = append(parts, theme.PageLink.Render("Next ›"))
	} else {
		parts = append(parts, theme.PageEllipsis.Render("Next ›"))
	}
	return strings.Join(parts, "")
}

// PlainPageBar renders the page selector without styling, marking the
// current page with brackets: "1 … 4 [5] 6 … 10".
func PlainPageBar(s engine.State) string {
	if !s.ShowControls() {
		return ""
	}
	parts := make([]string, 0, len(s.View))
	for _, tok := range s.View {
		if !tok.Ellipsis && tok.Page == s.CurrentPage {
			parts = append(parts, "["+strconv.Itoa(tok.Page)+"]")
			continue
		}
		parts = append(parts, tok.String())
	}
	return strings.Join(parts, " ")
}

// Summary returns the status line shown under the list.
func Summary(s engine.State) string {
	switch {
	case s.Err != nil:
		return ""
	case s.TotalPages > 0:
		return s.Meta.Summary()
	case !s.TotalKnown && len(s.Items) > 0:
		return "Showing page " + strconv.Itoa(s.CurrentPage) + ". Total unknown."
	default:
		return "No items found."
	}
}

// ErrorMessage returns the inline message shown in place of the list.
func ErrorMessage(s engine.State) string {
	if s.Err == nil {
		return ""
	}
	if s.SoftError() {
		return "The server sent a response that could not be read: " + s.Err.Error()
	}
	return "Failed to load posts: " + s.Err.Error()
}
