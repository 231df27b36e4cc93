package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rshade/pagedview/internal/engine"
	"github.com/rshade/pagedview/internal/pagination"
)

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// Column widths used when truncating table cells.
const (
	colWidthTitle = 48
	colWidthBody  = 40
)

// PageJSONOutput is the document written by RenderPageAsJSON.
type PageJSONOutput struct {
	Metadata PageMetadata      `json:"metadata"`
	Items    []pagination.Item `json:"items"`
	View     []string          `json:"view"`
	Error    string            `json:"error,omitempty"`
}

// PageMetadata describes the page a JSON document was rendered from.
type PageMetadata struct {
	pagination.Meta
	TotalKnown  bool              `json:"total_known"`
	Filter      pagination.Filter `json:"filter"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// RenderPageAsTable writes the page as an aligned table followed by the page
// selector and summary line. A failed fetch writes only the error line.
func RenderPageAsTable(w io.Writer, s engine.State) error {
	if s.Err != nil {
		if _, err := fmt.Fprintln(w, ErrorMessage(s)); err != nil {
			return fmt.Errorf("writing error: %w", err)
		}
		return nil
	}

	if len(s.Items) == 0 {
		if _, err := fmt.Fprintln(w, "No items found."); err != nil {
			return fmt.Errorf("writing empty notice: %w", err)
		}
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	if _, err := fmt.Fprintf(tw, "ID\tUSER\tTITLE\tBODY\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "--\t----\t-----\t----\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, item := range s.Items {
		if _, err := fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n",
			item.ID, item.UserID,
			truncate(oneLine(item.Title), colWidthTitle),
			truncate(oneLine(item.Body), colWidthBody),
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	if bar := PlainPageBar(s); bar != "" {
		if _, err := fmt.Fprintf(w, "\n%s\n", bar); err != nil {
			return fmt.Errorf("writing page bar: %w", err)
		}
	}
	if _, err := fmt.Fprintln(w, Summary(s)); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}

// RenderPageAsJSON writes the page, its metadata and page selector as an indented JSON document.
func RenderPageAsJSON(w io.Writer, s engine.State) error {
	items := s.Items
	if items == nil {
		items = []pagination.Item{}
	}
	view := make([]string, 0, len(s.View))
	for _, tok := range s.View {
		view = append(view, tok.String())
	}

	out := PageJSONOutput{
		Metadata: PageMetadata{
			Meta:        s.Meta,
			TotalKnown:  s.TotalKnown,
			Filter:      s.Filter,
			GeneratedAt: time.Now().UTC(),
		},
		Items: items,
		View:  view,
	}
	if s.Err != nil {
		out.Error = s.Err.Error()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// RenderItemsAsNDJSON writes each item as one JSON line.
func RenderItemsAsNDJSON(w io.Writer, items []pagination.Item) error {
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("marshaling item: %w", err)
		}
		if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
			return fmt.Errorf("writing NDJSON line: %w", err)
		}
	}
	return nil
}

func oneLine(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r == '\n' || r == '\r' || r == '\t' {
			out[i] = ' '
		}
	}
	return string(out)
}
