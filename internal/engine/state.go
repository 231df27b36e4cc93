package engine

import (
	"github.com/rshade/pagedview/internal/pagination"
	"github.com/rshade/pagedview/internal/source"
)

// State is a point-in-time copy of the controller, ready for rendering.
type State struct {
	Items       []pagination.Item
	CurrentPage int
	TotalPages  int
	TotalItems  int
	TotalKnown  bool
	PageSize    int
	Filter      pagination.Filter

	// View is the compact page selector; empty when TotalPages is 0.
	View []pagination.Token

	Loading bool
	Err     error
	Meta    pagination.Meta

	// Seq is the sequence number of the latest issued fetch.
	Seq uint64
}

// ShowControls reports whether page controls should be rendered.
func (s State) ShowControls() bool {
	return s.TotalPages > 0 && s.Err == nil
}

// SoftError reports whether the current error is a malformed response.
func (s State) SoftError() bool {
	return s.Err != nil && source.IsSoft(s.Err)
}
