package source

import (
	"context"

	"github.com/rshade/pagedview/internal/pagination"
)

// Source is a remote collection that can be fetched one page at a time.
// Implementations must honour ctx cancellation and be safe for concurrent use.
type Source interface {
	Fetch(ctx context.Context, req pagination.PageRequest) (pagination.PageResult, error)
}

// Func adapts a function to the Source interface.
type Func func(ctx context.Context, req pagination.PageRequest) (pagination.PageResult, error)

// Fetch calls f.
func (f Func) Fetch(ctx context.Context, req pagination.PageRequest) (pagination.PageResult, error) {
	return f(ctx, req)
}
