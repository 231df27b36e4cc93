package engine

import (
	"context"
	"time"

	"github.com/rshade/pagedview/internal/pagination"
	"github.com/rshade/pagedview/internal/source"
)

// Fetch is one issued page request. It is created by the Controller and may be
// run on any goroutine, at most once.
type Fetch struct {
	seq     uint64
	req     pagination.PageRequest
	ctx     context.Context
	src     source.Source
	timeout time.Duration
}

// Completion is the outcome of running a Fetch.
type Completion struct {
	Seq      uint64
	Request  pagination.PageRequest
	Result   pagination.PageResult
	Err      error
	Duration time.Duration
}

// Seq returns the sequence number tagging this fetch.
func (f *Fetch) Seq() uint64 {
	return f.seq
}

// Request returns the page request this fetch will send.
func (f *Fetch) Request() pagination.PageRequest {
	return f.req
}

// Run performs the network call under the controller timeout.
// Failures are reported in the Completion, never returned.
func (f *Fetch) Run() Completion {
	ctx, cancel := context.WithTimeout(f.ctx, f.timeout)
	defer cancel()

	start := time.Now()
	result, err := f.src.Fetch(ctx, f.req)
	done := Completion{
		Seq:      f.seq,
		Request:  f.req,
		Duration: time.Since(start),
	}
	if err != nil {
		done.Err = source.Classify(err)
		return done
	}
	done.Result = result
	return done
}
