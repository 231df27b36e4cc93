package batch

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks an export. It is safe for concurrent use.
type Progress struct {
	// TotalPages is 0 when the collection does not report a total.
	TotalPages   int
	FetchedPages int
	FetchedItems int
	PageSize     int

	StartTime      time.Time
	LastUpdateTime time.Time

	mu sync.RWMutex
}

// NewProgress creates a tracker for totalPages pages of pageSize items.
func NewProgress(totalPages, pageSize int) *Progress {
	now := time.Now()
	return &Progress{
		TotalPages:     totalPages,
		PageSize:       pageSize,
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// AddFetched records one fetched page holding items items.
func (p *Progress) AddFetched(items int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.FetchedPages++
	p.FetchedItems += items
	p.LastUpdateTime = time.Now()
}

// PercentComplete returns the completion percentage (0-100), or 0 when the total is unknown.
func (p *Progress) PercentComplete() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.percentCompleteUnsafe()
}

// IsComplete reports whether every known page has been fetched.
func (p *Progress) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.TotalPages > 0 && p.FetchedPages >= p.TotalPages
}

// ElapsedTime returns the time elapsed since the export started.
func (p *Progress) ElapsedTime() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return time.Since(p.StartTime)
}

// EstimatedTimeRemaining extrapolates from the pages fetched so far.
// Returns 0 when nothing has been fetched or the total is unknown.
func (p *Progress) EstimatedTimeRemaining() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.FetchedPages == 0 || p.TotalPages == 0 {
		return 0
	}
	perPage := time.Since(p.StartTime) / time.Duration(p.FetchedPages)
	return perPage * time.Duration(max(p.TotalPages-p.FetchedPages, 0))
}

// PagesPerSecond returns the fetch rate.
func (p *Progress) PagesPerSecond() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	elapsed := time.Since(p.StartTime).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(p.FetchedPages) / elapsed
}

// Snapshot returns a copy of the current progress.
func (p *Progress) Snapshot() ProgressSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return ProgressSnapshot{
		TotalPages:      p.TotalPages,
		FetchedPages:    p.FetchedPages,
		FetchedItems:    p.FetchedItems,
		PageSize:        p.PageSize,
		StartTime:       p.StartTime,
		LastUpdateTime:  p.LastUpdateTime,
		PercentComplete: p.percentCompleteUnsafe(),
		ElapsedTime:     time.Since(p.StartTime),
	}
}

// ProgressSnapshot is an immutable copy of Progress.
type ProgressSnapshot struct {
	TotalPages      int
	FetchedPages    int
	FetchedItems    int
	PageSize        int
	StartTime       time.Time
	LastUpdateTime  time.Time
	PercentComplete float64
	ElapsedTime     time.Duration
}

// percentCompleteUnsafe must be called with the lock held.
func (p *Progress) percentCompleteUnsafe() float64 {
	if p.TotalPages == 0 {
		return 0
	}
	return float64(p.FetchedPages) / float64(p.TotalPages) * percentMultiplier
}
