package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{
			name:   "valid default",
			params: *NewParams(),
		},
		{
			name:   "valid explicit",
			params: Params{Page: 4, PageSize: 25, WindowRadius: 1},
		},
		{
			name:    "zero page",
			params:  Params{Page: 0, PageSize: 10},
			wantErr: ErrInvalidPage,
		},
		{
			name:    "negative page",
			params:  Params{Page: -3, PageSize: 10},
			wantErr: ErrInvalidPage,
		},
		{
			name:    "zero page-size",
			params:  Params{Page: 1, PageSize: 0},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "page-size above max",
			params:  Params{Page: 1, PageSize: MaxPageSize + 1},
			wantErr: ErrInvalidPageSize,
		},
		{
			name:    "negative radius",
			params:  Params{Page: 1, PageSize: 10, WindowRadius: -1},
			wantErr: ErrNegativeRadius,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParams_Request(t *testing.T) {
	p := Params{Page: 2, PageSize: 5}
	req := p.Request(Filter{Title: "  qui  "})

	assert.Equal(t, 2, req.PageNumber)
	assert.Equal(t, 5, req.PageSize)
	assert.Equal(t, "qui", req.Filter.Title)
	assert.Equal(t, 5, req.Offset())
	assert.NoError(t, req.Validate())
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		totalItems int
		pageSize   int
		want       int
	}{
		{0, 3, 0},
		{1, 3, 1},
		{3, 3, 1},
		{4, 3, 2},
		{100, 3, 34},
		{100, 10, 10},
		{101, 10, 11},
		{-5, 10, 0},
		{10, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.totalItems, tt.pageSize),
			"TotalPages(%d, %d)", tt.totalItems, tt.pageSize)
	}
}

// TestTotalPages_MatchesCeil checks the ceiling property over a grid of inputs.
func TestTotalPages_MatchesCeil(t *testing.T) {
	for total := 0; total <= 60; total++ {
		for size := 1; size <= 12; size++ {
			want := (total + size - 1) / size
			assert.Equal(t, want, TotalPages(total, size), "total=%d size=%d", total, size)
		}
	}
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		totalPages int
		want       int
	}{
		{"below range", -5, 4, 1},
		{"above range", 99, 4, 4},
		{"in range", 3, 4, 3},
		{"zero total clamps to one", 7, 0, 1},
		{"zero page zero total", 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampPage(tt.page, tt.totalPages))
		})
	}
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name        string
		currentPage int
		pageSize    int
		totalItems  int
		want        Meta
	}{
		{
			name:        "first page",
			currentPage: 1,
			pageSize:    10,
			totalItems:  25,
			want: Meta{
				CurrentPage: 1,
				PageSize:    10,
				TotalPages:  3,
				TotalItems:  25,
				HasPrevious: false,
				HasNext:     true,
			},
		},
		{
			name:        "middle page",
			currentPage: 2,
			pageSize:    10,
			totalItems:  25,
			want: Meta{
				CurrentPage: 2,
				PageSize:    10,
				TotalPages:  3,
				TotalItems:  25,
				HasPrevious: true,
				HasNext:     true,
			},
		},
		{
			name:        "last page",
			currentPage: 3,
			pageSize:    10,
			totalItems:  25,
			want: Meta{
				CurrentPage: 3,
				PageSize:    10,
				TotalPages:  3,
				TotalItems:  25,
				HasPrevious: true,
				HasNext:     false,
			},
		},
		{
			name:        "unknown total",
			currentPage: 1,
			pageSize:    10,
			totalItems:  0,
			want: Meta{
				CurrentPage: 1,
				PageSize:    10,
				TotalPages:  0,
				TotalItems:  0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewMeta(tt.currentPage, tt.pageSize, tt.totalItems))
		})
	}
}

func TestMeta_Summary(t *testing.T) {
	m := NewMeta(2, 3, 1234)
	assert.Equal(t, "Showing page 2 of 412. Total items: 1,234.", m.Summary())
}

func TestFilter(t *testing.T) {
	t.Run("IsEmpty", func(t *testing.T) {
		assert.True(t, Filter{}.IsEmpty())
		assert.True(t, Filter{Title: "   "}.IsEmpty())
		assert.False(t, Filter{Body: "x"}.IsEmpty())
	})

	t.Run("String", func(t *testing.T) {
		assert.Equal(t, "none", Filter{}.String())
		assert.Equal(t, "id=7 title~sunt", Filter{ID: "7", Title: "sunt"}.String())
	})
}
