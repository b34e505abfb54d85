package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequest(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, PerPage: 10}, NewPageRequest(0, 10))
	assert.Equal(t, PageRequest{Page: 1, PerPage: 1}, NewPageRequest(-3, 0))
	assert.Equal(t, PageRequest{Page: 4, PerPage: 5}, NewPageRequest(4, 5))
	assert.Equal(t, 15, NewPageRequest(4, 5).Offset())
	assert.Equal(t, 0, NewPageRequest(1, 5).Offset())
}

func TestNewPageRequestHugePage(t *testing.T) {
	req := NewPageRequest(math.MaxInt/2, LookupPageSize)
	assert.Equal(t, math.MaxInt/LookupPageSize, req.Page)
	assert.GreaterOrEqual(t, req.Offset(), 0)

	req = NewPageRequest(math.MaxInt, ProductPageSize)
	assert.GreaterOrEqual(t, req.Offset(), 0)

	meta := NewPageMeta(req, 25)
	assert.Equal(t, req.Page, meta.CurrentPage)
	assert.Equal(t, 3, meta.LastPage)
}

func TestNewPageMeta(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		perPage  int
		total    int64
		wantLast int
	}{
		{"empty listing", 1, 10, 0, 1},
		{"single partial page", 1, 10, 3, 1},
		{"exact multiple", 2, 5, 10, 2},
		{"remainder rounds up", 1, 5, 11, 3},
		{"page past the end", 9, 10, 25, 3},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			meta := NewPageMeta(NewPageRequest(tc.page, tc.perPage), tc.total)
			assert.Equal(t, tc.page, meta.CurrentPage)
			assert.Equal(t, tc.wantLast, meta.LastPage)
			assert.Equal(t, tc.perPage, meta.PerPage)
			assert.Equal(t, tc.total, meta.Total)
		})
	}
}
