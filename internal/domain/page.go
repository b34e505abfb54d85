package domain

import "math"

// Page sizes used by the listing endpoints.
const (
	LookupPageSize  = 5
	ProductPageSize = 10
)

// PageRequest selects one page of a listing. Page is 1-based.
type PageRequest struct {
	Page    int
	PerPage int
}

// NewPageRequest normalizes a requested page number against a fixed page size.
// Page is capped so that Offset never overflows.
func NewPageRequest(page, perPage int) PageRequest {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}
	if limit := math.MaxInt / perPage; page > limit {
		page = limit
	}
	return PageRequest{Page: page, PerPage: perPage}
}

// Offset is the number of rows to skip.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// PageMeta is the pagination metadata returned alongside list results.
type PageMeta struct {
	CurrentPage int   `json:"current_page"`
	LastPage    int   `json:"last_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
}

// NewPageMeta computes pagination metadata for a listing of total rows.
// LastPage is at least 1, even for an empty listing.
func NewPageMeta(req PageRequest, total int64) PageMeta {
	last := 1
	if req.PerPage > 0 && total > 0 {
		last = int((total + int64(req.PerPage) - 1) / int64(req.PerPage))
	}
	return PageMeta{
		CurrentPage: req.Page,
		LastPage:    last,
		PerPage:     req.PerPage,
		Total:       total,
	}
}

// Page is one page of results with its metadata.
type Page[T any] struct {
	Items []T
	Meta  PageMeta
}
