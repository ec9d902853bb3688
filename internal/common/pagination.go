package common

import (
	"net/http"
	"strconv"
)

// DefaultPageSize is the fixed page size used by list endpoints.
const DefaultPageSize = 10

// Pagination holds pagination metadata for list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// Pager tracks the current page over a result set of known size. Navigation to
// a page outside [1, TotalPages] leaves the current page untouched.
type Pager struct {
	size    int
	total   int
	current int
}

// NewPager returns a pager positioned on the first page.
func NewPager(pageSize, total int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	return &Pager{size: pageSize, total: total, current: 1}
}

// TotalPages returns ceil(total / pageSize).
func (p *Pager) TotalPages() int {
	return (p.total + p.size - 1) / p.size
}

// Page returns the current 1-based page.
func (p *Pager) Page() int { return p.current }

// Goto moves to page and reports whether the move happened.
func (p *Pager) Goto(page int) bool {
	if page < 1 || page > p.TotalPages() {
		return false
	}
	p.current = page
	return true
}

// Offset returns the index of the first record on the current page.
func (p *Pager) Offset() int {
	return (p.current - 1) * p.size
}

// Limit returns the page size.
func (p *Pager) Limit() int { return p.size }

// Bounds returns the [start, end) slice bounds of the current page.
func (p *Pager) Bounds() (int, int) {
	start := p.Offset()
	if start > p.total {
		start = p.total
	}
	end := start + p.size
	if end > p.total {
		end = p.total
	}
	return start, end
}

// Meta renders the pager as response metadata.
func (p *Pager) Meta() Pagination {
	return Pagination{
		Page:       p.current,
		PerPage:    p.size,
		TotalItems: p.total,
		TotalPages: p.TotalPages(),
	}
}

// PageOf returns the records of the current page.
func PageOf[T any](items []T, p *Pager) []T {
	start, end := p.Bounds()
	return items[start:end]
}

// ParsePage extracts the requested page from the query string, defaulting to 1.
func ParsePage(r *http.Request) int {
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		return p
	}
	return 1
}
