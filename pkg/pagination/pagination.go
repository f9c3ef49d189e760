package pagination

import "strings"

const (
	// DefaultPerPage is the standard page size when perPage is not provided.
	DefaultPerPage = 25
	// MaxPerPage caps how many rows any list query can request.
	MaxPerPage = 100
)

// Params holds offset pagination inputs from controllers or services.
type Params struct {
	Page    int
	PerPage int
	Query   string
}

// Normalize enforces the default page, page size bounds and a trimmed search term.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	p.PerPage = NormalizePerPage(p.PerPage)
	p.Query = strings.TrimSpace(p.Query)
	return p
}

// Offset returns the number of rows to skip for the page.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PerPage
}

// Limit returns the normalized page size.
func (p Params) Limit() int {
	return p.Normalize().PerPage
}

// LikePattern wraps the search term for a case-insensitive LIKE.
func (p Params) LikePattern() string {
	return "%" + strings.ToLower(strings.TrimSpace(p.Query)) + "%"
}

// NormalizePerPage enforces the configured default and maximum page sizes.
func NormalizePerPage(perPage int) int {
	if perPage <= 0 {
		return DefaultPerPage
	}
	if perPage > MaxPerPage {
		return MaxPerPage
	}
	return perPage
}

// Page is the list envelope returned by admin and storefront list endpoints.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPage assembles the envelope, never leaving Items nil.
func NewPage[T any](items []T, params Params, total int64) Page[T] {
	n := params.Normalize()
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(n.PerPage) - 1) / int64(n.PerPage))
	}
	return Page[T]{
		Items:      items,
		Page:       n.Page,
		PerPage:    n.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Map converts the items of a page while keeping its counters.
func Map[T, U any](page Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, fn(item))
	}
	return Page[U]{
		Items:      items,
		Page:       page.Page,
		PerPage:    page.PerPage,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}
