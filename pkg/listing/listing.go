// Package listing holds the search, sort and pagination plumbing shared by
// the list endpoints.
package listing

import (
	"net/url"
	"strconv"
	"strings"
)

// Pagination defaults.
const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// SortOrder is the direction of a sort.
type SortOrder string

// Sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort names a column and direction. Each list validates its own columns.
type Sort struct {
	Column string
	Order  SortOrder
}

// Page is a 1-based offset page request.
type Page struct {
	Number  int
	PerPage int
}

// Normalize clamps the page to valid bounds.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

// PageResult is one page of items.
type PageResult[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
}

// Paginate slices items into the requested page. A page past the end
// yields an empty item list.
func Paginate[T any](items []T, p Page) PageResult[T] {
	p = p.Normalize()
	total := len(items)
	start := total
	if p.Number-1 < TotalPages(total, p.PerPage) {
		start = (p.Number - 1) * p.PerPage
	}
	end := min(start+p.PerPage, total)

	out := make([]T, end-start)
	copy(out, items[start:end])
	return PageResult[T]{
		Items:      out,
		TotalCount: total,
		TotalPages: TotalPages(total, p.PerPage),
		Page:       p.Number,
		PerPage:    p.PerPage,
	}
}

// TotalPages returns ceil(total / perPage).
func TotalPages(total, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Filter returns the items for which keep returns true.
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// Query is a parsed list request.
type Query struct {
	Search string
	Sort   Sort
	Page   Page
}

// ParseQuery reads q, sort, order, page and perPage from v.
func ParseQuery(v url.Values) Query {
	q := Query{
		Search: strings.TrimSpace(v.Get("q")),
		Sort: Sort{
			Column: strings.ToLower(strings.TrimSpace(v.Get("sort"))),
			Order:  SortAsc,
		},
	}
	if strings.EqualFold(v.Get("order"), string(SortDesc)) {
		q.Sort.Order = SortDesc
	}
	q.Page.Number, _ = strconv.Atoi(v.Get("page"))
	q.Page.PerPage, _ = strconv.Atoi(v.Get("perPage"))
	q.Page = q.Page.Normalize()
	return q
}
