package catalog

import (
	"strings"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
)

// DefaultPageSize is the number of cards on one grid page.
const DefaultPageSize = 20

// Pagination is the 1-indexed page cursor of the grid.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// State is the full view state of the catalog grid. It is passed to Query
// by value and returned, normalised, in the Result; callers diff the two to
// decide what to re-render.
type State struct {
	Filters    FilterState `json:"filters"`
	Sort       SortMode    `json:"sort"`
	Pagination Pagination  `json:"pagination"`
}

// NewState returns the page-load defaults.
func NewState(pageSize int, priceCeiling int64) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		Filters:    DefaultFilters(priceCeiling),
		Sort:       SortPopularity,
		Pagination: Pagination{Page: 1, PageSize: pageSize},
	}
}

// ClearFilters resets every filter and goes back to the first page.
// Sort and page size are kept.
func (s State) ClearFilters(priceCeiling int64) State {
	s.Filters = DefaultFilters(priceCeiling)
	s.Pagination.Page = 1
	return s
}

// WithSearch applies a submitted search: the query replaces the category
// selection and the grid restarts at page 1.
func (s State) WithSearch(q string) State {
	s.Filters.Search = strings.TrimSpace(q)
	s.Filters.Categories = []string{}
	s.Pagination.Page = 1
	return s
}

// WithFilters replaces the filters and restarts at page 1, as every filter
// control does.
func (s State) WithFilters(f FilterState) State {
	s.Filters = f
	s.Pagination.Page = 1
	return s
}

// Result is one rendered grid page.
type Result struct {
	Items      []domain.Product `json:"items"`
	TotalCount int              `json:"total_count"`
	TotalPages int              `json:"total_pages"`
	State      State            `json:"state"`
}

// Empty reports the "no products found" state. Renderers show an empty
// message instead of a page selector.
func (r Result) Empty() bool {
	return r.TotalCount == 0
}

// Query filters, sorts and paginates products. It never mutates products
// and has no side effects, so the same inputs always yield the same page.
func Query(products []domain.Product, st State) Result {
	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if st.Filters.Matches(p) {
			filtered = append(filtered, p)
		}
	}
	sortProducts(filtered, ParseSortMode(string(st.Sort)))

	st.Sort = ParseSortMode(string(st.Sort))
	if st.Pagination.PageSize <= 0 {
		st.Pagination.PageSize = DefaultPageSize
	}
	size := st.Pagination.PageSize

	total := len(filtered)
	totalPages := 0
	if total > 0 {
		totalPages = (total-1)/size + 1
	}
	if st.Pagination.Page < 1 || st.Pagination.Page > totalPages {
		st.Pagination.Page = 1
	}

	items := []domain.Product{}
	if total > 0 {
		start := (st.Pagination.Page - 1) * size
		end := min(start+size, total)
		items = filtered[start:end]
	}

	return Result{
		Items:      items,
		TotalCount: total,
		TotalPages: totalPages,
		State:      st,
	}
}
