package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
)

// SortMode selects the order of the result grid.
type SortMode string

const (
	SortPopularity SortMode = "popular"
	SortPriceAsc   SortMode = "price-asc"
	SortPriceDesc  SortMode = "price-desc"
	SortNewest     SortMode = "new"
)

// SortModes lists the accepted modes, default first.
var SortModes = []SortMode{SortPopularity, SortPriceAsc, SortPriceDesc, SortNewest}

// ParseSortMode maps s to a SortMode. Unknown values sort by popularity.
func ParseSortMode(s string) SortMode {
	mode := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortModes, mode) {
		return mode
	}
	return SortPopularity
}

// sortProducts orders products in place. Every mode is stable so equal
// keys keep dataset order.
func sortProducts(products []domain.Product, mode SortMode) {
	switch mode {
	case SortPriceAsc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case SortPriceDesc:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case SortNewest:
		// No timestamps in the dataset: "new" badges first, otherwise dataset order.
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(newRank(a), newRank(b))
		})
	default:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.Popularity(), a.Popularity())
		})
	}
}

func newRank(p domain.Product) int {
	if p.HasBadge(domain.BadgeNew) {
		return 0
	}
	return 1
}
