package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
)

// KnownFeatures is the closed vocabulary of feature tags detected in
// product descriptions and specs.
var KnownFeatures = []string{"Smart Control", "Energy Saving", "Silent Mode", "Extended Warranty", "Inverter"}

// Dimension names a facet group.
type Dimension string

const (
	DimensionCategory Dimension = "categories"
	DimensionBrand    Dimension = "brands"
	DimensionBadge    Dimension = "badges"
	DimensionFeature  Dimension = "features"
)

// FacetCounts holds per-value counts over the whole catalog. They do not
// shrink as filters are applied: checkboxes always show total availability.
type FacetCounts struct {
	Categories map[string]int `json:"categories"`
	Brands     map[string]int `json:"brands"`
	Badges     map[string]int `json:"badges"`
	Features   map[string]int `json:"features"`
}

// FacetValue is one checkbox of a facet group.
type FacetValue struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ComputeFacets counts categories, brands, badge labels and known features.
func ComputeFacets(products []domain.Product) FacetCounts {
	fc := FacetCounts{
		Categories: map[string]int{},
		Brands:     map[string]int{},
		Badges:     map[string]int{},
		Features:   map[string]int{},
	}
	for _, p := range products {
		fc.Categories[p.Category]++
		fc.Brands[p.Brand]++
		if p.Badge != nil {
			fc.Badges[BadgeLabel(p.Badge.Type)]++
		}
		text := FeatureText(p)
		for _, feat := range KnownFeatures {
			if strings.Contains(text, strings.ToLower(feat)) {
				fc.Features[feat]++
			}
		}
	}
	return fc
}

// Sorted returns the values of one dimension in ascending name order.
func (fc FacetCounts) Sorted(dim Dimension) []FacetValue {
	var counts map[string]int
	switch dim {
	case DimensionCategory:
		counts = fc.Categories
	case DimensionBrand:
		counts = fc.Brands
	case DimensionBadge:
		counts = fc.Badges
	case DimensionFeature:
		counts = fc.Features
	}
	values := make([]FacetValue, 0, len(counts))
	for v, n := range counts {
		values = append(values, FacetValue{Value: v, Count: n})
	}
	slices.SortFunc(values, func(a, b FacetValue) int {
		return strings.Compare(a.Value, b.Value)
	})
	return values
}

// BadgeLabel is the display label of a badge type, e.g. "new" -> "New".
func BadgeLabel(t domain.BadgeType) string {
	return cases.Title(language.English).String(string(t))
}
