package catalog

import (
	"bytes"
	"encoding/json"
	"slices"
	"strings"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
)

const (
	// DefaultPriceCeiling is the upper bound of the "no constraint" price range.
	DefaultPriceCeiling int64 = 10_000_000
	// RatingAny disables the rating threshold.
	RatingAny float64 = 0
)

// PriceRange is inclusive on both ends.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// FilterState is the set of shopper-selected filters. All selections are
// order-irrelevant sets compared by exact string equality, except badge
// labels which are compared case-insensitively against the badge type.
type FilterState struct {
	Categories []string   `json:"categories"`
	Brands     []string   `json:"brands"`
	Badges     []string   `json:"badges"`
	Features   []string   `json:"features"`
	MinRating  float64    `json:"min_rating"`
	Price      PriceRange `json:"price"`
	Search     string     `json:"search"`
}

// DefaultFilters returns a FilterState that matches every product priced
// within [0, ceiling].
func DefaultFilters(ceiling int64) FilterState {
	if ceiling <= 0 {
		ceiling = DefaultPriceCeiling
	}
	return FilterState{
		Categories: []string{},
		Brands:     []string{},
		Badges:     []string{},
		Features:   []string{},
		MinRating:  RatingAny,
		Price:      PriceRange{Min: 0, Max: ceiling},
	}
}

// Active reports whether any filter differs from its default. The
// storefront shows the "clear all" control only when this is true.
func (f FilterState) Active(ceiling int64) bool {
	return len(f.Categories) > 0 ||
		len(f.Brands) > 0 ||
		len(f.Badges) > 0 ||
		len(f.Features) > 0 ||
		f.MinRating > RatingAny ||
		f.Price.Min > 0 ||
		f.Price.Max < ceiling ||
		strings.TrimSpace(f.Search) != ""
}

// Matches applies every predicate of the filter chain to p.
// Predicates are ANDed; selected features are ORed among themselves.
func (f FilterState) Matches(p domain.Product) bool {
	if len(f.Categories) > 0 && !slices.Contains(f.Categories, p.Category) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" && !matchesSearch(p, q) {
		return false
	}
	if p.Price < f.Price.Min || p.Price > f.Price.Max {
		return false
	}
	if len(f.Brands) > 0 && !slices.Contains(f.Brands, p.Brand) {
		return false
	}
	if len(f.Badges) > 0 && !slices.ContainsFunc(f.Badges, p.BadgeMatches) {
		return false
	}
	if f.MinRating > RatingAny && p.Rating < f.MinRating {
		return false
	}
	if len(f.Features) > 0 {
		text := FeatureText(p)
		if !slices.ContainsFunc(f.Features, func(feat string) bool {
			return strings.Contains(text, strings.ToLower(feat))
		}) {
			return false
		}
	}
	return true
}

func matchesSearch(p domain.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Brand), q)
}

// FeatureText is the lower-cased haystack used for feature detection:
// the description followed by the JSON-serialised specs. The facet counter
// and the feature filter must both use it or their counts drift apart.
func FeatureText(p domain.Product) string {
	var buf bytes.Buffer
	buf.WriteString(p.Description)
	buf.WriteString(serializeSpecs(p.Specs))
	return strings.ToLower(buf.String())
}

func serializeSpecs(specs map[string]string) string {
	if specs == nil {
		specs = map[string]string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(specs); err != nil {
		return ""
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
