package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names shared by the HTTP API and shareable links.
const (
	ParamCategory = "category"
	ParamSearch   = "search"
	ParamBrand    = "brand"
	ParamBadge    = "badge"
	ParamFeature  = "feature"
	ParamRating   = "rating"
	ParamMinPrice = "min_price"
	ParamMaxPrice = "max_price"
	ParamSort     = "sort"
	ParamPage     = "page"
	ParamLimit    = "limit"
)

// StateFromQuery rebuilds a State from URL parameters on top of base.
// Malformed numbers never fail: they fall back to the default sentinel
// (0 for minimums, the price ceiling for the maximum, page 1).
func StateFromQuery(v url.Values, base State, priceCeiling int64) State {
	st := base
	if priceCeiling <= 0 {
		priceCeiling = DefaultPriceCeiling
	}

	st.Filters.Categories = nonEmpty(v[ParamCategory])
	st.Filters.Brands = nonEmpty(v[ParamBrand])
	st.Filters.Badges = nonEmpty(v[ParamBadge])
	st.Filters.Features = nonEmpty(v[ParamFeature])
	st.Filters.Search = strings.TrimSpace(v.Get(ParamSearch))

	st.Filters.MinRating = RatingAny
	if r, err := strconv.ParseFloat(v.Get(ParamRating), 64); err == nil && r > 0 {
		st.Filters.MinRating = r
	}

	st.Filters.Price = PriceRange{Min: 0, Max: priceCeiling}
	if s := v.Get(ParamMinPrice); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
			st.Filters.Price.Min = n
		}
	}
	if s := v.Get(ParamMaxPrice); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
			st.Filters.Price.Max = n
		}
	}

	if s := v.Get(ParamSort); s != "" {
		st.Sort = ParseSortMode(s)
	}

	st.Pagination.Page = 1
	if n, err := strconv.Atoi(v.Get(ParamPage)); err == nil && n > 0 {
		st.Pagination.Page = n
	}
	if n, err := strconv.Atoi(v.Get(ParamLimit)); err == nil && n > 0 {
		st.Pagination.PageSize = n
	}
	return st
}

// Values encodes the parts of the state that differ from
// NewState(pageSize, priceCeiling) as URL parameters, producing a shareable
// link that StateFromQuery reads back.
func (s State) Values(pageSize int, priceCeiling int64) url.Values {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	v := url.Values{}
	for _, c := range s.Filters.Categories {
		v.Add(ParamCategory, c)
	}
	for _, b := range s.Filters.Brands {
		v.Add(ParamBrand, b)
	}
	for _, b := range s.Filters.Badges {
		v.Add(ParamBadge, b)
	}
	for _, f := range s.Filters.Features {
		v.Add(ParamFeature, f)
	}
	if s.Filters.Search != "" {
		v.Set(ParamSearch, s.Filters.Search)
	}
	if s.Filters.MinRating > RatingAny {
		v.Set(ParamRating, strconv.FormatFloat(s.Filters.MinRating, 'f', -1, 64))
	}
	if s.Filters.Price.Min > 0 {
		v.Set(ParamMinPrice, strconv.FormatInt(s.Filters.Price.Min, 10))
	}
	if s.Filters.Price.Max != priceCeiling {
		v.Set(ParamMaxPrice, strconv.FormatInt(s.Filters.Price.Max, 10))
	}
	if s.Sort != "" && s.Sort != SortPopularity {
		v.Set(ParamSort, string(s.Sort))
	}
	if s.Pagination.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(s.Pagination.Page))
	}
	if s.Pagination.PageSize > 0 && s.Pagination.PageSize != pageSize {
		v.Set(ParamLimit, strconv.Itoa(s.Pagination.PageSize))
	}
	return v
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
