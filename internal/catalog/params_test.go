package catalog

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestStateFromQuery(t *testing.T) {
	v, _ := url.ParseQuery("category=Personal+Care&brand=Philips&brand=Braun&badge=new&feature=Inverter" +
		"&rating=4.5&min_price=100000&max_price=3000000&sort=price-desc&page=2&limit=12&search=+shaver+")

	st := StateFromQuery(v, defaultState(), DefaultPriceCeiling)

	want := State{
		Filters: FilterState{
			Categories: []string{"Personal Care"},
			Brands:     []string{"Philips", "Braun"},
			Badges:     []string{"new"},
			Features:   []string{"Inverter"},
			MinRating:  4.5,
			Price:      PriceRange{Min: 100_000, Max: 3_000_000},
			Search:     "shaver",
		},
		Sort:       SortPriceDesc,
		Pagination: Pagination{Page: 2, PageSize: 12},
	}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestStateFromQuery_MalformedNumbersUseDefaults(t *testing.T) {
	v := url.Values{
		ParamRating:   {"five"},
		ParamMinPrice: {"-3"},
		ParamMaxPrice: {"lots"},
		ParamPage:     {"0"},
		ParamLimit:    {"x"},
		ParamSort:     {"random"},
	}

	st := StateFromQuery(v, defaultState(), DefaultPriceCeiling)

	assert.Equal(t, RatingAny, st.Filters.MinRating)
	assert.Equal(t, PriceRange{Min: 0, Max: DefaultPriceCeiling}, st.Filters.Price)
	assert.Equal(t, 1, st.Pagination.Page)
	assert.Equal(t, DefaultPageSize, st.Pagination.PageSize)
	assert.Equal(t, SortPopularity, st.Sort)
	assert.False(t, st.Filters.Active(DefaultPriceCeiling))
}

func TestState_ValuesRoundTrip(t *testing.T) {
	st := defaultState()
	st.Filters.Brands = []string{"LG", "Midea"}
	st.Filters.Features = []string{"Inverter"}
	st.Filters.Price.Max = 5_000_000
	st.Sort = SortNewest
	st.Pagination.Page = 3

	v := st.Values(DefaultPageSize, DefaultPriceCeiling)

	assert.Equal(t, "brand=LG&brand=Midea&feature=Inverter&max_price=5000000&page=3&sort=new", v.Encode())
	back := StateFromQuery(v, defaultState(), DefaultPriceCeiling)
	if diff := cmp.Diff(st, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestState_ValuesOmitsDefaults(t *testing.T) {
	assert.Empty(t, defaultState().Values(DefaultPageSize, DefaultPriceCeiling))
	assert.Empty(t, NewState(12, DefaultPriceCeiling).Values(12, DefaultPriceCeiling))
}

func TestState_ValuesKeepsPageSize(t *testing.T) {
	st := defaultState()
	st.Pagination.PageSize = 7

	v := st.Values(DefaultPageSize, DefaultPriceCeiling)

	assert.Equal(t, "limit=7", v.Encode())
	back := StateFromQuery(v, defaultState(), DefaultPriceCeiling)
	assert.Equal(t, 7, back.Pagination.PageSize)
}
