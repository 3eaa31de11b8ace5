package shop

import (
	"context"
	"slices"
	"strconv"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
	"github.com/Sanjarbek-2007/Tech-House/internal/store"
)

// CompareGroup is one category tab of the comparison modal.
type CompareGroup struct {
	Category string           `json:"category"`
	Products []domain.Product `json:"products"`
}

// TableRow is one attribute compared across the products of a group.
type TableRow struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

// Comparison is the rendered comparison modal: every tab plus the table of
// the active one.
type Comparison struct {
	Groups []CompareGroup `json:"groups"`
	Active string         `json:"active"`
	Rows   []TableRow     `json:"rows"`
}

func (s *Service) compareBucket() store.Bucket[[]string] {
	return store.NewBucket[[]string](s.kv, KeyCompareList)
}

// CompareIDs returns the comparison list in insertion order.
func (s *Service) CompareIDs(ctx context.Context) ([]string, error) {
	ids, err := s.compareBucket().Load(ctx)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// ToggleCompare adds productID when absent or removes it when present.
// Adding to a full list fails with ErrCompareFull and leaves it unchanged.
func (s *Service) ToggleCompare(ctx context.Context, productID string) (added bool, err error) {
	ids, err := s.CompareIDs(ctx)
	if err != nil {
		return false, err
	}
	if i := slices.Index(ids, productID); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		if len(ids) >= s.compareLimit {
			return false, ErrCompareFull
		}
		if _, ok := s.catalog.Get(productID); !ok {
			return false, ErrProductNotFound
		}
		ids = append(ids, productID)
		added = true
	}
	if err := s.compareBucket().Save(ctx, ids); err != nil {
		return false, err
	}
	return added, nil
}

// RemoveCompare drops productID from the list; absent ids are ignored.
func (s *Service) RemoveCompare(ctx context.Context, productID string) error {
	ids, err := s.CompareIDs(ctx)
	if err != nil {
		return err
	}
	i := slices.Index(ids, productID)
	if i < 0 {
		return nil
	}
	return s.compareBucket().Save(ctx, slices.Delete(ids, i, i+1))
}

// CompareProducts resolves the list, dropping ids no longer in the catalog.
func (s *Service) CompareProducts(ctx context.Context) ([]domain.Product, error) {
	ids, err := s.CompareIDs(ctx)
	if err != nil {
		return nil, err
	}
	return s.catalog.Resolve(ids), nil
}

// CompareGroups groups the compared products by category, ordered by the
// first appearance of each category in the list.
func (s *Service) CompareGroups(ctx context.Context) ([]CompareGroup, error) {
	products, err := s.CompareProducts(ctx)
	if err != nil {
		return nil, err
	}
	return groupByCategory(products), nil
}

func groupByCategory(products []domain.Product) []CompareGroup {
	groups := []CompareGroup{}
	index := map[string]int{}
	for _, p := range products {
		i, ok := index[p.Category]
		if !ok {
			i = len(groups)
			index[p.Category] = i
			groups = append(groups, CompareGroup{Category: p.Category})
		}
		groups[i].Products = append(groups[i].Products, p)
	}
	return groups
}

// Compare builds the comparison view with category as the active tab.
// An empty or unknown category selects the first tab.
func (s *Service) Compare(ctx context.Context, category string) (Comparison, error) {
	groups, err := s.CompareGroups(ctx)
	if err != nil {
		return Comparison{}, err
	}
	c := Comparison{Groups: groups, Rows: []TableRow{}}
	if len(groups) == 0 {
		return c, nil
	}
	active := groups[0]
	for _, g := range groups {
		if g.Category == category {
			active = g
			break
		}
	}
	c.Active = active.Category
	c.Rows = ComparisonTable(active.Products)
	return c, nil
}

// ComparisonTable lays out Brand, Price, Rating and Description side by side.
func ComparisonTable(products []domain.Product) []TableRow {
	rows := []TableRow{
		{Label: "Brand"},
		{Label: "Price"},
		{Label: "Rating"},
		{Label: "Description"},
	}
	for _, p := range products {
		rows[0].Values = append(rows[0].Values, orDash(p.Brand))
		rows[1].Values = append(rows[1].Values, FormatPrice(p.Price))
		rows[2].Values = append(rows[2].Values, strconv.FormatFloat(p.Rating, 'f', -1, 64)+" ★")
		desc := p.Description
		if desc == "" {
			desc = "No description"
		}
		rows[3].Values = append(rows[3].Values, desc)
	}
	return rows
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
