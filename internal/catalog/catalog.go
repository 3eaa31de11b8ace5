package catalog

import (
	"slices"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
)

const (
	defaultShelfSize  = 8
	trendingMinRating = 4.7
)

// trendingBadges mark a product as trending regardless of rating.
var trendingBadges = []domain.BadgeType{domain.BadgeHot, domain.BadgeBestseller, "trending", domain.BadgeSale}

// Catalog is the immutable product set of a storefront. Facets are computed
// once when the catalog is built and never again.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
	facets   FacetCounts
}

// NewCatalog builds a catalog over products, keeping their order.
// The slice is copied; callers may reuse theirs.
func NewCatalog(products []domain.Product) *Catalog {
	c := &Catalog{
		products: slices.Clone(products),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	c.facets = ComputeFacets(c.products)
	return c
}

// Len returns the number of products.
func (c *Catalog) Len() int { return len(c.products) }

// All returns a copy of the products in dataset order.
func (c *Catalog) All() []domain.Product {
	return slices.Clone(c.products)
}

// Get looks a product up by id.
func (c *Catalog) Get(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Facets returns the load-time facet counts.
func (c *Catalog) Facets() FacetCounts { return c.facets }

// Query runs the query engine over the whole catalog.
func (c *Catalog) Query(st State) Result {
	return Query(c.products, st)
}

// Resolve maps ids back to products in the given order, silently skipping
// ids that are no longer in the catalog.
func (c *Catalog) Resolve(ids []string) []domain.Product {
	out := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := c.Get(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Related returns up to limit products of the same category, excluding id.
func (c *Catalog) Related(id string, limit int) ([]domain.Product, bool) {
	current, ok := c.Get(id)
	if !ok {
		return nil, false
	}
	return c.take(limit, func(p domain.Product) bool {
		return p.Category == current.Category && p.ID != current.ID
	}), true
}

// Trending returns up to limit hot, best-selling or highly rated products.
func (c *Catalog) Trending(limit int) []domain.Product {
	return c.take(limit, func(p domain.Product) bool {
		if p.Badge != nil && slices.Contains(trendingBadges, p.Badge.Type) {
			return true
		}
		return p.Rating >= trendingMinRating
	})
}

// NewArrivals returns up to limit products badged "new".
func (c *Catalog) NewArrivals(limit int) []domain.Product {
	return c.take(limit, func(p domain.Product) bool {
		return p.HasBadge(domain.BadgeNew)
	})
}

func (c *Catalog) take(limit int, keep func(domain.Product) bool) []domain.Product {
	if limit <= 0 {
		limit = defaultShelfSize
	}
	out := make([]domain.Product, 0, limit)
	for _, p := range c.products {
		if len(out) == limit {
			break
		}
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
