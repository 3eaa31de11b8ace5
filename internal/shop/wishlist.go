package shop

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
	"github.com/Sanjarbek-2007/Tech-House/internal/store"
)

// WishlistSort orders the wishlist page.
type WishlistSort string

const (
	WishlistDefault   WishlistSort = "default"
	WishlistPriceAsc  WishlistSort = "price-asc"
	WishlistPriceDesc WishlistSort = "price-desc"
	WishlistNameAsc   WishlistSort = "name-asc"
	WishlistCategory  WishlistSort = "category"
)

func (s *Service) wishlistBucket() store.Bucket[[]string] {
	return store.NewBucket[[]string](s.kv, KeyWishlist)
}

// WishlistIDs returns the liked product ids in the order they were liked.
func (s *Service) WishlistIDs(ctx context.Context) ([]string, error) {
	ids, err := s.wishlistBucket().Load(ctx)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// IsLiked reports whether productID is on the wishlist.
func (s *Service) IsLiked(ctx context.Context, productID string) (bool, error) {
	ids, err := s.WishlistIDs(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(ids, productID), nil
}

// ToggleWishlist likes or unlikes a product and returns the new state.
// Unknown ids can still be removed but not added.
func (s *Service) ToggleWishlist(ctx context.Context, productID string) (bool, error) {
	ids, err := s.WishlistIDs(ctx)
	if err != nil {
		return false, err
	}
	liked := true
	if i := slices.Index(ids, productID); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
		liked = false
	} else {
		if _, ok := s.catalog.Get(productID); !ok {
			return false, ErrProductNotFound
		}
		ids = append(ids, productID)
	}
	if err := s.wishlistBucket().Save(ctx, ids); err != nil {
		return false, err
	}
	return liked, nil
}

// ClearWishlist empties the wishlist.
func (s *Service) ClearWishlist(ctx context.Context) error {
	return s.wishlistBucket().Save(ctx, []string{})
}

// WishlistProducts lists the liked products. The default order is the
// catalog's; other orders are stable.
func (s *Service) WishlistProducts(ctx context.Context, order WishlistSort) ([]domain.Product, error) {
	ids, err := s.WishlistIDs(ctx)
	if err != nil {
		return nil, err
	}
	items := []domain.Product{}
	for _, p := range s.catalog.All() {
		if slices.Contains(ids, p.ID) {
			items = append(items, p)
		}
	}

	switch order {
	case WishlistPriceAsc:
		slices.SortStableFunc(items, func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) })
	case WishlistPriceDesc:
		slices.SortStableFunc(items, func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) })
	case WishlistNameAsc:
		col := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(items, func(a, b domain.Product) int { return col.CompareString(a.Name, b.Name) })
	case WishlistCategory:
		col := collate.New(language.English, collate.IgnoreCase)
		slices.SortStableFunc(items, func(a, b domain.Product) int { return col.CompareString(a.Category, b.Category) })
	}
	return items, nil
}
