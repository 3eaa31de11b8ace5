package shop

import (
	"context"
	"slices"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
	"github.com/Sanjarbek-2007/Tech-House/internal/store"
)

// CartLine is a cart item joined with its product.
type CartLine struct {
	Product   domain.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal int64          `json:"line_total"`
}

// cartBucket is per user; logged-out clients share the guest cart.
func (s *Service) cartBucket(ctx context.Context) (store.Bucket[[]domain.CartItem], error) {
	user, ok, err := s.CurrentUser(ctx)
	if err != nil {
		return store.Bucket[[]domain.CartItem]{}, err
	}
	key := keyGuestCart
	if ok {
		key = cartKeyPrefix + user.ID
	}
	return store.NewBucket[[]domain.CartItem](s.kv, key), nil
}

// CartItems returns the raw cart in insertion order.
func (s *Service) CartItems(ctx context.Context) ([]domain.CartItem, error) {
	b, err := s.cartBucket(ctx)
	if err != nil {
		return nil, err
	}
	items, err := b.Load(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.CartItem{}
	}
	return items, nil
}

// updateCart loads the cart, applies fn and saves the result.
func (s *Service) updateCart(ctx context.Context, fn func([]domain.CartItem) []domain.CartItem) error {
	b, err := s.cartBucket(ctx)
	if err != nil {
		return err
	}
	items, err := b.Load(ctx)
	if err != nil {
		return err
	}
	return b.Save(ctx, fn(items))
}

// AddToCart adds quantity units of a product. Only registered users can
// shop.
func (s *Service) AddToCart(ctx context.Context, productID string, quantity int) error {
	if _, err := s.requireUser(ctx); err != nil {
		return err
	}
	if _, ok := s.catalog.Get(productID); !ok {
		return ErrProductNotFound
	}
	if quantity < 1 {
		quantity = 1
	}
	return s.updateCart(ctx, func(items []domain.CartItem) []domain.CartItem {
		return addQuantity(items, productID, quantity)
	})
}

// RemoveFromCart drops a product from the cart.
func (s *Service) RemoveFromCart(ctx context.Context, productID string) error {
	return s.updateCart(ctx, func(items []domain.CartItem) []domain.CartItem {
		return slices.DeleteFunc(items, func(it domain.CartItem) bool { return it.ProductID == productID })
	})
}

// IncrementItem adds one unit, creating the line when needed.
func (s *Service) IncrementItem(ctx context.Context, productID string) error {
	if _, ok := s.catalog.Get(productID); !ok {
		return ErrProductNotFound
	}
	return s.updateCart(ctx, func(items []domain.CartItem) []domain.CartItem {
		return addQuantity(items, productID, 1)
	})
}

// DecrementItem removes one unit; the line disappears at zero.
func (s *Service) DecrementItem(ctx context.Context, productID string) error {
	return s.updateCart(ctx, func(items []domain.CartItem) []domain.CartItem {
		return addQuantity(items, productID, -1)
	})
}

// UpdateQuantity sets the quantity of an existing line. Zero or less
// removes it; unknown lines are left alone.
func (s *Service) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return s.updateCart(ctx, func(items []domain.CartItem) []domain.CartItem {
		i := slices.IndexFunc(items, func(it domain.CartItem) bool { return it.ProductID == productID })
		if i < 0 {
			return items
		}
		if quantity <= 0 {
			return slices.Delete(items, i, i+1)
		}
		items[i].Quantity = quantity
		return items
	})
}

func addQuantity(items []domain.CartItem, productID string, delta int) []domain.CartItem {
	i := slices.IndexFunc(items, func(it domain.CartItem) bool { return it.ProductID == productID })
	if i < 0 {
		if delta <= 0 {
			return items
		}
		return append(items, domain.CartItem{ProductID: productID, Quantity: delta})
	}
	items[i].Quantity += delta
	if items[i].Quantity <= 0 {
		return slices.Delete(items, i, i+1)
	}
	return items
}

// ItemQuantity returns the quantity of a product in the cart, 0 if absent.
func (s *Service) ItemQuantity(ctx context.Context, productID string) (int, error) {
	items, err := s.CartItems(ctx)
	if err != nil {
		return 0, err
	}
	for _, it := range items {
		if it.ProductID == productID {
			return it.Quantity, nil
		}
	}
	return 0, nil
}

// CartCount is the badge number in the header: total units.
func (s *Service) CartCount(ctx context.Context) (int, error) {
	items, err := s.CartItems(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n, nil
}

// CartLines joins the cart with the catalog, skipping unknown products.
func (s *Service) CartLines(ctx context.Context) ([]CartLine, error) {
	items, err := s.CartItems(ctx)
	if err != nil {
		return nil, err
	}
	return s.linesFor(items, nil), nil
}

// CartTotal sums price × quantity over known products.
func (s *Service) CartTotal(ctx context.Context) (int64, error) {
	lines, err := s.CartLines(ctx)
	if err != nil {
		return 0, err
	}
	return subtotal(lines), nil
}

// linesFor resolves items; a non-nil keep restricts the result to those ids.
func (s *Service) linesFor(items []domain.CartItem, keep []string) []CartLine {
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		if keep != nil && !slices.Contains(keep, it.ProductID) {
			continue
		}
		p, ok := s.catalog.Get(it.ProductID)
		if !ok {
			continue
		}
		lines = append(lines, CartLine{Product: p, Quantity: it.Quantity, LineTotal: p.Price * int64(it.Quantity)})
	}
	return lines
}

func subtotal(lines []CartLine) int64 {
	var total int64
	for _, l := range lines {
		total += l.LineTotal
	}
	return total
}
