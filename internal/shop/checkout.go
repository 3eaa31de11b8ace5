package shop

import (
	"context"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
	"github.com/Sanjarbek-2007/Tech-House/internal/store"
)

// Quote is the order summary shown next to the cart.
type Quote struct {
	Lines           []CartLine            `json:"lines"`
	Subtotal        int64                 `json:"subtotal"`
	DeliveryMethod  domain.DeliveryMethod `json:"delivery_method"`
	DeliveryFee     int64                 `json:"delivery_fee"`
	Discount        int64                 `json:"discount"`
	Total           int64                 `json:"total"`
	Tier            domain.MembershipTier `json:"tier"`
	EstimatedPoints int                   `json:"estimated_points"`
}

// EarnedPoints converts an order total into loyalty points for tier.
func EarnedPoints(total int64, tier domain.MembershipTier) int {
	return int(math.Floor(float64(total) / 1000 * tier.PointsMultiplier()))
}

func (s *Service) historyBucket(userID string) store.Bucket[[]domain.Order] {
	return store.NewBucket[[]domain.Order](s.kv, historyPrefix+userID)
}

// Quote prices the selected cart lines. A nil selection quotes the whole
// cart, as the cart page starts with every line checked. Selected ids
// missing from the cart or the catalog are ignored. Logged-out clients are
// quoted at bronze.
func (s *Service) Quote(ctx context.Context, selected []string, method domain.DeliveryMethod) (Quote, error) {
	user, _, err := s.CurrentUser(ctx)
	if err != nil {
		return Quote{}, err
	}
	items, err := s.CartItems(ctx)
	if err != nil {
		return Quote{}, err
	}
	return s.quote(user, s.linesFor(items, selected), method), nil
}

func (s *Service) quote(user domain.User, lines []CartLine, method domain.DeliveryMethod) Quote {
	if method != domain.DeliveryHome {
		method = domain.DeliveryPickup
	}
	tier := domain.ParseTier(string(user.Membership))
	q := Quote{
		Lines:          lines,
		Subtotal:       subtotal(lines),
		DeliveryMethod: method,
		Tier:           tier,
	}
	if method == domain.DeliveryHome && !tier.FreeDelivery() {
		q.DeliveryFee = s.deliveryFee
	}
	q.Total = q.Subtotal + q.DeliveryFee - q.Discount
	q.EstimatedPoints = EarnedPoints(q.Total, tier)
	return q
}

// Checkout places an order for the selected cart lines: the order goes to
// the front of the history, its points are credited and the purchased
// lines leave the cart.
func (s *Service) Checkout(ctx context.Context, selected []string, method domain.DeliveryMethod) (domain.Order, error) {
	user, err := s.requireUser(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	if len(selected) == 0 {
		return domain.Order{}, ErrEmptySelection
	}
	items, err := s.CartItems(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	q := s.quote(user, s.linesFor(items, selected), method)
	if len(q.Lines) == 0 {
		return domain.Order{}, ErrEmptySelection
	}

	order := domain.Order{
		ID:     s.newOrderID(),
		UserID: user.ID,
		Date:   s.now().UTC(),
		Status: domain.OrderStatusProcessing,
		Items:  make([]domain.OrderItem, 0, len(q.Lines)),
		Summary: domain.OrderSummary{
			Total:          q.Total,
			DeliveryFee:    q.DeliveryFee,
			DeliveryMethod: q.DeliveryMethod.Label(),
			EarnedPoints:   q.EstimatedPoints,
		},
	}
	for _, l := range q.Lines {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:    l.Product.ID,
			Name:         l.Product.Name,
			Image:        l.Product.PrimaryImage(),
			Quantity:     l.Quantity,
			PricePerUnit: l.Product.Price,
			TotalPrice:   l.LineTotal,
		})
	}

	history := s.historyBucket(user.ID)
	orders, err := history.Load(ctx)
	if err != nil {
		return domain.Order{}, err
	}
	if err := history.Save(ctx, append([]domain.Order{order}, orders...)); err != nil {
		return domain.Order{}, err
	}

	user.Points += order.Summary.EarnedPoints
	if err := s.saveUser(ctx, user); err != nil {
		return domain.Order{}, err
	}

	purchased := make([]string, 0, len(order.Items))
	for _, it := range order.Items {
		purchased = append(purchased, it.ProductID)
	}
	if err := s.updateCart(ctx, func(items []domain.CartItem) []domain.CartItem {
		return slices.DeleteFunc(items, func(it domain.CartItem) bool { return slices.Contains(purchased, it.ProductID) })
	}); err != nil {
		return domain.Order{}, err
	}

	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("user_id", user.ID),
		zap.Int64("total", order.Summary.Total),
		zap.Int("earned_points", order.Summary.EarnedPoints))
	return order, nil
}

// Orders returns the purchase history of the current user, newest first.
func (s *Service) Orders(ctx context.Context) ([]domain.Order, error) {
	user, err := s.requireUser(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.historyBucket(user.ID).Load(ctx)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}
