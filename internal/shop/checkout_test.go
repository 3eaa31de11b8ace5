package shop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
)

func fillCart(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, svc.AddToCart(ctx, "kms-003", 2))
	require.NoError(t, svc.AddToCart(ctx, "glass-electric-kettle", 1))
}

func TestQuote(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registerUser(t, svc)
	fillCart(t, svc)

	q, err := svc.Quote(ctx, []string{"kms-003", "glass-electric-kettle"}, domain.DeliveryHome)
	require.NoError(t, err)

	assert.Len(t, q.Lines, 2)
	assert.Equal(t, int64(5_348_000), q.Subtotal)
	assert.Equal(t, int64(50_000), q.DeliveryFee)
	assert.Equal(t, int64(0), q.Discount)
	assert.Equal(t, int64(5_398_000), q.Total)
	assert.Equal(t, 5398, q.EstimatedPoints)

	q, err = svc.Quote(ctx, []string{"glass-electric-kettle", "not-in-cart"}, domain.DeliveryPickup)
	require.NoError(t, err)
	assert.Equal(t, int64(0), q.DeliveryFee)
	assert.Equal(t, int64(350_000), q.Total)

	q, err = svc.Quote(ctx, nil, domain.DeliveryHome)
	require.NoError(t, err)
	assert.Len(t, q.Lines, 2)
	assert.Equal(t, int64(5_398_000), q.Total)

	q, err = svc.Quote(ctx, []string{}, domain.DeliveryHome)
	require.NoError(t, err)
	assert.Empty(t, q.Lines)
	assert.Equal(t, int64(50_000), q.Total)
}

func TestQuote_TierRules(t *testing.T) {
	tests := []struct {
		tier       domain.MembershipTier
		wantFee    int64
		wantPoints int
	}{
		{domain.TierBronze, 50_000, 400},
		{domain.TierSilver, 50_000, 440},
		{domain.TierGold, 0, 437},
	}
	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			svc, _ := newTestService(t)
			ctx := context.Background()
			registerUser(t, svc)
			_, err := svc.Subscribe(ctx, tt.tier)
			require.NoError(t, err)
			fillCart(t, svc)

			q, err := svc.Quote(ctx, []string{"glass-electric-kettle"}, domain.DeliveryHome)
			require.NoError(t, err)

			assert.Equal(t, tt.wantFee, q.DeliveryFee)
			assert.Equal(t, tt.wantPoints, q.EstimatedPoints)
		})
	}
}

func TestEarnedPoints(t *testing.T) {
	assert.Equal(t, 0, EarnedPoints(999, domain.TierBronze))
	assert.Equal(t, 2499, EarnedPoints(2_499_000, domain.TierBronze))
	assert.Equal(t, 2748, EarnedPoints(2_499_000, domain.TierSilver))
	assert.Equal(t, 3123, EarnedPoints(2_499_000, domain.TierGold))
}

func TestCheckout(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registerUser(t, svc)
	fillCart(t, svc)

	order, err := svc.Checkout(ctx, []string{"kms-003"}, domain.DeliveryPickup)
	require.NoError(t, err)

	assert.Equal(t, domain.Order{
		ID:     "TH-4242",
		UserID: "user_test",
		Date:   testNow,
		Status: "Processing",
		Items: []domain.OrderItem{{
			ProductID:    "kms-003",
			Name:         "32L Grill Microwave with Ceramic Enamel Interior",
			Image:        "/assets/images/products/kms_003_1.jpg",
			Quantity:     2,
			PricePerUnit: 2_499_000,
			TotalPrice:   4_998_000,
		}},
		Summary: domain.OrderSummary{
			Total:          4_998_000,
			DeliveryFee:    0,
			DeliveryMethod: "Store Pickup",
			EarnedPoints:   4998,
		},
	}, order)

	items, err := svc.CartItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{{ProductID: "glass-electric-kettle", Quantity: 1}}, items)

	user, _, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4998, user.Points)

	orders, err := svc.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order, orders[0])
}

func TestCheckout_NewestOrderFirst(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	registerUser(t, svc)
	fillCart(t, svc)

	ids := []string{"TH-1001", "TH-2002"}
	svc.newOrderID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	_, err := svc.Checkout(ctx, []string{"kms-003"}, domain.DeliveryPickup)
	require.NoError(t, err)
	second, err := svc.Checkout(ctx, []string{"glass-electric-kettle"}, domain.DeliveryHome)
	require.NoError(t, err)
	assert.Equal(t, "Home Delivery", second.Summary.DeliveryMethod)
	assert.Equal(t, int64(400_000), second.Summary.Total)

	orders, err := svc.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "TH-2002", orders[0].ID)
	assert.Equal(t, "TH-1001", orders[1].ID)

	user, _, err := svc.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4998+400, user.Points)
}

func TestCheckout_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Checkout(ctx, []string{"kms-003"}, domain.DeliveryPickup)
	assert.ErrorIs(t, err, ErrLoginRequired)

	_, err = svc.Orders(ctx)
	assert.ErrorIs(t, err, ErrLoginRequired)

	registerUser(t, svc)
	fillCart(t, svc)

	_, err = svc.Checkout(ctx, nil, domain.DeliveryPickup)
	assert.ErrorIs(t, err, ErrEmptySelection)

	_, err = svc.Checkout(ctx, []string{"not-in-cart"}, domain.DeliveryPickup)
	assert.ErrorIs(t, err, ErrEmptySelection)

	orders, err := svc.Orders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "2,499,000 UZS", FormatPrice(2_499_000))
	assert.Equal(t, "0 UZS", FormatPrice(0))
}
