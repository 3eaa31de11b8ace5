package domain

import (
	"strings"
	"time"
)

// CartItem is one line in a shopper's cart.
type CartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// MembershipTier is the mock loyalty level of a user.
type MembershipTier string

const (
	TierBronze MembershipTier = "bronze"
	TierSilver MembershipTier = "silver"
	TierGold   MembershipTier = "gold"
)

// ParseTier normalises a tier name. Unknown or empty names map to bronze.
func ParseTier(s string) MembershipTier {
	switch MembershipTier(strings.ToLower(strings.TrimSpace(s))) {
	case TierSilver:
		return TierSilver
	case TierGold:
		return TierGold
	default:
		return TierBronze
	}
}

// PointsMultiplier scales earned points for the tier.
func (t MembershipTier) PointsMultiplier() float64 {
	switch t {
	case TierSilver:
		return 1.1
	case TierGold:
		return 1.25
	default:
		return 1
	}
}

// FreeDelivery reports whether home delivery is free for the tier.
func (t MembershipTier) FreeDelivery() bool {
	return t == TierGold
}

// User is the single mock profile of a storefront client.
type User struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Joined     time.Time      `json:"joined"`
	Membership MembershipTier `json:"membership"`
	Points     int            `json:"points"`
}

// DeliveryMethod is how an order reaches the shopper.
type DeliveryMethod string

const (
	DeliveryPickup DeliveryMethod = "pickup"
	DeliveryHome   DeliveryMethod = "delivery"
)

// Label is the human readable name stored on orders.
func (m DeliveryMethod) Label() string {
	if m == DeliveryHome {
		return "Home Delivery"
	}
	return "Store Pickup"
}

const OrderStatusProcessing = "Processing"

// OrderItem is a snapshot of a purchased cart line.
type OrderItem struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	Image        string `json:"image,omitempty"`
	Quantity     int    `json:"quantity"`
	PricePerUnit int64  `json:"price_per_unit"`
	TotalPrice   int64  `json:"total_price"`
}

// OrderSummary holds the financials of a placed order.
type OrderSummary struct {
	Total          int64  `json:"total"`
	DeliveryFee    int64  `json:"delivery_fee"`
	DeliveryMethod string `json:"delivery_method"`
	EarnedPoints   int    `json:"earned_points"`
}

// Order is an entry of a user's purchase history.
type Order struct {
	ID      string       `json:"id"`
	UserID  string       `json:"user_id"`
	Date    time.Time    `json:"date"`
	Status  string       `json:"status"`
	Items   []OrderItem  `json:"items"`
	Summary OrderSummary `json:"summary"`
}
