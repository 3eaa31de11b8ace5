package domain

import "strings"

// BadgeType tags a product card (discounted, trending, new arrival, etc.).
type BadgeType string

const (
	BadgeDiscount   BadgeType = "discount"
	BadgeHot        BadgeType = "hot"
	BadgeNew        BadgeType = "new"
	BadgeBestseller BadgeType = "bestseller"
	BadgeSale       BadgeType = "sale"
)

// Badge is the small tag rendered on a product card. Text is what the
// shopper sees ("-15%", "HOT"); Type is what filters and sorts look at.
type Badge struct {
	Type BadgeType `json:"type" yaml:"type" validate:"required,oneof=discount hot new bestseller sale"`
	Text string    `json:"text" yaml:"text"`
}

// Product represents an appliance in the catalog.
// Products are loaded once from the dataset and never mutated afterwards.
type Product struct {
	ID            string            `json:"id" yaml:"id" validate:"required,max=255"`
	Name          string            `json:"name" yaml:"name" validate:"required"`
	Category      string            `json:"category" yaml:"category" validate:"required"`
	Brand         string            `json:"brand" yaml:"brand" validate:"required"`
	Price         int64             `json:"price" yaml:"price" validate:"gte=0"` // smallest currency unit (UZS)
	OriginalPrice *int64            `json:"original_price,omitempty" yaml:"original_price,omitempty" validate:"omitempty,gte=0"`
	Rating        float64           `json:"rating" yaml:"rating" validate:"gte=0,lte=5"`
	Reviews       int               `json:"reviews" yaml:"reviews" validate:"gte=0"`
	Badge         *Badge            `json:"badge,omitempty" yaml:"badge,omitempty"`
	Images        []string          `json:"images" yaml:"images" validate:"required,min=1,dive,required"`
	Description   string            `json:"description" yaml:"description"`
	Specs         map[string]string `json:"specs,omitempty" yaml:"specs,omitempty"`
	Features      []string          `json:"features,omitempty" yaml:"features,omitempty"`
}

// Popularity is the score used by the "popular" sort.
func (p Product) Popularity() float64 {
	return p.Rating * float64(p.Reviews)
}

// HasBadge reports whether the product carries a badge of exactly type t.
func (p Product) HasBadge(t BadgeType) bool {
	return p.Badge != nil && p.Badge.Type == t
}

// BadgeMatches compares label against the badge type ignoring case.
// Products without a badge never match.
func (p Product) BadgeMatches(label string) bool {
	return p.Badge != nil && strings.EqualFold(label, string(p.Badge.Type))
}

// PrimaryImage returns the first image path, or "" when there is none.
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
