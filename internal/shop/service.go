// Package shop holds the per-client storefront features: mock account,
// cart, wishlist, comparison list and checkout. A Service is bound to one
// client namespace of the key/value store and is cheap to construct per
// request.
package shop

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Sanjarbek-2007/Tech-House/internal/catalog"
	"github.com/Sanjarbek-2007/Tech-House/internal/store"
)

// Persisted keys, relative to the client namespace.
const (
	KeyUser        = "shop_user_v2"
	KeyWishlist    = "likedAppliances"
	KeyCompareList = "shop_compare_list"
	keyGuestCart   = "shop_cart_guest"
	cartKeyPrefix  = "shop_cart_"
	historyPrefix  = "purchase_history_"
)

const (
	DefaultCompareLimit       = 6
	DefaultDeliveryFee  int64 = 50_000
	Currency                  = "UZS"
)

var (
	ErrLoginRequired   = errors.New("shop: please create a profile first to start shopping")
	ErrProductNotFound = errors.New("shop: product not found")
	ErrCompareFull     = errors.New("shop: comparison list is full")
	ErrEmptySelection  = errors.New("shop: no items selected for checkout")
	ErrInvalidProfile  = errors.New("shop: invalid profile")
)

// CompareFullNotice is the message shown when the comparison list is full.
func CompareFullNotice(limit int) string {
	return fmt.Sprintf("Limit reached (Max %d). Remove an item first.", limit)
}

// Options tunes a Service. Zero values select the defaults.
type Options struct {
	CompareLimit int
	DeliveryFee  *int64
	Now          func() time.Time
	NewUserID    func() string
	NewOrderID   func() string
	Logger       *zap.Logger
}

// Service implements the shop features for one client.
type Service struct {
	catalog      *catalog.Catalog
	kv           store.KVStore
	compareLimit int
	deliveryFee  int64
	now          func() time.Time
	newUserID    func() string
	newOrderID   func() string
	logger       *zap.Logger
}

// New binds the shop features to cat and the client's store view kv.
func New(cat *catalog.Catalog, kv store.KVStore, opts Options) *Service {
	s := &Service{
		catalog:      cat,
		kv:           kv,
		compareLimit: opts.CompareLimit,
		deliveryFee:  DefaultDeliveryFee,
		now:          opts.Now,
		newUserID:    opts.NewUserID,
		newOrderID:   opts.NewOrderID,
		logger:       opts.Logger,
	}
	if s.compareLimit <= 0 {
		s.compareLimit = DefaultCompareLimit
	}
	if opts.DeliveryFee != nil {
		s.deliveryFee = *opts.DeliveryFee
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newUserID == nil {
		s.newUserID = func() string { return "user_" + uuid.NewString() }
	}
	if s.newOrderID == nil {
		s.newOrderID = func() string { return "TH-" + strconv.Itoa(1000+rand.Intn(9000)) }
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Catalog returns the product set the service resolves ids against.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// CompareLimit returns the capacity of the comparison list.
func (s *Service) CompareLimit() int { return s.compareLimit }

var printer = message.NewPrinter(language.English)

// FormatPrice renders an amount with digit grouping, e.g. "2,499,000 UZS".
func FormatPrice(amount int64) string {
	return printer.Sprintf("%d %s", amount, Currency)
}

func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}
