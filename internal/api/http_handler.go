package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Sanjarbek-2007/Tech-House/internal/catalog"
	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
	"github.com/Sanjarbek-2007/Tech-House/internal/shop"
	"github.com/Sanjarbek-2007/Tech-House/internal/store"
)

const (
	maxShelfLimit = 24
	maxPageSize   = 100
)

// Options carries the catalog defaults and shop settings of the handlers.
type Options struct {
	PageSize     int
	PriceCeiling int64
	Shop         shop.Options
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	catalog  *catalog.Catalog
	kv       store.KVStore
	opts     Options
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHTTPHandler creates a new HTTPHandler. kv is the shared backend;
// every request works on its own session namespace of it.
func NewHTTPHandler(cat *catalog.Catalog, kv store.KVStore, opts Options, logger *zap.Logger) *HTTPHandler {
	if opts.PageSize <= 0 {
		opts.PageSize = catalog.DefaultPageSize
	}
	if opts.PriceCeiling <= 0 {
		opts.PriceCeiling = catalog.DefaultPriceCeiling
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.Shop.Logger = logger
	return &HTTPHandler{
		catalog:  cat,
		kv:       kv,
		opts:     opts,
		validate: validator.New(),
		logger:   logger,
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, ErrorResponse{Error: message})
}

func (h *HTTPHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.logger.Error("failed to encode JSON response", zap.Error(err))
		}
	}
}

// --- Catalog responses ---

// PaginationInfo matches the list envelope of every paged endpoint.
type PaginationInfo struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// ProductListResponse is one page of the catalog grid.
type ProductListResponse struct {
	Data          []domain.Product    `json:"data"`
	Pagination    PaginationInfo      `json:"pagination"`
	Filters       catalog.FilterState `json:"filters"`
	Sort          catalog.SortMode    `json:"sort"`
	FiltersActive bool                `json:"filters_active"`
	Empty         bool                `json:"empty"`
	Query         string              `json:"query"`
}

// FacetsResponse lists the filter sidebar values with catalog-wide counts.
type FacetsResponse struct {
	Categories   []catalog.FacetValue `json:"categories"`
	Brands       []catalog.FacetValue `json:"brands"`
	Badges       []catalog.FacetValue `json:"badges"`
	Features     []catalog.FacetValue `json:"features"`
	SortModes    []catalog.SortMode   `json:"sort_modes"`
	PriceCeiling int64                `json:"price_ceiling"`
}

// ProductDetailResponse is the product page payload.
type ProductDetailResponse struct {
	Product domain.Product   `json:"product"`
	Related []domain.Product `json:"related"`
}

func newProductListResponse(res catalog.Result, opts Options) ProductListResponse {
	return ProductListResponse{
		Data: res.Items,
		Pagination: PaginationInfo{
			Page:       res.State.Pagination.Page,
			Limit:      res.State.Pagination.PageSize,
			TotalItems: res.TotalCount,
			TotalPages: res.TotalPages,
		},
		Filters:       res.State.Filters,
		Sort:          res.State.Sort,
		FiltersActive: res.State.Filters.Active(opts.PriceCeiling),
		Empty:         res.Empty(),
		Query:         res.State.Values(opts.PageSize, opts.PriceCeiling).Encode(),
	}
}

func newFacetsResponse(fc catalog.FacetCounts, priceCeiling int64) FacetsResponse {
	return FacetsResponse{
		Categories:   fc.Sorted(catalog.DimensionCategory),
		Brands:       fc.Sorted(catalog.DimensionBrand),
		Badges:       fc.Sorted(catalog.DimensionBadge),
		Features:     fc.Sorted(catalog.DimensionFeature),
		SortModes:    catalog.SortModes,
		PriceCeiling: priceCeiling,
	}
}

// queryState decodes list parameters over the configured defaults.
func queryState(v url.Values, opts Options) catalog.State {
	base := catalog.NewState(opts.PageSize, opts.PriceCeiling)
	st := catalog.StateFromQuery(v, base, opts.PriceCeiling)
	st.Pagination.PageSize = min(st.Pagination.PageSize, maxPageSize)
	return st
}

// --- Catalog Handlers ---

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	st := queryState(r.URL.Query(), h.opts)
	res := h.catalog.Query(st)
	h.respondWithJSON(w, http.StatusOK, newProductListResponse(res, h.opts))
}

func (h *HTTPHandler) GetFacets(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, newFacetsResponse(h.catalog.Facets(), h.opts.PriceCeiling))
}

func (h *HTTPHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")
	p, ok := h.catalog.Get(productID)
	if !ok {
		h.respondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	related, _ := h.catalog.Related(productID, shelfLimit(r))
	h.respondWithJSON(w, http.StatusOK, ProductDetailResponse{Product: p, Related: related})
}

func (h *HTTPHandler) GetRelatedProducts(w http.ResponseWriter, r *http.Request) {
	related, ok := h.catalog.Related(chi.URLParam(r, "productId"), shelfLimit(r))
	if !ok {
		h.respondWithError(w, http.StatusNotFound, "Product not found")
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]any{"data": related})
}

func (h *HTTPHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]any{"data": h.catalog.Trending(shelfLimit(r))})
}

func (h *HTTPHandler) GetNewArrivals(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]any{"data": h.catalog.NewArrivals(shelfLimit(r))})
}

// shelfLimit reads ?limit= for the home page shelves.
func shelfLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		return 0
	}
	return min(limit, maxShelfLimit)
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		// Fixed paths before {productId} so they are not taken as ids.
		r.Get("/facets", h.GetFacets)
		r.Get("/trending", h.GetTrending)
		r.Get("/new-arrivals", h.GetNewArrivals)
		r.Route("/{productId}", func(r chi.Router) {
			r.Get("/", h.GetProductByID)
			r.Get("/related", h.GetRelatedProducts)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(h.SessionMiddleware)

		r.Route("/api/v1/account", func(r chi.Router) {
			r.Get("/", h.GetAccount)
			r.Post("/register", h.Register)
			r.Post("/logout", h.Logout)
			r.Put("/membership", h.UpdateMembership)
		})

		r.Route("/api/v1/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Get("/summary", h.GetCartSummary)
			r.Post("/items", h.AddCartItem)
			r.Route("/items/{productId}", func(r chi.Router) {
				r.Put("/", h.UpdateCartItem)
				r.Delete("/", h.RemoveCartItem)
				r.Post("/increment", h.IncrementCartItem)
				r.Post("/decrement", h.DecrementCartItem)
			})
		})

		r.Route("/api/v1/wishlist", func(r chi.Router) {
			r.Get("/", h.GetWishlist)
			r.Delete("/", h.ClearWishlist)
			r.Post("/{productId}/toggle", h.ToggleWishlist)
		})

		r.Route("/api/v1/compare", func(r chi.Router) {
			r.Get("/", h.GetComparison)
			r.Post("/{productId}/toggle", h.ToggleCompare)
			r.Delete("/{productId}", h.RemoveCompare)
		})

		r.Route("/api/v1/orders", func(r chi.Router) {
			r.Get("/", h.ListOrders)
			r.Post("/", h.Checkout)
		})
	})
}
