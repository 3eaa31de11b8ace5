package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
	"github.com/Sanjarbek-2007/Tech-House/internal/shop"
	"github.com/Sanjarbek-2007/Tech-House/internal/store"
)

// --- Request payloads ---

type AddCartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=99"`
}

type UpdateMembershipRequest struct {
	Tier string `json:"tier" validate:"required,oneof=bronze silver gold"`
}

type CheckoutRequest struct {
	Selected       []string `json:"selected" validate:"required,min=1,dive,required"`
	DeliveryMethod string   `json:"delivery_method" validate:"omitempty,oneof=pickup delivery"`
}

// --- Responses ---

type AccountResponse struct {
	User     domain.User       `json:"user"`
	Progress shop.TierProgress `json:"progress"`
}

type CartResponse struct {
	Items []shop.CartLine `json:"items"`
	Count int             `json:"count"`
	Total int64           `json:"total"`
}

type ToggleResponse struct {
	ProductID string `json:"product_id"`
	Active    bool   `json:"active"`
	Count     int    `json:"count"`
}

type ComparisonResponse struct {
	shop.Comparison
	IDs   []string `json:"ids"`
	Limit int      `json:"limit"`
}

// shopFor binds the shop features to the caller's session.
func (h *HTTPHandler) shopFor(r *http.Request) *shop.Service {
	kv := store.Namespace(h.kv, SessionFromContext(r.Context()))
	return shop.New(h.catalog, kv, h.opts.Shop)
}

func (h *HTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	defer r.Body.Close()
	if err := h.validate.Struct(dst); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return false
	}
	return true
}

// respondWithShopError maps shop errors to HTTP status codes.
func (h *HTTPHandler) respondWithShopError(w http.ResponseWriter, err error, svc *shop.Service) {
	switch {
	case errors.Is(err, shop.ErrLoginRequired):
		h.respondWithError(w, http.StatusUnauthorized, "Please create a profile first to start shopping")
	case errors.Is(err, shop.ErrProductNotFound):
		h.respondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, shop.ErrCompareFull):
		h.respondWithError(w, http.StatusConflict, shop.CompareFullNotice(svc.CompareLimit()))
	case errors.Is(err, shop.ErrEmptySelection):
		h.respondWithError(w, http.StatusBadRequest, "Please select at least one item to checkout")
	case errors.Is(err, shop.ErrInvalidProfile):
		h.respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("shop operation failed", zap.Error(err))
		h.respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// --- Account Handlers ---

func (h *HTTPHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	user, ok, err := svc.CurrentUser(r.Context())
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	if !ok {
		h.respondWithShopError(w, shop.ErrLoginRequired, svc)
		return
	}
	h.respondWithJSON(w, http.StatusOK, AccountResponse{User: user, Progress: shop.Progress(user)})
}

func (h *HTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req shop.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	svc := h.shopFor(r)
	user, err := svc.Register(r.Context(), req)
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, AccountResponse{User: user, Progress: shop.Progress(user)})
}

func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	if err := svc.Logout(r.Context()); err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *HTTPHandler) UpdateMembership(w http.ResponseWriter, r *http.Request) {
	var req UpdateMembershipRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	svc := h.shopFor(r)
	user, err := svc.Subscribe(r.Context(), domain.ParseTier(req.Tier))
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithJSON(w, http.StatusOK, AccountResponse{User: user, Progress: shop.Progress(user)})
}

// --- Cart Handlers ---

func (h *HTTPHandler) respondWithCart(w http.ResponseWriter, r *http.Request, svc *shop.Service, code int) {
	lines, err := svc.CartLines(r.Context())
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	count, err := svc.CartCount(r.Context())
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	var total int64
	for _, l := range lines {
		total += l.LineTotal
	}
	h.respondWithJSON(w, code, CartResponse{Items: lines, Count: count, Total: total})
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.respondWithCart(w, r, h.shopFor(r), http.StatusOK)
}

func (h *HTTPHandler) GetCartSummary(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	q := r.URL.Query()
	quote, err := svc.Quote(r.Context(), q["selected"], domain.DeliveryMethod(q.Get("delivery")))
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithJSON(w, http.StatusOK, quote)
}

func (h *HTTPHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	svc := h.shopFor(r)
	if err := svc.AddToCart(r.Context(), req.ProductID, req.Quantity); err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithCart(w, r, svc, http.StatusCreated)
}

func (h *HTTPHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req UpdateCartItemRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	svc := h.shopFor(r)
	if err := svc.UpdateQuantity(r.Context(), chi.URLParam(r, "productId"), req.Quantity); err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithCart(w, r, svc, http.StatusOK)
}

func (h *HTTPHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	if err := svc.RemoveFromCart(r.Context(), chi.URLParam(r, "productId")); err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithCart(w, r, svc, http.StatusOK)
}

func (h *HTTPHandler) IncrementCartItem(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	if err := svc.IncrementItem(r.Context(), chi.URLParam(r, "productId")); err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithCart(w, r, svc, http.StatusOK)
}

func (h *HTTPHandler) DecrementCartItem(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	if err := svc.DecrementItem(r.Context(), chi.URLParam(r, "productId")); err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithCart(w, r, svc, http.StatusOK)
}

// --- Wishlist Handlers ---

func (h *HTTPHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	products, err := svc.WishlistProducts(r.Context(), shop.WishlistSort(r.URL.Query().Get("sort")))
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]any{"data": products, "count": len(products)})
}

func (h *HTTPHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	productID := chi.URLParam(r, "productId")
	liked, err := svc.ToggleWishlist(r.Context(), productID)
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	ids, err := svc.WishlistIDs(r.Context())
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithJSON(w, http.StatusOK, ToggleResponse{ProductID: productID, Active: liked, Count: len(ids)})
}

func (h *HTTPHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	if err := svc.ClearWishlist(r.Context()); err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Compare Handlers ---

func (h *HTTPHandler) GetComparison(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	c, err := svc.Compare(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	ids, err := svc.CompareIDs(r.Context())
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithJSON(w, http.StatusOK, ComparisonResponse{Comparison: c, IDs: ids, Limit: svc.CompareLimit()})
}

func (h *HTTPHandler) ToggleCompare(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	productID := chi.URLParam(r, "productId")
	added, err := svc.ToggleCompare(r.Context(), productID)
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	ids, err := svc.CompareIDs(r.Context())
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithJSON(w, http.StatusOK, ToggleResponse{ProductID: productID, Active: added, Count: len(ids)})
}

func (h *HTTPHandler) RemoveCompare(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	if err := svc.RemoveCompare(r.Context(), chi.URLParam(r, "productId")); err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- Order Handlers ---

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	defer r.Body.Close()

	svc := h.shopFor(r)
	if err := h.validate.Struct(req); err != nil {
		// An empty selection reads the same as the shop's own check.
		if len(req.Selected) == 0 {
			h.respondWithShopError(w, shop.ErrEmptySelection, svc)
			return
		}
		h.respondWithError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	method := domain.DeliveryMethod(req.DeliveryMethod)
	order, err := svc.Checkout(r.Context(), req.Selected, method)
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithJSON(w, http.StatusCreated, order)
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	svc := h.shopFor(r)
	orders, err := svc.Orders(r.Context())
	if err != nil {
		h.respondWithShopError(w, err, svc)
		return
	}
	h.respondWithJSON(w, http.StatusOK, map[string]any{"data": orders})
}
