package httptransport

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"storefront/internal/cart"
	"storefront/internal/platform/middleware"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/httputil"
)

// CartHandler exposes the cart store. Every mutation answers with the new
// snapshot.
type CartHandler struct {
	cart Cart
}

func NewCartHandler(c Cart) *CartHandler {
	return &CartHandler{cart: c}
}

func (h *CartHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/cart", h.handleGet)
		r.Post("/cart/items", h.handleAdd)
		r.Delete("/cart/items/{productID}", h.handleRemove)
		r.Delete("/cart", h.handleClear)
	})
}

func (h *CartHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *CartHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var item cart.Item
	if err := httputil.DecodeJSON(r, &item); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if strings.TrimSpace(item.ProductID) == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "productId is required"))
		return
	}
	if item.Quantity < 0 || item.UnitPrice < 0 {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "quantity and unitPrice must not be negative"))
		return
	}

	h.cart.Add(r.Context(), item)
	httputil.WriteJSON(w, http.StatusOK, h.cart.Snapshot())
}

// handleRemove drops one variant line when color or size is given,
// otherwise every line of the product.
func (h *CartHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	q := r.URL.Query()

	var variant *cart.VariantKey
	if q.Has("color") || q.Has("size") {
		variant = &cart.VariantKey{Color: q.Get("color"), Size: q.Get("size")}
	}

	h.cart.Remove(r.Context(), productID, variant)
	httputil.WriteJSON(w, http.StatusOK, h.cart.Snapshot())
}

func (h *CartHandler) handleClear(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	httputil.WriteJSON(w, http.StatusOK, h.cart.Snapshot())
}
