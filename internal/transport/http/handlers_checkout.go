package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/platform/middleware"
	"storefront/internal/storage"
	dErrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/httputil"
)

// CheckoutHandler serves the guarded checkout routes and the one-shot
// message left behind by a refused checkout.
type CheckoutHandler struct {
	guard  func(http.Handler) http.Handler
	cart   Cart
	orders OrderPlacer
	kv     storage.Store
	logger *slog.Logger
}

// NewCheckoutHandler takes the guard as a middleware so tests can stand in
// an allowed result without running the pipeline.
func NewCheckoutHandler(guard func(http.Handler) http.Handler, c Cart, orders OrderPlacer, kv storage.Store, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		guard:  guard,
		cart:   c,
		orders: orders,
		kv:     kv,
		logger: logger,
	}
}

func (h *CheckoutHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/checkout/message", h.handleMessage)

		r.Group(func(r chi.Router) {
			r.Use(h.guard)
			r.Get("/checkout", h.handleSummary)
			r.Post("/checkout/orders", h.handlePlaceOrder)
		})
	})
}

type checkoutSummary struct {
	Result checkout.Result `json:"result"`
	Cart   cart.State      `json:"cart"`
}

func (h *CheckoutHandler) handleSummary(w http.ResponseWriter, r *http.Request) {
	res, ok := checkout.FromContext(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "checkout result missing from context despite guard",
			"request_id", middleware.GetRequestID(r.Context()),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "checkout context error"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, checkoutSummary{Result: res, Cart: h.cart.Snapshot()})
}

type placeOrderRequest struct {
	PaymentMethod string `json:"payment_method"`
}

func (h *CheckoutHandler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	res, ok := checkout.FromContext(ctx)
	if !ok || res.Credential == nil {
		h.logger.ErrorContext(ctx, "checkout result missing from context despite guard",
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "checkout context error"))
		return
	}

	var req placeOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	snapshot := h.cart.Snapshot()
	order, err := h.orders.CreateOrder(ctx, res.Credential.RawToken, backend.OrderRequest{
		Items:         orderLines(snapshot.Items),
		Total:         snapshot.Total,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "order creation failed",
			"request_id", requestID,
			"subject_id", res.SubjectID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.cart.Clear(ctx)
	h.logger.InfoContext(ctx, "order created",
		"request_id", requestID,
		"subject_id", res.SubjectID,
		"order_id", order.OrderID,
	)
	httputil.WriteJSON(w, http.StatusCreated, order)
}

type checkoutMessage struct {
	Message string `json:"message,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// handleMessage hands out the stored messages once; a second read is empty.
func (h *CheckoutHandler) handleMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var out checkoutMessage
	var err error
	if out.Message, err = h.take(r, storage.KeyCheckoutMessage); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if out.Warning, err = h.take(r, storage.KeyCheckoutWarning); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if out.Message == "" && out.Warning == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	h.logger.DebugContext(ctx, "checkout message consumed", "request_id", middleware.GetRequestID(ctx))
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *CheckoutHandler) take(r *http.Request, key string) (string, error) {
	v, err := h.kv.Take(r.Context(), key)
	if err == nil || storage.IsNotFound(err) {
		return v, nil
	}
	h.logger.ErrorContext(r.Context(), "failed to read checkout message",
		"request_id", middleware.GetRequestID(r.Context()),
		"key", key,
		"error", err,
	)
	return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "message store unavailable")
}

func orderLines(items []cart.Item) []backend.OrderLine {
	lines := make([]backend.OrderLine, 0, len(items))
	for _, it := range items {
		line := backend.OrderLine{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		}
		if it.Variant != nil {
			line.Color = it.Variant.Color
			line.Size = it.Variant.Size
			line.SKU = it.Variant.SKU
		}
		lines = append(lines, line)
	}
	return lines
}
