package backend

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	dErrors "storefront/pkg/domain-errors"
)

// OrderLine is one cart line in an order request.
type OrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	SKU       string `json:"sku,omitempty"`
}

type OrderRequest struct {
	Items         []OrderLine `json:"items"`
	Total         int64       `json:"total"`
	PaymentMethod string      `json:"payment_method"`
}

type Order struct {
	OrderID     string `json:"order_id"`
	ContinueURL string `json:"continue_url"`
}

// CreateOrder submits a cart snapshot. Each call carries a fresh
// idempotency key.
func (c *Client) CreateOrder(ctx context.Context, bearer string, req OrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, dErrors.New(dErrors.CodeCartEmpty, "cart is empty")
	}
	if req.PaymentMethod == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "payment method is required")
	}
	var order Order
	err := c.Do(ctx, Request{
		Method:         http.MethodPost,
		Path:           "/orders",
		Body:           req,
		Bearer:         bearer,
		IdempotencyKey: uuid.NewString(),
	}, &order)
	if err != nil {
		return nil, err
	}
	if order.OrderID == "" {
		return nil, dErrors.New(dErrors.CodeInternal, "backend returned no order id")
	}
	return &order, nil
}
