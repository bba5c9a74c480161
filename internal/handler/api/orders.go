package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/pricing"
	"github.com/facetworks/facet/internal/repository"
	"github.com/facetworks/facet/internal/telemetry"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// OrderHandler serves order placement and retrieval.
type OrderHandler struct {
	orders  domain.OrderService
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewOrderHandler creates an order handler.
func NewOrderHandler(orders domain.OrderService, logger *slog.Logger, metrics *telemetry.Metrics) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		logger:  logger,
		metrics: metrics,
	}
}

type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int32  `json:"quantity" validate:"required,gt=0"`
	Notes     string `json:"notes,omitempty"`
}

type createOrderRequest struct {
	Items             []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	BillingAddressID  string             `json:"billing_address_id" validate:"required,uuid"`
	ShippingAddressID string             `json:"shipping_address_id,omitempty" validate:"omitempty,uuid"`
	PaymentMethod     string             `json:"payment_method" validate:"required"`
	ShippingMethod    string             `json:"shipping_method" validate:"required"`
	Tax               decimal.Decimal    `json:"tax"`
	Shipping          decimal.Decimal    `json:"shipping"`
	Notes             string             `json:"notes,omitempty"`
	CouponCode        string             `json:"coupon_code,omitempty"`

	// Accepted for older clients that still send their own aggregates.
	// The server recomputes both from the items; these are never read.
	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type orderItemResponse struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Quantity   int32           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Notes      string          `json:"notes,omitempty"`
}

type addressResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	Status          string              `json:"status"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	Tax             decimal.Decimal     `json:"tax"`
	Shipping        decimal.Decimal     `json:"shipping"`
	Total           decimal.Decimal     `json:"total"`
	Currency        string              `json:"currency"`
	PaymentMethod   string              `json:"payment_method"`
	ShippingMethod  string              `json:"shipping_method"`
	Notes           string              `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	Items           []orderItemResponse `json:"items"`
	Discount        *discountResponse   `json:"discount,omitempty"`
	BillingAddress  *addressResponse    `json:"billing_address,omitempty"`
	ShippingAddress *addressResponse    `json:"shipping_address,omitempty"`
}

// CreateOrder handles POST /orders. The caller places an order for
// themselves; prices and totals are computed server-side.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())

	var req createOrderRequest
	if err := decodeRequest(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	taxCents, err := pricing.CentsFromDecimal(req.Tax)
	if err != nil {
		respondError(w, r, err)
		return
	}
	shippingCents, err := pricing.CentsFromDecimal(req.Shipping)
	if err != nil {
		respondError(w, r, err)
		return
	}

	items := make([]domain.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Notes:     item.Notes,
		})
	}

	detail, err := h.orders.CreateOrder(r.Context(), domain.CreateOrderParams{
		UserID:            user.ID.String(),
		Items:             items,
		BillingAddressID:  req.BillingAddressID,
		ShippingAddressID: req.ShippingAddressID,
		PaymentMethod:     req.PaymentMethod,
		ShippingMethod:    req.ShippingMethod,
		TaxCents:          taxCents,
		ShippingCents:     shippingCents,
		Notes:             req.Notes,
		CouponCode:        req.CouponCode,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.metrics.OrdersCreated.WithLabelValues(detail.Order.PaymentMethod).Inc()
	h.metrics.OrderValue.Observe(float64(detail.Order.TotalCents))
	if detail.Discount != nil {
		h.metrics.CouponsRedeemed.WithLabelValues(detail.Discount.Code).Inc()
	}

	writeJSON(w, http.StatusCreated, newOrderResponse(detail))
}

// GetOrder handles GET /orders/{id}. Customers see only their own orders;
// staff see any.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())

	scope := user.ID.String()
	if user.IsStaff() {
		scope = ""
	}

	detail, err := h.orders.GetOrder(r.Context(), scope, r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newOrderResponse(detail))
}

// ListOrders handles GET /orders, returning the caller's orders newest
// first.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user := domain.UserFromContext(r.Context())

	details, err := h.orders.ListOrders(r.Context(), user.ID.String())
	if err != nil {
		respondError(w, r, err)
		return
	}

	orders := make([]orderResponse, 0, len(details))
	for i := range details {
		orders = append(orders, newOrderResponse(&details[i]))
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateStatus handles PUT /orders/{id}/status. Staff only; the change is
// validated against the order status machine.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateOrderStatusRequest
	if err := decodeRequest(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	order, err := h.orders.UpdateOrderStatus(r.Context(), domain.UpdateOrderStatusParams{
		OrderID: r.PathValue("id"),
		Status:  domain.OrderStatus(req.Status),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newOrderResponse(&domain.OrderDetail{Order: *order}))
}

func newOrderResponse(detail *domain.OrderDetail) orderResponse {
	order := detail.Order

	resp := orderResponse{
		ID:             idString(order.ID),
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		Subtotal:       pricing.DecimalFromCents(order.SubtotalCents),
		Tax:            pricing.DecimalFromCents(order.TaxCents),
		Shipping:       pricing.DecimalFromCents(order.ShippingCents),
		Total:          pricing.DecimalFromCents(order.TotalCents),
		Currency:       order.Currency,
		PaymentMethod:  order.PaymentMethod,
		ShippingMethod: order.ShippingMethod,
		Notes:          order.Notes.String,
		CreatedAt:      order.CreatedAt.Time,
		Items:          make([]orderItemResponse, 0, len(detail.Items)),
	}

	for _, item := range detail.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:  idString(item.ProductID),
			Name:       item.ProductName,
			Quantity:   item.Quantity,
			UnitPrice:  pricing.DecimalFromCents(item.UnitPriceCents),
			TotalPrice: pricing.DecimalFromCents(item.TotalPriceCents),
			Notes:      item.Notes.String,
		})
	}

	if detail.Discount != nil {
		d := newDiscountResponse(detail.Discount)
		resp.Discount = &d
	}
	if detail.BillingAddress != nil {
		resp.BillingAddress = newAddressResponse(detail.BillingAddress)
	}
	if detail.ShippingAddress != nil {
		resp.ShippingAddress = newAddressResponse(detail.ShippingAddress)
	}
	return resp
}

func newAddressResponse(addr *repository.Address) *addressResponse {
	return &addressResponse{
		ID:         idString(addr.ID),
		FullName:   addr.FullName,
		Line1:      addr.Line1,
		Line2:      addr.Line2.String,
		City:       addr.City,
		Region:     addr.Region.String,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}
}

// idString formats a UUID column as its canonical string form.
func idString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}
