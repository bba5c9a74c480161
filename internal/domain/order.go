package domain

import (
	"context"

	"github.com/facetworks/facet/internal/repository"
)

// Order-related domain errors.
var (
	ErrOrderNotFound      = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrEmptyOrder         = &Error{Code: EINVALID, Message: "Order must contain at least one item"}
	ErrProductNotFound    = &Error{Code: EINVALID, Message: "Unknown or inactive product in order"}
	ErrAddressNotFound    = &Error{Code: EINVALID, Message: "Address not found for customer"}
)

// OrderItemInput is one requested line in a new order. Unit prices are not
// accepted from the client: the current catalog price is snapshotted at
// creation time so later price edits never alter placed orders.
type OrderItemInput struct {
	ProductID string
	Quantity  int32
	Notes     string
}

// CreateOrderParams contains parameters for creating an order from a cart snapshot.
type CreateOrderParams struct {
	UserID            string
	Items             []OrderItemInput
	BillingAddressID  string
	ShippingAddressID string // optional; defaults to billing address
	PaymentMethod     string
	ShippingMethod    string
	TaxCents          int64
	ShippingCents     int64
	Notes             string
	CouponCode        string // optional
}

// UpdateOrderStatusParams contains parameters for a staff status change.
type UpdateOrderStatusParams struct {
	OrderID string
	Status  OrderStatus
}

// OrderDetail aggregates an order with its items and addresses.
type OrderDetail struct {
	Order           repository.Order
	Items           []repository.OrderItem
	BillingAddress  *repository.Address
	ShippingAddress *repository.Address

	// Discount is the coupon discount absorbed into the order totals at
	// creation. Present only on the create response; it is not persisted
	// as its own column.
	Discount *Discount
}

// OrderService provides business logic for order operations.
type OrderService interface {
	// CreateOrder snapshots catalog prices, recomputes totals server-side,
	// persists the order and its items transactionally, and redeems the
	// coupon (if any) after the order commit.
	CreateOrder(ctx context.Context, params CreateOrderParams) (*OrderDetail, error)

	// GetOrder retrieves a single order scoped to its owner.
	GetOrder(ctx context.Context, userID, orderID string) (*OrderDetail, error)

	// ListOrders returns the caller's orders, newest first.
	ListOrders(ctx context.Context, userID string) ([]OrderDetail, error)

	// UpdateOrderStatus applies a staff status change, validated against the
	// order status machine.
	UpdateOrderStatus(ctx context.Context, params UpdateOrderStatusParams) (*repository.Order, error)
}
