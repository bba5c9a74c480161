package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createOrder = `
INSERT INTO orders (
    user_id, order_number, status, subtotal_cents, tax_cents, shipping_cents,
    total_cents, currency, payment_method, shipping_method, coupon_id,
    billing_address_id, shipping_address_id, notes
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
RETURNING id, user_id, order_number, status, subtotal_cents, tax_cents,
          shipping_cents, total_cents, currency, payment_method, shipping_method,
          coupon_id, billing_address_id, shipping_address_id, notes, created_at, updated_at
`

type CreateOrderParams struct {
	UserID            pgtype.UUID
	OrderNumber       string
	Status            string
	SubtotalCents     int64
	TaxCents          int64
	ShippingCents     int64
	TotalCents        int64
	Currency          string
	PaymentMethod     string
	ShippingMethod    string
	CouponID          pgtype.UUID
	BillingAddressID  pgtype.UUID
	ShippingAddressID pgtype.UUID
	Notes             pgtype.Text
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.UserID, arg.OrderNumber, arg.Status, arg.SubtotalCents, arg.TaxCents,
		arg.ShippingCents, arg.TotalCents, arg.Currency, arg.PaymentMethod,
		arg.ShippingMethod, arg.CouponID, arg.BillingAddressID, arg.ShippingAddressID, arg.Notes,
	)
	return scanOrder(row)
}

const createOrderItem = `
INSERT INTO order_items (
    order_id, product_id, product_name, quantity, unit_price_cents, total_price_cents, notes
) VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, order_id, product_id, product_name, quantity, unit_price_cents, total_price_cents, notes
`

type CreateOrderItemParams struct {
	OrderID         pgtype.UUID
	ProductID       pgtype.UUID
	ProductName     string
	Quantity        int32
	UnitPriceCents  int64
	TotalPriceCents int64
	Notes           pgtype.Text
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID, arg.ProductID, arg.ProductName, arg.Quantity,
		arg.UnitPriceCents, arg.TotalPriceCents, arg.Notes,
	)
	var i OrderItem
	err := row.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.ProductName, &i.Quantity, &i.UnitPriceCents, &i.TotalPriceCents, &i.Notes)
	return i, err
}

const orderColumns = `id, user_id, order_number, status, subtotal_cents, tax_cents,
shipping_cents, total_cents, currency, payment_method, shipping_method,
coupon_id, billing_address_id, shipping_address_id, notes, created_at, updated_at`

const getOrder = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id pgtype.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const getOrderForUser = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1 AND user_id = $2
`

type GetOrderForUserParams struct {
	ID     pgtype.UUID
	UserID pgtype.UUID
}

// GetOrderForUser looks up an order scoped to its owner. An order belonging
// to another customer scans as no rows, preventing cross-tenant reads.
func (q *Queries) GetOrderForUser(ctx context.Context, arg GetOrderForUserParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderForUser, arg.ID, arg.UserID))
}

const getOrderItems = `
SELECT id, order_id, product_id, product_name, quantity, unit_price_cents, total_price_cents, notes
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) GetOrderItems(ctx context.Context, orderID pgtype.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, getOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []OrderItem
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.ProductName, &i.Quantity, &i.UnitPriceCents, &i.TotalPriceCents, &i.Notes); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const listOrdersForUser = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListOrdersForUser(ctx context.Context, userID pgtype.UUID) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrdersForUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const updateOrderStatus = `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns + `
`

type UpdateOrderStatusParams struct {
	ID     pgtype.UUID
	Status string
}

func (q *Queries) UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, arg.ID, arg.Status))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.SubtotalCents, &o.TaxCents,
		&o.ShippingCents, &o.TotalCents, &o.Currency, &o.PaymentMethod, &o.ShippingMethod,
		&o.CouponID, &o.BillingAddressID, &o.ShippingAddressID, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}
