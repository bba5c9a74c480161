package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Querier is the full persistence surface consumed by services.
// *Repository implements it; tests substitute mocks.
type Querier interface {
	// Users and addresses
	GetUserByID(ctx context.Context, id pgtype.UUID) (User, error)
	GetUserBySessionToken(ctx context.Context, token string) (User, error)
	GetAddressForUser(ctx context.Context, arg GetAddressForUserParams) (Address, error)
	GetAddressByID(ctx context.Context, id pgtype.UUID) (Address, error)

	// Catalog
	GetProduct(ctx context.Context, id pgtype.UUID) (Product, error)

	// Coupons
	GetCouponByCode(ctx context.Context, code string) (Coupon, error)
	IncrementCouponUsage(ctx context.Context, id pgtype.UUID) error

	// Orders
	CreateOrderWithItems(ctx context.Context, order CreateOrderParams, items []CreateOrderItemParams) (Order, []OrderItem, error)
	GetOrder(ctx context.Context, id pgtype.UUID) (Order, error)
	GetOrderForUser(ctx context.Context, arg GetOrderForUserParams) (Order, error)
	GetOrderItems(ctx context.Context, orderID pgtype.UUID) ([]OrderItem, error)
	ListOrdersForUser(ctx context.Context, userID pgtype.UUID) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, arg UpdateOrderStatusParams) (Order, error)

	// Invoices
	CreateInvoiceWithItems(ctx context.Context, invoice CreateInvoiceParams, items []CreateInvoiceItemParams) (Invoice, []InvoiceItem, error)
	GetInvoiceByID(ctx context.Context, id pgtype.UUID) (Invoice, error)
	GetInvoiceItems(ctx context.Context, invoiceID pgtype.UUID) ([]InvoiceItem, error)
	UpdateInvoiceStatus(ctx context.Context, arg UpdateInvoiceStatusParams) (Invoice, error)
	UpdateInvoicePayment(ctx context.Context, arg UpdateInvoicePaymentParams) (Invoice, error)
	ListInvoicesPastDue(ctx context.Context, asOf pgtype.Date) ([]Invoice, error)
	IncrementInvoiceReminder(ctx context.Context, id pgtype.UUID) (Invoice, error)

	// Counter row
	GetCompanySettings(ctx context.Context) (CompanySettings, error)
	NextInvoiceNumber(ctx context.Context) (NextInvoiceNumberRow, error)

	// Audit trail
	CreateAuditLog(ctx context.Context, arg CreateAuditLogParams) (AuditLog, error)
}

var _ Querier = (*Repository)(nil)
