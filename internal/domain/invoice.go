package domain

import (
	"context"
	"time"

	"github.com/facetworks/facet/internal/repository"
)

// Invoice-related domain errors.
var (
	ErrInvoiceNotFound        = &Error{Code: ENOTFOUND, Message: "Invoice not found"}
	ErrCustomerNotFound       = &Error{Code: ENOTFOUND, Message: "Customer not found"}
	ErrEmptyInvoice           = &Error{Code: EINVALID, Message: "Invoice must contain at least one item"}
	ErrInvoiceNumberExhausted = &Error{Code: ECONFLICT, Message: "Could not issue invoice number after retries"}
	ErrReminderNotApplicable  = &Error{Code: ECONFLICT, Message: "Reminders only apply to unpaid sent or overdue invoices"}
)

// InvoiceItemInput is one line of a new invoice. Line totals and the stable
// ordering index are computed by the issuer, not supplied by the caller.
type InvoiceItemInput struct {
	Description    string
	Quantity       int32
	UnitPriceCents int64
}

// IssueInvoiceParams contains parameters for issuing an invoice.
type IssueInvoiceParams struct {
	CustomerID    string
	Items         []InvoiceItemInput
	DueDate       time.Time
	Notes         string
	InternalNotes string
}

// UpdateInvoiceStatusParams carries a partial status update. Nil fields are
// left untouched.
type UpdateInvoiceStatusParams struct {
	InvoiceID     string
	Status        *InvoiceStatus
	PaymentStatus *PaymentStatus
	PaymentDate   *time.Time
}

// InvoiceDetail aggregates an invoice with its items and customer.
type InvoiceDetail struct {
	Invoice  repository.Invoice
	Items    []repository.InvoiceItem
	Customer *repository.User
}

// InvoiceNumberIssuer hands out unique, monotonically increasing invoice
// numbers from the shared company_settings counter. Issued numbers are
// consumed permanently: a failed invoice write after issuance leaves a gap,
// never a repeat.
type InvoiceNumberIssuer interface {
	IssueNumber(ctx context.Context) (string, error)
}

// InvoiceService manages invoice issuance and lifecycle.
type InvoiceService interface {
	// IssueInvoice computes totals, consumes an invoice number, and persists
	// the invoice with its items in stable line order.
	IssueInvoice(ctx context.Context, params IssueInvoiceParams) (*InvoiceDetail, error)

	// GetInvoice retrieves an invoice with items and customer. A sent invoice
	// past its due date is promoted to overdue on read.
	GetInvoice(ctx context.Context, invoiceID string) (*InvoiceDetail, error)

	// UpdateStatus applies a partial status/payment update, validated against
	// the invoice state machines.
	UpdateStatus(ctx context.Context, params UpdateInvoiceStatusParams) (*InvoiceDetail, error)

	// SendReminder emails a payment reminder for an unpaid sent or overdue
	// invoice and stamps the reminder counters.
	SendReminder(ctx context.Context, invoiceID string) (*InvoiceDetail, error)

	// MarkInvoicesOverdue promotes sent invoices past their due date.
	// Called by the scheduled sweep; returns the number promoted.
	MarkInvoicesOverdue(ctx context.Context) (int, error)
}
