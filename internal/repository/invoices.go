package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const invoiceColumns = `id, user_id, invoice_number, status, payment_status, payment_date,
issue_date, due_date, subtotal_cents, total_cents, currency, notes, internal_notes,
reminder_count, last_reminder_at, created_at, updated_at`

const createInvoice = `
INSERT INTO invoices (
    user_id, invoice_number, status, payment_status, due_date,
    subtotal_cents, total_cents, currency, notes, internal_notes
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + invoiceColumns + `
`

type CreateInvoiceParams struct {
	UserID        pgtype.UUID
	InvoiceNumber string
	Status        string
	PaymentStatus string
	DueDate       pgtype.Date
	SubtotalCents int64
	TotalCents    int64
	Currency      string
	Notes         pgtype.Text
	InternalNotes pgtype.Text
}

func (q *Queries) CreateInvoice(ctx context.Context, arg CreateInvoiceParams) (Invoice, error) {
	row := q.db.QueryRow(ctx, createInvoice,
		arg.UserID, arg.InvoiceNumber, arg.Status, arg.PaymentStatus, arg.DueDate,
		arg.SubtotalCents, arg.TotalCents, arg.Currency, arg.Notes, arg.InternalNotes,
	)
	return scanInvoice(row)
}

const createInvoiceItem = `
INSERT INTO invoice_items (
    invoice_id, description, quantity, unit_price_cents, total_price_cents, sort_order
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, invoice_id, description, quantity, unit_price_cents, total_price_cents, sort_order
`

type CreateInvoiceItemParams struct {
	InvoiceID       pgtype.UUID
	Description     string
	Quantity        int32
	UnitPriceCents  int64
	TotalPriceCents int64
	SortOrder       int32
}

func (q *Queries) CreateInvoiceItem(ctx context.Context, arg CreateInvoiceItemParams) (InvoiceItem, error) {
	row := q.db.QueryRow(ctx, createInvoiceItem,
		arg.InvoiceID, arg.Description, arg.Quantity, arg.UnitPriceCents, arg.TotalPriceCents, arg.SortOrder,
	)
	var i InvoiceItem
	err := row.Scan(&i.ID, &i.InvoiceID, &i.Description, &i.Quantity, &i.UnitPriceCents, &i.TotalPriceCents, &i.SortOrder)
	return i, err
}

const getInvoiceByID = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE id = $1
`

func (q *Queries) GetInvoiceByID(ctx context.Context, id pgtype.UUID) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, getInvoiceByID, id))
}

const getInvoiceItems = `
SELECT id, invoice_id, description, quantity, unit_price_cents, total_price_cents, sort_order
FROM invoice_items
WHERE invoice_id = $1
ORDER BY sort_order
`

// GetInvoiceItems returns items in their explicit line order, not storage
// insertion order.
func (q *Queries) GetInvoiceItems(ctx context.Context, invoiceID pgtype.UUID) ([]InvoiceItem, error) {
	rows, err := q.db.Query(ctx, getInvoiceItems, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []InvoiceItem
	for rows.Next() {
		var i InvoiceItem
		if err := rows.Scan(&i.ID, &i.InvoiceID, &i.Description, &i.Quantity, &i.UnitPriceCents, &i.TotalPriceCents, &i.SortOrder); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateInvoiceStatus = `
UPDATE invoices
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + invoiceColumns + `
`

type UpdateInvoiceStatusParams struct {
	ID     pgtype.UUID
	Status string
}

func (q *Queries) UpdateInvoiceStatus(ctx context.Context, arg UpdateInvoiceStatusParams) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, updateInvoiceStatus, arg.ID, arg.Status))
}

const updateInvoicePayment = `
UPDATE invoices
SET payment_status = $2, payment_date = $3, updated_at = now()
WHERE id = $1
RETURNING ` + invoiceColumns + `
`

type UpdateInvoicePaymentParams struct {
	ID            pgtype.UUID
	PaymentStatus string
	PaymentDate   pgtype.Date
}

func (q *Queries) UpdateInvoicePayment(ctx context.Context, arg UpdateInvoicePaymentParams) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, updateInvoicePayment, arg.ID, arg.PaymentStatus, arg.PaymentDate))
}

const listInvoicesPastDue = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE status = 'sent' AND payment_status <> 'paid' AND due_date < $1
ORDER BY due_date
`

// ListInvoicesPastDue returns sent, unpaid invoices whose due date has passed
// as of the given date.
func (q *Queries) ListInvoicesPastDue(ctx context.Context, asOf pgtype.Date) ([]Invoice, error) {
	rows, err := q.db.Query(ctx, listInvoicesPastDue, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

const incrementInvoiceReminder = `
UPDATE invoices
SET reminder_count = reminder_count + 1, last_reminder_at = now(), updated_at = now()
WHERE id = $1
RETURNING ` + invoiceColumns + `
`

func (q *Queries) IncrementInvoiceReminder(ctx context.Context, id pgtype.UUID) (Invoice, error) {
	return scanInvoice(q.db.QueryRow(ctx, incrementInvoiceReminder, id))
}

func scanInvoice(row rowScanner) (Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.InvoiceNumber, &inv.Status, &inv.PaymentStatus, &inv.PaymentDate,
		&inv.IssueDate, &inv.DueDate, &inv.SubtotalCents, &inv.TotalCents, &inv.Currency,
		&inv.Notes, &inv.InternalNotes, &inv.ReminderCount, &inv.LastReminderAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	return inv, err
}
