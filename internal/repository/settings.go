package repository

import (
	"context"
)

const getCompanySettings = `
SELECT id, invoice_prefix, next_invoice_number, updated_at
FROM company_settings
WHERE id = 1
`

func (q *Queries) GetCompanySettings(ctx context.Context) (CompanySettings, error) {
	row := q.db.QueryRow(ctx, getCompanySettings)
	var s CompanySettings
	err := row.Scan(&s.ID, &s.InvoicePrefix, &s.NextInvoiceNumber, &s.UpdatedAt)
	return s, err
}

const nextInvoiceNumber = `
UPDATE company_settings
SET next_invoice_number = next_invoice_number + 1, updated_at = now()
WHERE id = 1
RETURNING invoice_prefix, next_invoice_number - 1
`

// NextInvoiceNumberRow carries the prefix and the value consumed by this call.
type NextInvoiceNumberRow struct {
	InvoicePrefix string
	InvoiceNumber int64
}

// NextInvoiceNumber consumes the next value of the shared invoice counter.
// The read-modify-write is a single UPDATE ... RETURNING statement, so the
// row lock guarantees no two callers ever observe the same pre-increment
// value. Under serializable isolation the database may instead abort one of
// two racing transactions; callers retry on that conflict.
func (q *Queries) NextInvoiceNumber(ctx context.Context) (NextInvoiceNumberRow, error) {
	row := q.db.QueryRow(ctx, nextInvoiceNumber)
	var r NextInvoiceNumberRow
	err := row.Scan(&r.InvoicePrefix, &r.InvoiceNumber)
	return r, err
}
