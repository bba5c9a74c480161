// Package repository is the hand-written persistence layer over pgx.
// It follows the Queries/Params conventions of generated code: one method per
// statement, pgtype columns, and WithTx for transaction scoping.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Queries executes single statements against a DBTX.
type Queries struct {
	db DBTX
}

// New creates a Queries bound to the given connection or transaction.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}

// Repository combines single-statement Queries with the transactional
// compositions services need. It implements Querier.
type Repository struct {
	*Queries
	pool *pgxpool.Pool
}

// NewRepository creates a Repository over a pgx connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Queries: New(pool),
		pool:    pool,
	}
}

// CreateOrderWithItems persists an order and its items in one transaction.
// All-or-nothing: if any item insert fails, no order row survives.
func (r *Repository) CreateOrderWithItems(ctx context.Context, order CreateOrderParams, items []CreateOrderItemParams) (Order, []OrderItem, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Order{}, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	q := r.Queries.WithTx(tx)

	created, err := q.CreateOrder(ctx, order)
	if err != nil {
		return Order{}, nil, fmt.Errorf("insert order: %w", err)
	}

	createdItems := make([]OrderItem, 0, len(items))
	for _, item := range items {
		item.OrderID = created.ID
		row, err := q.CreateOrderItem(ctx, item)
		if err != nil {
			return Order{}, nil, fmt.Errorf("insert order item: %w", err)
		}
		createdItems = append(createdItems, row)
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, nil, fmt.Errorf("commit order: %w", err)
	}

	return created, createdItems, nil
}

// CreateInvoiceWithItems persists an invoice and its items in one transaction.
// The invoice number must already have been issued; a failure here leaves a
// gap in the sequence, never a repeat.
func (r *Repository) CreateInvoiceWithItems(ctx context.Context, invoice CreateInvoiceParams, items []CreateInvoiceItemParams) (Invoice, []InvoiceItem, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Invoice{}, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	q := r.Queries.WithTx(tx)

	created, err := q.CreateInvoice(ctx, invoice)
	if err != nil {
		return Invoice{}, nil, fmt.Errorf("insert invoice: %w", err)
	}

	createdItems := make([]InvoiceItem, 0, len(items))
	for _, item := range items {
		item.InvoiceID = created.ID
		row, err := q.CreateInvoiceItem(ctx, item)
		if err != nil {
			return Invoice{}, nil, fmt.Errorf("insert invoice item: %w", err)
		}
		createdItems = append(createdItems, row)
	}

	if err := tx.Commit(ctx); err != nil {
		return Invoice{}, nil, fmt.Errorf("commit invoice: %w", err)
	}

	return created, createdItems, nil
}
