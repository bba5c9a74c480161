package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/email"
	"github.com/facetworks/facet/internal/pricing"
	"github.com/facetworks/facet/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type invoiceService struct {
	repo    repository.Querier
	numbers domain.InvoiceNumberIssuer
	mailer  email.Sender
	audit   domain.AuditSink
	logger  *slog.Logger
	now     func() time.Time
}

// NewInvoiceService creates an InvoiceService backed by the repository, the
// shared invoice number counter, and the outbound mailer.
func NewInvoiceService(
	repo repository.Querier,
	numbers domain.InvoiceNumberIssuer,
	mailer email.Sender,
	audit domain.AuditSink,
	logger *slog.Logger,
) domain.InvoiceService {
	return &invoiceService{
		repo:    repo,
		numbers: numbers,
		mailer:  mailer,
		audit:   audit,
		logger:  logger,
		now:     time.Now,
	}
}

// IssueInvoice computes totals, consumes an invoice number, and persists the
// invoice and its items in one transaction. The number is consumed before the
// write: a failed write leaves a gap in the sequence, never a duplicate.
func (s *invoiceService) IssueInvoice(ctx context.Context, params domain.IssueInvoiceParams) (*domain.InvoiceDetail, error) {
	const op = "invoice.issue"

	if len(params.Items) == 0 {
		return nil, domain.ErrEmptyInvoice
	}
	if params.DueDate.IsZero() {
		return nil, domain.Invalid(op, "due date is required")
	}

	customerID, err := parseUUID(op, "customer id", params.CustomerID)
	if err != nil {
		return nil, err
	}
	customer, err := s.repo.GetUserByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, domain.Internal(err, op, "failed to load customer")
	}

	lines := make([]pricing.LineItem, 0, len(params.Items))
	itemParams := make([]repository.CreateInvoiceItemParams, 0, len(params.Items))
	for i, item := range params.Items {
		if strings.TrimSpace(item.Description) == "" {
			return nil, domain.Invalid(op, "invoice item description is required")
		}
		lines = append(lines, pricing.LineItem{
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
		})
		itemParams = append(itemParams, repository.CreateInvoiceItemParams{
			Description:     item.Description,
			Quantity:        item.Quantity,
			UnitPriceCents:  item.UnitPriceCents,
			TotalPriceCents: item.UnitPriceCents * int64(item.Quantity),
			SortOrder:       int32(i),
		})
	}

	totals, err := pricing.Calculate(pricing.Params{Items: lines})
	if err != nil {
		return nil, err
	}

	number, err := s.numbers.IssueNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoice, items, err := s.repo.CreateInvoiceWithItems(ctx, repository.CreateInvoiceParams{
		UserID:        customerID,
		InvoiceNumber: number,
		Status:        string(domain.InvoiceDraft),
		PaymentStatus: string(domain.PaymentUnpaid),
		DueDate:       pgtype.Date{Time: params.DueDate, Valid: true},
		SubtotalCents: totals.SubtotalCents,
		TotalCents:    totals.TotalCents,
		Currency:      "USD",
		Notes:         textFrom(params.Notes),
		InternalNotes: textFrom(params.InternalNotes),
	}, itemParams)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to persist invoice")
	}

	s.audit.Record(ctx, domain.NewAuditEvent(ctx, domain.AuditInvoiceCreated, "invoice", uuidString(invoice.ID), map[string]any{
		"invoice_number": invoice.InvoiceNumber,
		"total_cents":    invoice.TotalCents,
		"item_count":     len(items),
	}))

	return &domain.InvoiceDetail{
		Invoice:  invoice,
		Items:    items,
		Customer: &customer,
	}, nil
}

// GetInvoice retrieves an invoice with its items and customer. A sent invoice
// past its due date is promoted to overdue before it is returned, so readers
// never observe a stale sent status.
func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.InvoiceDetail, error) {
	const op = "invoice.get"

	id, err := parseUUID(op, "invoice id", invoiceID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, domain.Internal(err, op, "failed to load invoice")
	}

	invoice, err = s.promoteIfOverdue(ctx, invoice)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to promote overdue invoice")
	}

	return s.loadDetail(ctx, op, invoice)
}

// UpdateStatus applies a partial status/payment update. Document status and
// payment status are independent machines; either or both may move in one
// call, and each move is validated before anything is written.
func (s *invoiceService) UpdateStatus(ctx context.Context, params domain.UpdateInvoiceStatusParams) (*domain.InvoiceDetail, error) {
	const op = "invoice.update_status"

	if params.Status == nil && params.PaymentStatus == nil {
		return nil, domain.Invalid(op, "no status change requested")
	}

	id, err := parseUUID(op, "invoice id", params.InvoiceID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, domain.Internal(err, op, "failed to load invoice")
	}

	// Validate both moves up front so a rejected payment change never leaves
	// a half-applied document change behind.
	if params.Status != nil {
		if err := domain.TransitionInvoice(domain.InvoiceStatus(invoice.Status), *params.Status); err != nil {
			return nil, err
		}
	}
	if params.PaymentStatus != nil {
		if err := domain.TransitionPayment(domain.PaymentStatus(invoice.PaymentStatus), *params.PaymentStatus); err != nil {
			return nil, err
		}
	}

	if params.Status != nil {
		from := invoice.Status
		invoice, err = s.repo.UpdateInvoiceStatus(ctx, repository.UpdateInvoiceStatusParams{
			ID:     id,
			Status: string(*params.Status),
		})
		if err != nil {
			return nil, domain.Internal(err, op, "failed to update invoice status")
		}
		s.audit.Record(ctx, domain.NewAuditEvent(ctx, domain.AuditInvoiceStatusChanged, "invoice", uuidString(invoice.ID), map[string]any{
			"from": from,
			"to":   string(*params.Status),
		}))
	}

	if params.PaymentStatus != nil {
		from := invoice.PaymentStatus

		// Paid invoices carry a payment date; an explicit date wins, else
		// the payment is stamped now.
		var paymentDate pgtype.Date
		if *params.PaymentStatus == domain.PaymentPaid {
			when := s.now()
			if params.PaymentDate != nil {
				when = *params.PaymentDate
			}
			paymentDate = pgtype.Date{Time: when, Valid: true}
		} else if params.PaymentDate != nil {
			paymentDate = pgtype.Date{Time: *params.PaymentDate, Valid: true}
		}

		invoice, err = s.repo.UpdateInvoicePayment(ctx, repository.UpdateInvoicePaymentParams{
			ID:            id,
			PaymentStatus: string(*params.PaymentStatus),
			PaymentDate:   paymentDate,
		})
		if err != nil {
			return nil, domain.Internal(err, op, "failed to update invoice payment")
		}
		s.audit.Record(ctx, domain.NewAuditEvent(ctx, domain.AuditInvoicePaymentSet, "invoice", uuidString(invoice.ID), map[string]any{
			"from": from,
			"to":   string(*params.PaymentStatus),
		}))
	}

	return s.loadDetail(ctx, op, invoice)
}

// SendReminder emails a payment reminder for an unpaid sent or overdue
// invoice and stamps the reminder counters.
func (s *invoiceService) SendReminder(ctx context.Context, invoiceID string) (*domain.InvoiceDetail, error) {
	const op = "invoice.send_reminder"

	id, err := parseUUID(op, "invoice id", invoiceID)
	if err != nil {
		return nil, err
	}

	invoice, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, domain.Internal(err, op, "failed to load invoice")
	}

	invoice, err = s.promoteIfOverdue(ctx, invoice)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to promote overdue invoice")
	}

	status := domain.InvoiceStatus(invoice.Status)
	if (status != domain.InvoiceSent && status != domain.InvoiceOverdue) ||
		domain.PaymentStatus(invoice.PaymentStatus) == domain.PaymentPaid {
		return nil, domain.ErrReminderNotApplicable
	}

	customer, err := s.repo.GetUserByID(ctx, invoice.UserID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load customer")
	}

	reminder := email.PaymentReminderEmail{
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerName:  customerName(customer),
		CustomerEmail: customer.Email,
		DueDate:       invoice.DueDate.Time,
		TotalCents:    invoice.TotalCents,
		Overdue:       status == domain.InvoiceOverdue,
	}
	if _, err := s.mailer.Send(ctx, reminder.Build()); err != nil {
		return nil, domain.Internal(err, op, "failed to send reminder email")
	}

	invoice, err = s.repo.IncrementInvoiceReminder(ctx, id)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to record reminder")
	}

	s.audit.Record(ctx, domain.NewAuditEvent(ctx, domain.AuditInvoiceReminderSent, "invoice", uuidString(invoice.ID), map[string]any{
		"invoice_number": invoice.InvoiceNumber,
		"reminder_count": invoice.ReminderCount,
	}))

	return s.loadDetail(ctx, op, invoice)
}

// MarkInvoicesOverdue promotes sent, unpaid invoices whose due date has
// passed. Called by the scheduled sweep; an individual failure is logged and
// skipped so one bad row never stalls the rest of the batch.
func (s *invoiceService) MarkInvoicesOverdue(ctx context.Context) (int, error) {
	const op = "invoice.mark_overdue"

	today := pgtype.Date{Time: s.now(), Valid: true}
	invoices, err := s.repo.ListInvoicesPastDue(ctx, today)
	if err != nil {
		return 0, domain.Internal(err, op, "failed to list past-due invoices")
	}

	promoted := 0
	for _, invoice := range invoices {
		updated, err := s.repo.UpdateInvoiceStatus(ctx, repository.UpdateInvoiceStatusParams{
			ID:     invoice.ID,
			Status: string(domain.InvoiceOverdue),
		})
		if err != nil {
			s.logger.Error("failed to mark invoice overdue",
				slog.String("invoice_number", invoice.InvoiceNumber),
				slog.String("error", err.Error()),
			)
			continue
		}
		promoted++
		s.audit.Record(ctx, domain.NewAuditEvent(ctx, domain.AuditInvoiceStatusChanged, "invoice", uuidString(updated.ID), map[string]any{
			"from": string(domain.InvoiceSent),
			"to":   string(domain.InvoiceOverdue),
		}))
	}
	return promoted, nil
}

// promoteIfOverdue moves a sent invoice past its due date to overdue.
func (s *invoiceService) promoteIfOverdue(ctx context.Context, invoice repository.Invoice) (repository.Invoice, error) {
	overdue := domain.InvoiceIsOverdue(
		domain.InvoiceStatus(invoice.Status),
		domain.PaymentStatus(invoice.PaymentStatus),
		invoice.DueDate.Time,
		s.now(),
	)
	if !overdue {
		return invoice, nil
	}

	updated, err := s.repo.UpdateInvoiceStatus(ctx, repository.UpdateInvoiceStatusParams{
		ID:     invoice.ID,
		Status: string(domain.InvoiceOverdue),
	})
	if err != nil {
		return repository.Invoice{}, err
	}

	s.audit.Record(ctx, domain.NewAuditEvent(ctx, domain.AuditInvoiceStatusChanged, "invoice", uuidString(updated.ID), map[string]any{
		"from": string(domain.InvoiceSent),
		"to":   string(domain.InvoiceOverdue),
	}))
	return updated, nil
}

func (s *invoiceService) loadDetail(ctx context.Context, op string, invoice repository.Invoice) (*domain.InvoiceDetail, error) {
	items, err := s.repo.GetInvoiceItems(ctx, invoice.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load invoice items")
	}

	detail := &domain.InvoiceDetail{Invoice: invoice, Items: items}

	customer, err := s.repo.GetUserByID(ctx, invoice.UserID)
	if err == nil {
		detail.Customer = &customer
	}
	return detail, nil
}

func customerName(u repository.User) string {
	parts := make([]string, 0, 2)
	if u.FirstName.Valid {
		parts = append(parts, u.FirstName.String)
	}
	if u.LastName.Valid {
		parts = append(parts, u.LastName.String)
	}
	return strings.Join(parts, " ")
}
