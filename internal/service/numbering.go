package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/repository"
	"github.com/facetworks/facet/internal/telemetry"
)

// numberIssueAttempts bounds retries when the database aborts the counter
// update under contention.
const numberIssueAttempts = 3

type invoiceNumberIssuer struct {
	repo    repository.Querier
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

// NewInvoiceNumberIssuer creates an issuer backed by the shared
// company_settings counter.
func NewInvoiceNumberIssuer(repo repository.Querier, logger *slog.Logger, metrics *telemetry.Metrics) domain.InvoiceNumberIssuer {
	return &invoiceNumberIssuer{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

// IssueNumber consumes the next counter value and formats it as
// "{prefix}-{number}" with the number zero-padded to four digits. The counter
// update is a single atomic statement; a serialization abort is retried a
// bounded number of times. An issued number is gone even if the caller's
// invoice write fails afterwards, so failed issuance leaves gaps in the
// sequence rather than duplicates.
func (s *invoiceNumberIssuer) IssueNumber(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= numberIssueAttempts; attempt++ {
		row, err := s.repo.NextInvoiceNumber(ctx)
		if err == nil {
			return fmt.Sprintf("%s-%04d", row.InvoicePrefix, row.InvoiceNumber), nil
		}
		s.metrics.NumberIssueRetries.Inc()
		s.logger.Warn("invoice number issuance failed",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
	}
	return "", domain.ErrInvoiceNumberExhausted
}
