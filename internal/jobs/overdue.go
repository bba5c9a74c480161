// Package jobs runs the engine's scheduled background work. The only job
// today is the overdue invoice sweep.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/telemetry"
)

// OverdueSweeper periodically promotes sent invoices past their due date to
// overdue, so reporting stays correct even for invoices nobody reads.
type OverdueSweeper struct {
	invoices domain.InvoiceService
	interval time.Duration
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

// NewOverdueSweeper creates a sweeper running at the given interval. An
// interval of zero defaults to one hour.
func NewOverdueSweeper(invoices domain.InvoiceService, interval time.Duration, logger *slog.Logger, metrics *telemetry.Metrics) *OverdueSweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &OverdueSweeper{
		invoices: invoices,
		interval: interval,
		logger:   logger,
		metrics:  metrics,
	}
}

// Start runs the sweep loop until the context is cancelled. One sweep runs
// immediately on startup so a restart never delays promotion by a full
// interval.
func (s *OverdueSweeper) Start(ctx context.Context) {
	s.logger.Info("overdue sweeper starting", slog.Duration("interval", s.interval))

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("overdue sweeper stopping")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *OverdueSweeper) sweep(ctx context.Context) {
	promoted, err := s.invoices.MarkInvoicesOverdue(ctx)
	if err != nil {
		s.logger.Error("overdue sweep failed", slog.String("error", err.Error()))
		return
	}
	if promoted > 0 {
		s.metrics.InvoicesOverdue.Add(float64(promoted))
		s.logger.Info("overdue sweep completed", slog.Int("promoted", promoted))
	}
}
