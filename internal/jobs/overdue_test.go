package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/telemetry"
	"github.com/stretchr/testify/assert"
)

type sweepOnlyService struct {
	domain.InvoiceService
	calls    atomic.Int64
	promoted int
	err      error
}

func (s *sweepOnlyService) MarkInvoicesOverdue(ctx context.Context) (int, error) {
	s.calls.Add(1)
	return s.promoted, s.err
}

var jobMetrics = telemetry.NewMetrics("jobs_test")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func Test_OverdueSweeper_SweepsImmediatelyOnStart(t *testing.T) {
	svc := &sweepOnlyService{promoted: 2}
	sweeper := NewOverdueSweeper(svc, time.Hour, discardLogger(), jobMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	// The startup sweep fires before the first tick.
	assert.Eventually(t, func() bool { return svc.calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func Test_OverdueSweeper_SweepsOnEachTick(t *testing.T) {
	svc := &sweepOnlyService{}
	sweeper := NewOverdueSweeper(svc, 20*time.Millisecond, discardLogger(), jobMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return svc.calls.Load() >= 3 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func Test_OverdueSweeper_KeepsRunningAfterFailure(t *testing.T) {
	svc := &sweepOnlyService{err: errors.New("db down")}
	sweeper := NewOverdueSweeper(svc, 20*time.Millisecond, discardLogger(), jobMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return svc.calls.Load() >= 2 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
