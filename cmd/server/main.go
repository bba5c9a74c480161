package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/facetworks/facet/internal"
	"github.com/facetworks/facet/internal/audit"
	"github.com/facetworks/facet/internal/coupon"
	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/email"
	"github.com/facetworks/facet/internal/handler/api"
	"github.com/facetworks/facet/internal/jobs"
	"github.com/facetworks/facet/internal/middleware"
	"github.com/facetworks/facet/internal/repository"
	"github.com/facetworks/facet/internal/router"
	"github.com/facetworks/facet/internal/service"
	"github.com/facetworks/facet/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nats-io/nats.go"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Run migrations
	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for the application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	repo := repository.NewRepository(pool)

	// Invoice numbering depends on the counter row; fail fast if it is
	// missing rather than on the first issuance.
	settings, err := repo.GetCompanySettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load company settings: %w", err)
	}
	logger.Info("Company settings loaded",
		"invoice_prefix", settings.InvoicePrefix,
		"next_invoice_number", settings.NextInvoiceNumber,
	)

	// Business metrics share one registry with the HTTP metrics below.
	metrics := telemetry.NewMetrics("facet")

	// Audit trail: publisher on the request path, recorder consuming off the
	// bus. When NATS is unreachable the engine runs without a trail rather
	// than refusing to start.
	var auditSink domain.AuditSink = audit.NopSink{}
	nc, err := nats.Connect(cfg.NatsUrl, nats.Name("facet-server"))
	if err != nil {
		logger.Warn("NATS unavailable; audit trail disabled", "error", err.Error())
	} else {
		defer nc.Drain()
		auditSink = audit.NewPublisher(nc, logger, metrics)

		recorder := audit.NewRecorder(repo, logger, metrics)
		if err := recorder.Start(nc); err != nil {
			return fmt.Errorf("failed to start audit recorder: %w", err)
		}
		defer recorder.Stop()
	}

	// Outbound mail for payment reminders
	mailer := email.NewSMTPSender(&email.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     int(cfg.Email.Port),
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		From:     cfg.Email.From,
		FromName: cfg.Email.FromName,
	}, logger)

	// Initialize services
	numberIssuer := service.NewInvoiceNumberIssuer(repo, logger, metrics)
	orderService := service.NewOrderService(repo, auditSink, logger)
	invoiceService := service.NewInvoiceService(repo, numberIssuer, mailer, auditSink, logger)
	couponValidator := coupon.NewValidator(repo)

	// HTTP metrics
	httpMetrics := middleware.NewMetrics("facet")

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		middleware.WithRequestMeta,
		httpMetrics.Middleware,
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		middleware.Timeout(middleware.DefaultTimeout),
		router.Logger(logger),
		middleware.WithUser(repo),
		middleware.WithRequestLogger(logger),
	)

	// Metrics endpoint; protect at the network layer in production.
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		httpMetrics.Handler().ServeHTTP(w, req)
	})

	api.RegisterRoutes(r, api.Handlers{
		Coupons:  api.NewCouponHandler(couponValidator, logger),
		Orders:   api.NewOrderHandler(orderService, logger, metrics),
		Invoices: api.NewInvoiceHandler(invoiceService, logger, metrics),
	})

	// Background overdue sweep
	if cfg.Worker.Enabled {
		sweeper := jobs.NewOverdueSweeper(invoiceService, cfg.Worker.SweepInterval, logger, metrics)
		go sweeper.Start(ctx)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
