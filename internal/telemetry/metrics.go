// Package telemetry registers the Prometheus metrics emitted by the issuance
// engine.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's business metrics.
type Metrics struct {
	OrdersCreated   *prometheus.CounterVec
	OrderValue      prometheus.Histogram
	CouponsRedeemed *prometheus.CounterVec

	InvoicesIssued     prometheus.Counter
	InvoicesOverdue    prometheus.Counter
	RemindersSent      prometheus.Counter
	NumberIssueRetries prometheus.Counter

	AuditPublished     prometheus.Counter
	AuditPublishFailed prometheus.Counter
	AuditRecorded      prometheus.Counter
	AuditRecordFailed  prometheus.Counter
}

// NewMetrics creates and registers all engine metrics under the given
// namespace.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "facet"
	}

	return &Metrics{
		OrdersCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_created_total",
				Help:      "Total orders placed",
			},
			[]string{"payment_method"},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "order_value_cents",
				Help:      "Order totals in cents",
				Buckets:   prometheus.ExponentialBuckets(1000, 4, 8),
			},
		),
		CouponsRedeemed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "coupons_redeemed_total",
				Help:      "Total coupon redemptions",
			},
			[]string{"code"},
		),
		InvoicesIssued: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invoices_issued_total",
				Help:      "Total invoices issued",
			},
		),
		InvoicesOverdue: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invoices_overdue_total",
				Help:      "Total invoices promoted to overdue",
			},
		),
		RemindersSent: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invoice_reminders_sent_total",
				Help:      "Total payment reminder emails sent",
			},
		),
		NumberIssueRetries: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invoice_number_retries_total",
				Help:      "Total retried invoice number issuances",
			},
		),
		AuditPublished: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_events_published_total",
				Help:      "Total audit events published to the bus",
			},
		),
		AuditPublishFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_publish_failures_total",
				Help:      "Total audit events dropped at publish time",
			},
		),
		AuditRecorded: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_events_recorded_total",
				Help:      "Total audit events written to the trail",
			},
		),
		AuditRecordFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_record_failures_total",
				Help:      "Total audit events that failed to persist",
			},
		),
	}
}
