// Package audit publishes state-change events to NATS and persists them into
// the append-only audit trail. The trail is advisory: a bus or storage outage
// is logged and counted but never fails the operation that emitted the event.
package audit

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/telemetry"
	"github.com/nats-io/nats.go"
)

// Subject is the NATS subject audit events are published on.
const Subject = "audit.events"

// Publisher emits audit events onto the NATS bus. It implements
// domain.AuditSink.
type Publisher struct {
	nc      *nats.Conn
	logger  *slog.Logger
	metrics *telemetry.Metrics
}

var _ domain.AuditSink = (*Publisher)(nil)

// NewPublisher creates a Publisher on an established NATS connection.
func NewPublisher(nc *nats.Conn, logger *slog.Logger, metrics *telemetry.Metrics) *Publisher {
	return &Publisher{
		nc:      nc,
		logger:  logger,
		metrics: metrics,
	}
}

// Record publishes the event. Failures are logged and counted, never
// propagated: the primary operation has already committed by the time an
// event is emitted.
func (p *Publisher) Record(ctx context.Context, event domain.AuditEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("audit: failed to encode event",
			slog.String("action", event.Action),
			slog.String("error", err.Error()),
		)
		p.metrics.AuditPublishFailed.Inc()
		return
	}

	if err := p.nc.Publish(Subject, data); err != nil {
		p.logger.Error("audit: failed to publish event",
			slog.String("action", event.Action),
			slog.String("entity_type", event.EntityType),
			slog.String("error", err.Error()),
		)
		p.metrics.AuditPublishFailed.Inc()
		return
	}
	p.metrics.AuditPublished.Inc()
}

// NopSink discards all events. Used when auditing is disabled and in tests.
type NopSink struct{}

func (NopSink) Record(ctx context.Context, event domain.AuditEvent) {}

var _ domain.AuditSink = NopSink{}
