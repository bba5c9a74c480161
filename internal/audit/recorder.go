package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/repository"
	"github.com/facetworks/facet/internal/telemetry"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nats-io/nats.go"
)

// queueGroup spreads trail writes across recorder instances without
// duplicating rows.
const queueGroup = "audit-recorder"

// writeTimeout bounds a single trail insert.
const writeTimeout = 5 * time.Second

// Recorder consumes audit events from NATS and appends them to the audit_log
// table.
type Recorder struct {
	repo    repository.Querier
	logger  *slog.Logger
	metrics *telemetry.Metrics
	sub     *nats.Subscription
}

// NewRecorder creates a Recorder writing through the repository.
func NewRecorder(repo repository.Querier, logger *slog.Logger, metrics *telemetry.Metrics) *Recorder {
	return &Recorder{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
	}
}

// Start subscribes to the audit subject. Events are handled one at a time per
// recorder; ordering within a subject is preserved by NATS.
func (r *Recorder) Start(nc *nats.Conn) error {
	sub, err := nc.QueueSubscribe(Subject, queueGroup, r.handle)
	if err != nil {
		return err
	}
	r.sub = sub
	r.logger.Info("audit recorder started", slog.String("subject", Subject))
	return nil
}

// Stop drains the subscription, letting in-flight events finish.
func (r *Recorder) Stop() error {
	if r.sub == nil {
		return nil
	}
	return r.sub.Drain()
}

func (r *Recorder) handle(msg *nats.Msg) {
	var event domain.AuditEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		r.logger.Error("audit: dropping undecodable event", slog.String("error", err.Error()))
		r.metrics.AuditRecordFailed.Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if _, err := r.repo.CreateAuditLog(ctx, EventToParams(event)); err != nil {
		r.logger.Error("audit: failed to persist event",
			slog.String("action", event.Action),
			slog.String("entity_type", event.EntityType),
			slog.String("error", err.Error()),
		)
		r.metrics.AuditRecordFailed.Inc()
		return
	}
	r.metrics.AuditRecorded.Inc()
}

// EventToParams maps a wire event onto a trail row.
func EventToParams(event domain.AuditEvent) repository.CreateAuditLogParams {
	params := repository.CreateAuditLogParams{
		Action:     event.Action,
		EntityType: event.EntityType,
		CreatedAt:  pgtype.Timestamptz{Time: event.OccurredAt, Valid: true},
	}
	if event.ActorID != nil {
		params.ActorID = pgtype.UUID{Bytes: *event.ActorID, Valid: true}
	}
	if event.EntityID != "" {
		params.EntityID = pgtype.Text{String: event.EntityID, Valid: true}
	}
	if event.IPAddress != "" {
		params.IPAddress = pgtype.Text{String: event.IPAddress, Valid: true}
	}
	if event.UserAgent != "" {
		params.UserAgent = pgtype.Text{String: event.UserAgent, Valid: true}
	}
	if len(event.Details) > 0 {
		if data, err := json.Marshal(event.Details); err == nil {
			params.Details = data
		}
	}
	return params
}
