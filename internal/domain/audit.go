package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Audit action tags recorded for state-changing operations.
const (
	AuditOrderCreated         = "order.created"
	AuditOrderStatusChanged   = "order.status_changed"
	AuditInvoiceCreated       = "invoice.created"
	AuditInvoiceStatusChanged = "invoice.status_changed"
	AuditInvoicePaymentSet    = "invoice.payment_changed"
	AuditInvoiceReminderSent  = "invoice.reminder_sent"
	AuditCouponRedeemed       = "coupon.redeemed"
)

// AuditEvent is one append-only trail entry describing a state-changing
// operation. Details is an opaque structured payload.
type AuditEvent struct {
	ActorID    *uuid.UUID     `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewAuditEvent builds an event stamped with the caller and request metadata
// from context.
func NewAuditEvent(ctx context.Context, action, entityType, entityID string, details map[string]any) AuditEvent {
	ev := AuditEvent{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		OccurredAt: time.Now().UTC(),
	}
	if user := UserFromContext(ctx); user != nil {
		id := user.ID
		ev.ActorID = &id
	}
	if meta := RequestMetaFromContext(ctx); meta != nil {
		ev.IPAddress = meta.IPAddress
		ev.UserAgent = meta.UserAgent
	}
	return ev
}

// AuditSink accepts audit events emitted after a primary operation commits.
// Record is fire-and-forget from the caller's perspective: implementations
// log and count failures instead of propagating them, so a trail outage never
// rolls back a customer-facing operation.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent)
}
