package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAuditLog = `
INSERT INTO audit_log (actor_id, action, entity_type, entity_id, details, ip_address, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, actor_id, action, entity_type, entity_id, details, ip_address, user_agent, created_at
`

type CreateAuditLogParams struct {
	ActorID    pgtype.UUID
	Action     string
	EntityType string
	EntityID   pgtype.Text
	Details    []byte
	IPAddress  pgtype.Text
	UserAgent  pgtype.Text
	CreatedAt  pgtype.Timestamptz
}

// CreateAuditLog appends one immutable trail entry. Rows are never updated or
// deleted by normal operation.
func (q *Queries) CreateAuditLog(ctx context.Context, arg CreateAuditLogParams) (AuditLog, error) {
	row := q.db.QueryRow(ctx, createAuditLog,
		arg.ActorID, arg.Action, arg.EntityType, arg.EntityID,
		arg.Details, arg.IPAddress, arg.UserAgent, arg.CreatedAt,
	)
	var a AuditLog
	err := row.Scan(&a.ID, &a.ActorID, &a.Action, &a.EntityType, &a.EntityID, &a.Details, &a.IPAddress, &a.UserAgent, &a.CreatedAt)
	return a, err
}
