package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getCouponByCode = `
SELECT id, code, description, kind, value, valid_from, valid_until,
       usage_limit, used_count, min_order_cents, active, created_at, updated_at
FROM coupons
WHERE LOWER(code) = LOWER($1)
`

// GetCouponByCode looks up a coupon by case-insensitive exact code match.
func (q *Queries) GetCouponByCode(ctx context.Context, code string) (Coupon, error) {
	row := q.db.QueryRow(ctx, getCouponByCode, code)
	var c Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Description, &c.Kind, &c.Value,
		&c.ValidFrom, &c.ValidUntil, &c.UsageLimit, &c.UsedCount,
		&c.MinOrderCents, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

const incrementCouponUsage = `
UPDATE coupons
SET used_count = used_count + 1, updated_at = now()
WHERE id = $1
`

// IncrementCouponUsage records one redemption. Called exactly once per
// successfully created order, after the order commit.
func (q *Queries) IncrementCouponUsage(ctx context.Context, id pgtype.UUID) error {
	_, err := q.db.Exec(ctx, incrementCouponUsage, id)
	return err
}
