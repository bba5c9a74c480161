// Package coupon evaluates promotional coupon codes against a proposed order
// subtotal. Validation never mutates coupon state: redemption happens in the
// order flow, after the order commit.
package coupon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Store is the persistence surface the validator needs.
type Store interface {
	GetCouponByCode(ctx context.Context, code string) (repository.Coupon, error)
}

// Validator checks coupon codes against the rule set in order:
// existence, active flag, validity window, usage cap, minimum order amount.
// The first failing rule wins.
type Validator struct {
	store Store
	now   func() time.Time
}

// Compile-time check to ensure Validator implements domain.CouponValidator.
var _ domain.CouponValidator = (*Validator)(nil)

// NewValidator creates a Validator backed by the given store.
func NewValidator(store Store) *Validator {
	return &Validator{
		store: store,
		now:   time.Now,
	}
}

// WithClock overrides the time source. Used by tests.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate resolves a code and evaluates it against the candidate subtotal.
func (v *Validator) Validate(ctx context.Context, code string, subtotalCents int64) (*domain.Discount, error) {
	c, err := v.store.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, domain.Internal(err, "coupon.validate", "failed to look up coupon")
	}

	return Evaluate(c, subtotalCents, v.now())
}

// Evaluate applies the coupon rules to a loaded coupon record. It is pure:
// the same inputs always produce the same result, so it serves both UI
// preview and final redemption checks.
func Evaluate(c repository.Coupon, subtotalCents int64, now time.Time) (*domain.Discount, error) {
	if !c.Active {
		return nil, domain.ErrCouponInactive
	}
	if now.Before(c.ValidFrom.Time) || now.After(c.ValidUntil.Time) {
		return nil, domain.ErrCouponExpired
	}
	if c.UsageLimit.Valid && c.UsedCount >= c.UsageLimit.Int32 {
		return nil, domain.ErrCouponExhausted
	}
	if c.MinOrderCents.Valid && subtotalCents < c.MinOrderCents.Int64 {
		return nil, domain.ErrCouponBelowMinimum
	}

	value := decimal.NewFromBigInt(c.Value.Int, c.Value.Exp)

	var amountCents int64
	switch domain.CouponKind(c.Kind) {
	case domain.CouponPercentage:
		amountCents = decimal.NewFromInt(subtotalCents).
			Mul(value).
			Div(decimal.NewFromInt(100)).
			Round(0).
			IntPart()
	case domain.CouponFixed:
		cents := value.Shift(2)
		if !cents.IsInteger() {
			return nil, domain.Errorf(domain.EINVALID, "coupon.evaluate", "coupon %s has sub-cent value", c.Code)
		}
		amountCents = cents.IntPart()
	default:
		return nil, domain.Errorf(domain.EINVALID, "coupon.evaluate", "unknown discount kind: %s", c.Kind)
	}

	// A coupon can never make the order total negative.
	if amountCents > subtotalCents {
		amountCents = subtotalCents
	}

	description := ""
	if c.Description.Valid {
		description = c.Description.String
	} else {
		switch domain.CouponKind(c.Kind) {
		case domain.CouponPercentage:
			description = fmt.Sprintf("%s%% off", value.String())
		case domain.CouponFixed:
			description = fmt.Sprintf("$%s off", value.StringFixed(2))
		}
	}

	return &domain.Discount{
		Code:        c.Code,
		Kind:        domain.CouponKind(c.Kind),
		Value:       value,
		AmountCents: amountCents,
		Description: description,
	}, nil
}
