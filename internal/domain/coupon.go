package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CouponKind distinguishes percentage discounts from fixed amounts.
type CouponKind string

const (
	CouponPercentage CouponKind = "percentage"
	CouponFixed      CouponKind = "fixed"
)

// Coupon validation failures. The validator surface is a 400 for every
// failure kind, so each carries EINVALID rather than ENOTFOUND.
var (
	ErrCouponNotFound     = &Error{Code: EINVALID, Message: "Coupon code not found"}
	ErrCouponInactive     = &Error{Code: EINVALID, Message: "Coupon is not active"}
	ErrCouponExpired      = &Error{Code: EINVALID, Message: "Coupon is expired or not yet valid"}
	ErrCouponExhausted    = &Error{Code: EINVALID, Message: "Coupon usage limit reached"}
	ErrCouponBelowMinimum = &Error{Code: EINVALID, Message: "Order subtotal below coupon minimum"}
)

// Discount describes the outcome of a successful coupon validation.
// AmountCents is clamped to the subtotal: a coupon never drives a total negative.
type Discount struct {
	Code        string
	Kind        CouponKind
	Value       decimal.Decimal
	AmountCents int64
	Description string
}

// CouponValidator checks a coupon code against a proposed subtotal.
// Validation is read-only: redemption (incrementing used_count) is the order
// flow's responsibility, so the same check serves UI preview and final apply.
type CouponValidator interface {
	Validate(ctx context.Context, code string, subtotalCents int64) (*Discount, error)
}
