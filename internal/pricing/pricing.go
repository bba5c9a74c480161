// Package pricing computes monetary totals for orders and invoices.
// All amounts are integer minor units (cents); dollar values cross this
// boundary only through the decimal conversion helpers.
package pricing

import (
	"github.com/facetworks/facet/internal/domain"
	"github.com/shopspring/decimal"
)

// LineItem is one priced line in an aggregation.
type LineItem struct {
	UnitPriceCents int64
	Quantity       int32
}

// Params are the inputs to an aggregation. Tax, shipping, and discount are
// optional adjustments in cents.
type Params struct {
	Items         []LineItem
	TaxCents      int64
	ShippingCents int64
	DiscountCents int64
}

// Totals is the monetary breakdown of an aggregation.
type Totals struct {
	SubtotalCents int64
	TaxCents      int64
	ShippingCents int64
	DiscountCents int64
	TotalCents    int64
}

// Calculate sums line totals into a subtotal and derives the grand total as
// subtotal + tax + shipping - discount, floored at zero. Integer cents mean
// no intermediate rounding occurs.
func Calculate(params Params) (Totals, error) {
	const op = "pricing.calculate"

	if params.TaxCents < 0 || params.ShippingCents < 0 || params.DiscountCents < 0 {
		return Totals{}, domain.Invalid(op, "tax, shipping, and discount must not be negative")
	}

	var subtotal int64
	for _, item := range params.Items {
		if item.Quantity <= 0 {
			return Totals{}, domain.Invalid(op, "line item quantity must be positive")
		}
		if item.UnitPriceCents < 0 {
			return Totals{}, domain.Invalid(op, "line item unit price must not be negative")
		}
		subtotal += item.UnitPriceCents * int64(item.Quantity)
	}

	total := subtotal + params.TaxCents + params.ShippingCents - params.DiscountCents
	if total < 0 {
		total = 0
	}

	return Totals{
		SubtotalCents: subtotal,
		TaxCents:      params.TaxCents,
		ShippingCents: params.ShippingCents,
		DiscountCents: params.DiscountCents,
		TotalCents:    total,
	}, nil
}

// CentsFromDecimal converts a dollar amount to cents. Amounts with sub-cent
// precision are rejected rather than silently rounded.
func CentsFromDecimal(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, domain.Invalid("pricing.convert", "amount has more than two decimal places")
	}
	return shifted.IntPart(), nil
}

// DecimalFromCents converts cents to a dollar amount with two decimal places.
func DecimalFromCents(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Shift(-2)
}
