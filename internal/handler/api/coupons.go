package api

import (
	"log/slog"
	"net/http"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/pricing"
	"github.com/shopspring/decimal"
)

// CouponHandler serves coupon validation.
type CouponHandler struct {
	coupons domain.CouponValidator
	logger  *slog.Logger
}

// NewCouponHandler creates a coupon handler.
func NewCouponHandler(coupons domain.CouponValidator, logger *slog.Logger) *CouponHandler {
	return &CouponHandler{
		coupons: coupons,
		logger:  logger,
	}
}

type validateCouponRequest struct {
	Code     string          `json:"code" validate:"required"`
	Subtotal decimal.Decimal `json:"subtotal" validate:"required"`
}

type discountResponse struct {
	Code        string          `json:"code"`
	Kind        string          `json:"type"`
	Value       decimal.Decimal `json:"value"`
	Amount      decimal.Decimal `json:"discount"`
	Description string          `json:"description"`
}

// ValidateCoupon handles POST /coupons/validate. It is a pure preview: no
// usage is consumed. Every failed rule comes back as a validation error, so
// the storefront can show the reason without distinguishing status codes.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req validateCouponRequest
	if err := decodeRequest(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	subtotalCents, err := pricing.CentsFromDecimal(req.Subtotal)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if subtotalCents < 0 {
		respondError(w, r, domain.Invalid("api.coupon", "subtotal must not be negative"))
		return
	}

	discount, err := h.coupons.Validate(r.Context(), req.Code, subtotalCents)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newDiscountResponse(discount))
}

func newDiscountResponse(d *domain.Discount) discountResponse {
	return discountResponse{
		Code:        d.Code,
		Kind:        string(d.Kind),
		Value:       d.Value,
		Amount:      pricing.DecimalFromCents(d.AmountCents),
		Description: d.Description,
	}
}
