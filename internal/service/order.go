package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/facetworks/facet/internal/coupon"
	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/pricing"
	"github.com/facetworks/facet/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

type orderService struct {
	repo   repository.Querier
	audit  domain.AuditSink
	logger *slog.Logger
	now    func() time.Time
}

// NewOrderService creates an OrderService backed by the repository.
func NewOrderService(repo repository.Querier, audit domain.AuditSink, logger *slog.Logger) domain.OrderService {
	return &orderService{
		repo:   repo,
		audit:  audit,
		logger: logger,
		now:    time.Now,
	}
}

// CreateOrder places an order from a cart snapshot.
//
// Unit prices come from the current catalog, never from the client, and the
// totals are recomputed server-side. A coupon discount is applied to the
// stored subtotal, so total = subtotal + tax + shipping always holds for the
// persisted row. The order and its items commit in one transaction; coupon
// redemption is recorded after the commit and is non-fatal if it fails.
func (s *orderService) CreateOrder(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error) {
	const op = "order.create"

	if len(params.Items) == 0 {
		return nil, domain.ErrEmptyOrder
	}

	userID, err := parseUUID(op, "user id", params.UserID)
	if err != nil {
		return nil, err
	}

	billingID, err := parseUUID(op, "billing address id", params.BillingAddressID)
	if err != nil {
		return nil, err
	}
	billing, err := s.repo.GetAddressForUser(ctx, repository.GetAddressForUserParams{ID: billingID, UserID: userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAddressNotFound
		}
		return nil, domain.Internal(err, op, "failed to load billing address")
	}

	shipping := billing
	if params.ShippingAddressID != "" && params.ShippingAddressID != params.BillingAddressID {
		shippingID, err := parseUUID(op, "shipping address id", params.ShippingAddressID)
		if err != nil {
			return nil, err
		}
		shipping, err = s.repo.GetAddressForUser(ctx, repository.GetAddressForUserParams{ID: shippingID, UserID: userID})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrAddressNotFound
			}
			return nil, domain.Internal(err, op, "failed to load shipping address")
		}
	}

	// Snapshot catalog prices into line items.
	lines := make([]pricing.LineItem, 0, len(params.Items))
	itemParams := make([]repository.CreateOrderItemParams, 0, len(params.Items))
	for _, item := range params.Items {
		productID, err := parseUUID(op, "product id", item.ProductID)
		if err != nil {
			return nil, err
		}
		product, err := s.repo.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrProductNotFound
			}
			return nil, domain.Internal(err, op, "failed to load product")
		}
		if !product.Active {
			return nil, domain.ErrProductNotFound
		}

		lines = append(lines, pricing.LineItem{
			UnitPriceCents: product.PriceCents,
			Quantity:       item.Quantity,
		})
		itemParams = append(itemParams, repository.CreateOrderItemParams{
			ProductID:       productID,
			ProductName:     product.Name,
			Quantity:        item.Quantity,
			UnitPriceCents:  product.PriceCents,
			TotalPriceCents: product.PriceCents * int64(item.Quantity),
			Notes:           textFrom(item.Notes),
		})
	}

	totals, err := pricing.Calculate(pricing.Params{
		Items:         lines,
		TaxCents:      params.TaxCents,
		ShippingCents: params.ShippingCents,
	})
	if err != nil {
		return nil, err
	}

	// Validate the coupon against the undiscounted subtotal, then fold the
	// discount into the stored amounts.
	var discount *domain.Discount
	var couponID pgtype.UUID
	if params.CouponCode != "" {
		c, err := s.repo.GetCouponByCode(ctx, params.CouponCode)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrCouponNotFound
			}
			return nil, domain.Internal(err, op, "failed to look up coupon")
		}
		discount, err = coupon.Evaluate(c, totals.SubtotalCents, s.now())
		if err != nil {
			return nil, err
		}
		couponID = c.ID
	}

	subtotal := totals.SubtotalCents
	if discount != nil {
		subtotal -= discount.AmountCents
	}
	total := subtotal + totals.TaxCents + totals.ShippingCents

	orderNumber, err := generateOrderNumber(s.now())
	if err != nil {
		return nil, domain.Internal(err, op, "failed to generate order number")
	}

	order, items, err := s.repo.CreateOrderWithItems(ctx, repository.CreateOrderParams{
		UserID:            userID,
		OrderNumber:       orderNumber,
		Status:            string(domain.OrderPending),
		SubtotalCents:     subtotal,
		TaxCents:          totals.TaxCents,
		ShippingCents:     totals.ShippingCents,
		TotalCents:        total,
		Currency:          "USD",
		PaymentMethod:     params.PaymentMethod,
		ShippingMethod:    params.ShippingMethod,
		CouponID:          couponID,
		BillingAddressID:  billing.ID,
		ShippingAddressID: shipping.ID,
		Notes:             textFrom(params.Notes),
	}, itemParams)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to persist order")
	}

	// Redemption is best-effort after the commit. A missed increment slightly
	// over-allows the coupon, which beats failing a placed order.
	if discount != nil {
		if err := s.repo.IncrementCouponUsage(ctx, couponID); err != nil {
			s.logger.Error("failed to record coupon redemption",
				slog.String("order_id", uuidString(order.ID)),
				slog.String("coupon_code", discount.Code),
				slog.String("error", err.Error()),
			)
		} else {
			s.audit.Record(ctx, domain.NewAuditEvent(ctx, domain.AuditCouponRedeemed, "coupon", discount.Code, map[string]any{
				"order_id":       uuidString(order.ID),
				"discount_cents": discount.AmountCents,
			}))
		}
	}

	s.audit.Record(ctx, domain.NewAuditEvent(ctx, domain.AuditOrderCreated, "order", uuidString(order.ID), map[string]any{
		"order_number": order.OrderNumber,
		"total_cents":  order.TotalCents,
		"item_count":   len(items),
	}))

	return &domain.OrderDetail{
		Order:           order,
		Items:           items,
		BillingAddress:  &billing,
		ShippingAddress: &shipping,
		Discount:        discount,
	}, nil
}

// GetOrder retrieves an order with its items and addresses. A non-empty
// userID scopes the lookup to that owner; staff callers pass an empty userID
// to fetch any order.
func (s *orderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.OrderDetail, error) {
	const op = "order.get"

	id, err := parseUUID(op, "order id", orderID)
	if err != nil {
		return nil, err
	}

	var order repository.Order
	if userID == "" {
		order, err = s.repo.GetOrder(ctx, id)
	} else {
		var uid pgtype.UUID
		uid, err = parseUUID(op, "user id", userID)
		if err != nil {
			return nil, err
		}
		order, err = s.repo.GetOrderForUser(ctx, repository.GetOrderForUserParams{ID: id, UserID: uid})
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, op, "failed to load order")
	}

	return s.loadDetail(ctx, op, order)
}

// ListOrders returns the caller's orders, newest first, with items attached.
func (s *orderService) ListOrders(ctx context.Context, userID string) ([]domain.OrderDetail, error) {
	const op = "order.list"

	uid, err := parseUUID(op, "user id", userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.ListOrdersForUser(ctx, uid)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list orders")
	}

	details := make([]domain.OrderDetail, 0, len(orders))
	for _, order := range orders {
		items, err := s.repo.GetOrderItems(ctx, order.ID)
		if err != nil {
			return nil, domain.Internal(err, op, "failed to load order items")
		}
		details = append(details, domain.OrderDetail{Order: order, Items: items})
	}
	return details, nil
}

// UpdateOrderStatus applies a staff status change validated against the order
// status machine.
func (s *orderService) UpdateOrderStatus(ctx context.Context, params domain.UpdateOrderStatusParams) (*repository.Order, error) {
	const op = "order.update_status"

	id, err := parseUUID(op, "order id", params.OrderID)
	if err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, op, "failed to load order")
	}

	from := domain.OrderStatus(order.Status)
	if err := domain.TransitionOrder(from, params.Status); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, repository.UpdateOrderStatusParams{
		ID:     id,
		Status: string(params.Status),
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to update order status")
	}

	s.audit.Record(ctx, domain.NewAuditEvent(ctx, domain.AuditOrderStatusChanged, "order", uuidString(updated.ID), map[string]any{
		"from": string(from),
		"to":   string(params.Status),
	}))

	return &updated, nil
}

func (s *orderService) loadDetail(ctx context.Context, op string, order repository.Order) (*domain.OrderDetail, error) {
	items, err := s.repo.GetOrderItems(ctx, order.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load order items")
	}

	detail := &domain.OrderDetail{Order: order, Items: items}

	if order.BillingAddressID.Valid {
		addr, err := s.repo.GetAddressByID(ctx, order.BillingAddressID)
		if err == nil {
			detail.BillingAddress = &addr
		}
	}
	if order.ShippingAddressID.Valid {
		addr, err := s.repo.GetAddressByID(ctx, order.ShippingAddressID)
		if err == nil {
			detail.ShippingAddress = &addr
		}
	}
	return detail, nil
}
