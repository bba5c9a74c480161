package service

import (
	"context"
	"errors"
	"sync"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/email"
	"github.com/facetworks/facet/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// mockQuerier implements repository.Querier for testing. Unset read funcs
// report no rows; unset write funcs fail loudly.
type mockQuerier struct {
	GetUserByIDFunc           func(ctx context.Context, id pgtype.UUID) (repository.User, error)
	GetUserBySessionTokenFunc func(ctx context.Context, token string) (repository.User, error)
	GetAddressForUserFunc     func(ctx context.Context, arg repository.GetAddressForUserParams) (repository.Address, error)
	GetAddressByIDFunc        func(ctx context.Context, id pgtype.UUID) (repository.Address, error)
	GetProductFunc            func(ctx context.Context, id pgtype.UUID) (repository.Product, error)

	GetCouponByCodeFunc      func(ctx context.Context, code string) (repository.Coupon, error)
	IncrementCouponUsageFunc func(ctx context.Context, id pgtype.UUID) error

	CreateOrderWithItemsFunc func(ctx context.Context, order repository.CreateOrderParams, items []repository.CreateOrderItemParams) (repository.Order, []repository.OrderItem, error)
	GetOrderFunc             func(ctx context.Context, id pgtype.UUID) (repository.Order, error)
	GetOrderForUserFunc      func(ctx context.Context, arg repository.GetOrderForUserParams) (repository.Order, error)
	GetOrderItemsFunc        func(ctx context.Context, orderID pgtype.UUID) ([]repository.OrderItem, error)
	ListOrdersForUserFunc    func(ctx context.Context, userID pgtype.UUID) ([]repository.Order, error)
	UpdateOrderStatusFunc    func(ctx context.Context, arg repository.UpdateOrderStatusParams) (repository.Order, error)

	CreateInvoiceWithItemsFunc   func(ctx context.Context, invoice repository.CreateInvoiceParams, items []repository.CreateInvoiceItemParams) (repository.Invoice, []repository.InvoiceItem, error)
	GetInvoiceByIDFunc           func(ctx context.Context, id pgtype.UUID) (repository.Invoice, error)
	GetInvoiceItemsFunc          func(ctx context.Context, invoiceID pgtype.UUID) ([]repository.InvoiceItem, error)
	UpdateInvoiceStatusFunc      func(ctx context.Context, arg repository.UpdateInvoiceStatusParams) (repository.Invoice, error)
	UpdateInvoicePaymentFunc     func(ctx context.Context, arg repository.UpdateInvoicePaymentParams) (repository.Invoice, error)
	ListInvoicesPastDueFunc      func(ctx context.Context, asOf pgtype.Date) ([]repository.Invoice, error)
	IncrementInvoiceReminderFunc func(ctx context.Context, id pgtype.UUID) (repository.Invoice, error)

	GetCompanySettingsFunc func(ctx context.Context) (repository.CompanySettings, error)
	NextInvoiceNumberFunc  func(ctx context.Context) (repository.NextInvoiceNumberRow, error)

	CreateAuditLogFunc func(ctx context.Context, arg repository.CreateAuditLogParams) (repository.AuditLog, error)
}

var errMockNotImplemented = errors.New("not implemented")

func (m *mockQuerier) GetUserByID(ctx context.Context, id pgtype.UUID) (repository.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return repository.User{}, pgx.ErrNoRows
}

func (m *mockQuerier) GetUserBySessionToken(ctx context.Context, token string) (repository.User, error) {
	if m.GetUserBySessionTokenFunc != nil {
		return m.GetUserBySessionTokenFunc(ctx, token)
	}
	return repository.User{}, pgx.ErrNoRows
}

func (m *mockQuerier) GetAddressForUser(ctx context.Context, arg repository.GetAddressForUserParams) (repository.Address, error) {
	if m.GetAddressForUserFunc != nil {
		return m.GetAddressForUserFunc(ctx, arg)
	}
	return repository.Address{}, pgx.ErrNoRows
}

func (m *mockQuerier) GetAddressByID(ctx context.Context, id pgtype.UUID) (repository.Address, error) {
	if m.GetAddressByIDFunc != nil {
		return m.GetAddressByIDFunc(ctx, id)
	}
	return repository.Address{}, pgx.ErrNoRows
}

func (m *mockQuerier) GetProduct(ctx context.Context, id pgtype.UUID) (repository.Product, error) {
	if m.GetProductFunc != nil {
		return m.GetProductFunc(ctx, id)
	}
	return repository.Product{}, pgx.ErrNoRows
}

func (m *mockQuerier) GetCouponByCode(ctx context.Context, code string) (repository.Coupon, error) {
	if m.GetCouponByCodeFunc != nil {
		return m.GetCouponByCodeFunc(ctx, code)
	}
	return repository.Coupon{}, pgx.ErrNoRows
}

func (m *mockQuerier) IncrementCouponUsage(ctx context.Context, id pgtype.UUID) error {
	if m.IncrementCouponUsageFunc != nil {
		return m.IncrementCouponUsageFunc(ctx, id)
	}
	return nil
}

func (m *mockQuerier) CreateOrderWithItems(ctx context.Context, order repository.CreateOrderParams, items []repository.CreateOrderItemParams) (repository.Order, []repository.OrderItem, error) {
	if m.CreateOrderWithItemsFunc != nil {
		return m.CreateOrderWithItemsFunc(ctx, order, items)
	}
	return repository.Order{}, nil, errMockNotImplemented
}

func (m *mockQuerier) GetOrder(ctx context.Context, id pgtype.UUID) (repository.Order, error) {
	if m.GetOrderFunc != nil {
		return m.GetOrderFunc(ctx, id)
	}
	return repository.Order{}, pgx.ErrNoRows
}

func (m *mockQuerier) GetOrderForUser(ctx context.Context, arg repository.GetOrderForUserParams) (repository.Order, error) {
	if m.GetOrderForUserFunc != nil {
		return m.GetOrderForUserFunc(ctx, arg)
	}
	return repository.Order{}, pgx.ErrNoRows
}

func (m *mockQuerier) GetOrderItems(ctx context.Context, orderID pgtype.UUID) ([]repository.OrderItem, error) {
	if m.GetOrderItemsFunc != nil {
		return m.GetOrderItemsFunc(ctx, orderID)
	}
	return nil, nil
}

func (m *mockQuerier) ListOrdersForUser(ctx context.Context, userID pgtype.UUID) ([]repository.Order, error) {
	if m.ListOrdersForUserFunc != nil {
		return m.ListOrdersForUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockQuerier) UpdateOrderStatus(ctx context.Context, arg repository.UpdateOrderStatusParams) (repository.Order, error) {
	if m.UpdateOrderStatusFunc != nil {
		return m.UpdateOrderStatusFunc(ctx, arg)
	}
	return repository.Order{}, errMockNotImplemented
}

func (m *mockQuerier) CreateInvoiceWithItems(ctx context.Context, invoice repository.CreateInvoiceParams, items []repository.CreateInvoiceItemParams) (repository.Invoice, []repository.InvoiceItem, error) {
	if m.CreateInvoiceWithItemsFunc != nil {
		return m.CreateInvoiceWithItemsFunc(ctx, invoice, items)
	}
	return repository.Invoice{}, nil, errMockNotImplemented
}

func (m *mockQuerier) GetInvoiceByID(ctx context.Context, id pgtype.UUID) (repository.Invoice, error) {
	if m.GetInvoiceByIDFunc != nil {
		return m.GetInvoiceByIDFunc(ctx, id)
	}
	return repository.Invoice{}, pgx.ErrNoRows
}

func (m *mockQuerier) GetInvoiceItems(ctx context.Context, invoiceID pgtype.UUID) ([]repository.InvoiceItem, error) {
	if m.GetInvoiceItemsFunc != nil {
		return m.GetInvoiceItemsFunc(ctx, invoiceID)
	}
	return nil, nil
}

func (m *mockQuerier) UpdateInvoiceStatus(ctx context.Context, arg repository.UpdateInvoiceStatusParams) (repository.Invoice, error) {
	if m.UpdateInvoiceStatusFunc != nil {
		return m.UpdateInvoiceStatusFunc(ctx, arg)
	}
	return repository.Invoice{}, errMockNotImplemented
}

func (m *mockQuerier) UpdateInvoicePayment(ctx context.Context, arg repository.UpdateInvoicePaymentParams) (repository.Invoice, error) {
	if m.UpdateInvoicePaymentFunc != nil {
		return m.UpdateInvoicePaymentFunc(ctx, arg)
	}
	return repository.Invoice{}, errMockNotImplemented
}

func (m *mockQuerier) ListInvoicesPastDue(ctx context.Context, asOf pgtype.Date) ([]repository.Invoice, error) {
	if m.ListInvoicesPastDueFunc != nil {
		return m.ListInvoicesPastDueFunc(ctx, asOf)
	}
	return nil, nil
}

func (m *mockQuerier) IncrementInvoiceReminder(ctx context.Context, id pgtype.UUID) (repository.Invoice, error) {
	if m.IncrementInvoiceReminderFunc != nil {
		return m.IncrementInvoiceReminderFunc(ctx, id)
	}
	return repository.Invoice{}, errMockNotImplemented
}

func (m *mockQuerier) GetCompanySettings(ctx context.Context) (repository.CompanySettings, error) {
	if m.GetCompanySettingsFunc != nil {
		return m.GetCompanySettingsFunc(ctx)
	}
	return repository.CompanySettings{}, pgx.ErrNoRows
}

func (m *mockQuerier) NextInvoiceNumber(ctx context.Context) (repository.NextInvoiceNumberRow, error) {
	if m.NextInvoiceNumberFunc != nil {
		return m.NextInvoiceNumberFunc(ctx)
	}
	return repository.NextInvoiceNumberRow{}, errMockNotImplemented
}

func (m *mockQuerier) CreateAuditLog(ctx context.Context, arg repository.CreateAuditLogParams) (repository.AuditLog, error) {
	if m.CreateAuditLogFunc != nil {
		return m.CreateAuditLogFunc(ctx, arg)
	}
	return repository.AuditLog{}, nil
}

var _ repository.Querier = (*mockQuerier)(nil)

// captureSink records audit events for assertions.
type captureSink struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (c *captureSink) Record(ctx context.Context, event domain.AuditEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureSink) actions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	actions := make([]string, 0, len(c.events))
	for _, ev := range c.events {
		actions = append(actions, ev.Action)
	}
	return actions
}

// mockSender records outbound email instead of sending it.
type mockSender struct {
	sent []*email.Email
	err  error
}

func (m *mockSender) Send(ctx context.Context, e *email.Email) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, e)
	return "mock-message-id", nil
}
