package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/repository"
	"github.com/facetworks/facet/internal/router"
	"github.com/facetworks/facet/internal/telemetry"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Prometheus registration is process-global, so all handler tests share one
// metrics instance.
var testMetrics = telemetry.NewMetrics("api_test")

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pgUUID(s string) pgtype.UUID {
	var id pgtype.UUID
	if err := id.Scan(s); err != nil {
		panic(err)
	}
	return id
}

// stubCouponValidator records the last call and returns canned results.
type stubCouponValidator struct {
	discount *domain.Discount
	err      error

	gotCode     string
	gotSubtotal int64
}

func (s *stubCouponValidator) Validate(_ context.Context, code string, subtotalCents int64) (*domain.Discount, error) {
	s.gotCode = code
	s.gotSubtotal = subtotalCents
	if s.err != nil {
		return nil, s.err
	}
	return s.discount, nil
}

type stubOrderService struct {
	createFn func(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error)
	getFn    func(ctx context.Context, userID, orderID string) (*domain.OrderDetail, error)
	listFn   func(ctx context.Context, userID string) ([]domain.OrderDetail, error)
	updateFn func(ctx context.Context, params domain.UpdateOrderStatusParams) (*repository.Order, error)
}

func (s *stubOrderService) CreateOrder(ctx context.Context, params domain.CreateOrderParams) (*domain.OrderDetail, error) {
	return s.createFn(ctx, params)
}

func (s *stubOrderService) GetOrder(ctx context.Context, userID, orderID string) (*domain.OrderDetail, error) {
	return s.getFn(ctx, userID, orderID)
}

func (s *stubOrderService) ListOrders(ctx context.Context, userID string) ([]domain.OrderDetail, error) {
	return s.listFn(ctx, userID)
}

func (s *stubOrderService) UpdateOrderStatus(ctx context.Context, params domain.UpdateOrderStatusParams) (*repository.Order, error) {
	return s.updateFn(ctx, params)
}

type stubInvoiceService struct {
	issueFn    func(ctx context.Context, params domain.IssueInvoiceParams) (*domain.InvoiceDetail, error)
	getFn      func(ctx context.Context, invoiceID string) (*domain.InvoiceDetail, error)
	updateFn   func(ctx context.Context, params domain.UpdateInvoiceStatusParams) (*domain.InvoiceDetail, error)
	reminderFn func(ctx context.Context, invoiceID string) (*domain.InvoiceDetail, error)
}

func (s *stubInvoiceService) IssueInvoice(ctx context.Context, params domain.IssueInvoiceParams) (*domain.InvoiceDetail, error) {
	return s.issueFn(ctx, params)
}

func (s *stubInvoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.InvoiceDetail, error) {
	return s.getFn(ctx, invoiceID)
}

func (s *stubInvoiceService) UpdateStatus(ctx context.Context, params domain.UpdateInvoiceStatusParams) (*domain.InvoiceDetail, error) {
	return s.updateFn(ctx, params)
}

func (s *stubInvoiceService) SendReminder(ctx context.Context, invoiceID string) (*domain.InvoiceDetail, error) {
	return s.reminderFn(ctx, invoiceID)
}

func (s *stubInvoiceService) MarkInvoicesOverdue(ctx context.Context) (int, error) {
	return 0, nil
}

func newTestRouter(coupons domain.CouponValidator, orders domain.OrderService, invoices domain.InvoiceService) *router.Router {
	logger := testLogger()
	r := router.New()
	RegisterRoutes(r, Handlers{
		Coupons:  NewCouponHandler(coupons, logger),
		Orders:   NewOrderHandler(orders, logger, testMetrics),
		Invoices: NewInvoiceHandler(invoices, logger, testMetrics),
	})
	return r
}

func customerUser() *domain.User {
	return &domain.User{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), Email: "pearl@example.com", Role: "customer"}
}

func staffUser() *domain.User {
	return &domain.User{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), Email: "opal@example.com", Role: "staff"}
}

// doJSON performs a request against the router with an optional caller
// attached to the context, the way the session middleware would.
func doJSON(t *testing.T, r *router.Router, method, path string, body any, user *domain.User) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if user != nil {
		req = req.WithContext(domain.NewContextWithUser(req.Context(), user))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a recorded JSON response.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response body %q: %v", w.Body.String(), err)
	}
	return body
}

// errorMessage extracts the human-readable reason from an error response.
// Fails the test if the error value is anything but a plain string.
func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, w)
	msg, ok := body["error"].(string)
	if !ok {
		t.Fatalf("error is not a plain message: %s", w.Body.String())
	}
	return msg
}
