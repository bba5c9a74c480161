package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/repository"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoiceDetailFixture() *domain.InvoiceDetail {
	return &domain.InvoiceDetail{
		Invoice: repository.Invoice{
			ID:            pgUUID("77777777-7777-7777-7777-777777777777"),
			UserID:        pgUUID("66666666-6666-6666-6666-666666666666"),
			InvoiceNumber: "INV-0042",
			Status:        string(domain.InvoiceDraft),
			PaymentStatus: string(domain.PaymentUnpaid),
			IssueDate:     pgtype.Date{Time: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), Valid: true},
			DueDate:       pgtype.Date{Time: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), Valid: true},
			SubtotalCents: 12500,
			TotalCents:    12500,
			Currency:      "USD",
		},
		Items: []repository.InvoiceItem{
			{Description: "Stone setting", Quantity: 1, UnitPriceCents: 7500, TotalPriceCents: 7500, SortOrder: 0},
			{Description: "Polishing", Quantity: 2, UnitPriceCents: 2500, TotalPriceCents: 5000, SortOrder: 1},
		},
		Customer: &repository.User{
			ID:        pgUUID("66666666-6666-6666-6666-666666666666"),
			Email:     "ruby@example.com",
			FirstName: pgtype.Text{String: "Ruby", Valid: true},
			LastName:  pgtype.Text{String: "Stone", Valid: true},
			Role:      "customer",
		},
	}
}

func validInvoiceBody() map[string]any {
	return map[string]any{
		"customer_id": "66666666-6666-6666-6666-666666666666",
		"items": []map[string]any{
			{"description": "Stone setting", "quantity": 1, "unit_price": "75.00"},
			{"description": "Polishing", "quantity": 2, "unit_price": "25.00"},
		},
		"due_date": "2025-07-15",
	}
}

func Test_IssueInvoice_RespondsOKWithInvoice(t *testing.T) {
	var gotParams domain.IssueInvoiceParams
	invoices := &stubInvoiceService{
		issueFn: func(_ context.Context, params domain.IssueInvoiceParams) (*domain.InvoiceDetail, error) {
			gotParams = params
			return invoiceDetailFixture(), nil
		},
	}
	r := newTestRouter(&stubCouponValidator{}, &stubOrderService{}, invoices)

	w := doJSON(t, r, http.MethodPost, "/invoices", validInvoiceBody(), staffUser())

	require.Equal(t, http.StatusOK, w.Code, "issuance responds 200 with the invoice, body: %s", w.Body.String())

	require.Len(t, gotParams.Items, 2)
	assert.Equal(t, int64(7500), gotParams.Items[0].UnitPriceCents, "unit prices reach the service in cents")
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), gotParams.DueDate)

	body := decodeBody(t, w)
	assert.Equal(t, "INV-0042", body["invoice_number"])
	assert.Equal(t, "draft", body["status"])
	assert.Equal(t, "unpaid", body["payment_status"])
	assert.Equal(t, "125", body["total"])
	assert.Equal(t, "2025-07-15", body["due_date"])

	customer, ok := body["customer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ruby Stone", customer["name"])
	assert.Equal(t, "ruby@example.com", customer["email"])
}

func Test_IssueInvoice_StaffOnly(t *testing.T) {
	r := newTestRouter(&stubCouponValidator{}, &stubOrderService{}, &stubInvoiceService{})

	w := doJSON(t, r, http.MethodPost, "/invoices", validInvoiceBody(), customerUser())
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Staff access required", errorMessage(t, w))

	w = doJSON(t, r, http.MethodPost, "/invoices", validInvoiceBody(), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func Test_IssueInvoice_RejectsBadRequests(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(body map[string]any)
	}{
		{
			name:   "no items",
			mutate: func(body map[string]any) { body["items"] = []map[string]any{} },
		},
		{
			name:   "missing customer",
			mutate: func(body map[string]any) { delete(body, "customer_id") },
		},
		{
			name:   "malformed due date",
			mutate: func(body map[string]any) { body["due_date"] = "July 15th" },
		},
		{
			name: "sub-cent unit price",
			mutate: func(body map[string]any) {
				body["items"] = []map[string]any{{"description": "Stone setting", "quantity": 1, "unit_price": "75.005"}}
			},
		},
		{
			name: "blank description",
			mutate: func(body map[string]any) {
				body["items"] = []map[string]any{{"description": "", "quantity": 1, "unit_price": "75.00"}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoices := &stubInvoiceService{
				issueFn: func(_ context.Context, _ domain.IssueInvoiceParams) (*domain.InvoiceDetail, error) {
					t.Fatal("service should not be reached for invalid requests")
					return nil, nil
				},
			}
			r := newTestRouter(&stubCouponValidator{}, &stubOrderService{}, invoices)

			body := validInvoiceBody()
			tt.mutate(body)
			w := doJSON(t, r, http.MethodPost, "/invoices", body, staffUser())

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, errorMessage(t, w))
		})
	}
}

func Test_GetInvoice_NotFound(t *testing.T) {
	invoices := &stubInvoiceService{
		getFn: func(_ context.Context, _ string) (*domain.InvoiceDetail, error) {
			return nil, domain.ErrInvoiceNotFound
		},
	}
	r := newTestRouter(&stubCouponValidator{}, &stubOrderService{}, invoices)

	w := doJSON(t, r, http.MethodGet, "/invoices/77777777-7777-7777-7777-777777777777", nil, staffUser())

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, domain.ErrorMessage(domain.ErrInvoiceNotFound), errorMessage(t, w))
}

func Test_UpdateInvoiceStatus_PartialUpdate(t *testing.T) {
	var gotParams domain.UpdateInvoiceStatusParams
	invoices := &stubInvoiceService{
		updateFn: func(_ context.Context, params domain.UpdateInvoiceStatusParams) (*domain.InvoiceDetail, error) {
			gotParams = params
			detail := invoiceDetailFixture()
			detail.Invoice.Status = string(domain.InvoiceSent)
			return detail, nil
		},
	}
	r := newTestRouter(&stubCouponValidator{}, &stubOrderService{}, invoices)

	w := doJSON(t, r, http.MethodPut, "/invoices/77777777-7777-7777-7777-777777777777/status", map[string]any{"status": "sent"}, staffUser())

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotParams.Status)
	assert.Equal(t, domain.InvoiceSent, *gotParams.Status)
	assert.Nil(t, gotParams.PaymentStatus, "omitted payment status stays untouched")
	assert.Nil(t, gotParams.PaymentDate)

	body := decodeBody(t, w)
	assert.Equal(t, "sent", body["status"])
}

func Test_UpdateInvoiceStatus_PaidWithExplicitDate(t *testing.T) {
	var gotParams domain.UpdateInvoiceStatusParams
	invoices := &stubInvoiceService{
		updateFn: func(_ context.Context, params domain.UpdateInvoiceStatusParams) (*domain.InvoiceDetail, error) {
			gotParams = params
			detail := invoiceDetailFixture()
			detail.Invoice.PaymentStatus = string(domain.PaymentPaid)
			detail.Invoice.PaymentDate = pgtype.Date{Time: *params.PaymentDate, Valid: true}
			return detail, nil
		},
	}
	r := newTestRouter(&stubCouponValidator{}, &stubOrderService{}, invoices)

	w := doJSON(t, r, http.MethodPut, "/invoices/77777777-7777-7777-7777-777777777777/status", map[string]any{
		"payment_status": "paid",
		"payment_date":   "2025-07-01",
	}, staffUser())

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotParams.PaymentDate)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), *gotParams.PaymentDate)

	body := decodeBody(t, w)
	assert.Equal(t, "paid", body["payment_status"])
	assert.Equal(t, "2025-07-01", body["payment_date"])
}

func Test_UpdateInvoiceStatus_MapsTransitionErrors(t *testing.T) {
	invoices := &stubInvoiceService{
		updateFn: func(_ context.Context, _ domain.UpdateInvoiceStatusParams) (*domain.InvoiceDetail, error) {
			return nil, domain.Conflict("service.invoice", "Cannot transition invoice from cancelled to sent")
		},
	}
	r := newTestRouter(&stubCouponValidator{}, &stubOrderService{}, invoices)

	w := doJSON(t, r, http.MethodPut, "/invoices/77777777-7777-7777-7777-777777777777/status", map[string]any{"status": "sent"}, staffUser())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Cannot transition invoice from cancelled to sent", errorMessage(t, w))
}

func Test_SendReminder_OK(t *testing.T) {
	var gotInvoiceID string
	invoices := &stubInvoiceService{
		reminderFn: func(_ context.Context, invoiceID string) (*domain.InvoiceDetail, error) {
			gotInvoiceID = invoiceID
			detail := invoiceDetailFixture()
			detail.Invoice.Status = string(domain.InvoiceSent)
			detail.Invoice.ReminderCount = 1
			return detail, nil
		},
	}
	r := newTestRouter(&stubCouponValidator{}, &stubOrderService{}, invoices)

	w := doJSON(t, r, http.MethodPost, "/invoices/77777777-7777-7777-7777-777777777777/reminders", nil, staffUser())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "77777777-7777-7777-7777-777777777777", gotInvoiceID)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["reminder_count"])
}

func Test_SendReminder_NotApplicable(t *testing.T) {
	invoices := &stubInvoiceService{
		reminderFn: func(_ context.Context, _ string) (*domain.InvoiceDetail, error) {
			return nil, domain.ErrReminderNotApplicable
		},
	}
	r := newTestRouter(&stubCouponValidator{}, &stubOrderService{}, invoices)

	w := doJSON(t, r, http.MethodPost, "/invoices/77777777-7777-7777-7777-777777777777/reminders", nil, staffUser())

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, domain.ErrorMessage(domain.ErrReminderNotApplicable), errorMessage(t, w))
}
