package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/facetworks/facet/internal/domain"
	"github.com/facetworks/facet/internal/pricing"
	"github.com/facetworks/facet/internal/telemetry"
	"github.com/shopspring/decimal"
)

// dateLayout is the wire format for invoice dates.
const dateLayout = "2006-01-02"

// InvoiceHandler serves invoice issuance and lifecycle. All routes are staff
// only; route registration applies the guard.
type InvoiceHandler struct {
	invoices domain.InvoiceService
	logger   *slog.Logger
	metrics  *telemetry.Metrics
}

// NewInvoiceHandler creates an invoice handler.
func NewInvoiceHandler(invoices domain.InvoiceService, logger *slog.Logger, metrics *telemetry.Metrics) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: invoices,
		logger:   logger,
		metrics:  metrics,
	}
}

type invoiceItemRequest struct {
	Description string          `json:"description" validate:"required"`
	Quantity    int32           `json:"quantity" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"required"`
}

type issueInvoiceRequest struct {
	CustomerID    string               `json:"customer_id" validate:"required,uuid"`
	Items         []invoiceItemRequest `json:"items" validate:"required,min=1,dive"`
	DueDate       string               `json:"due_date" validate:"required"`
	Notes         string               `json:"notes,omitempty"`
	InternalNotes string               `json:"internal_notes,omitempty"`
}

type updateInvoiceStatusRequest struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
	PaymentDate   *string `json:"payment_date,omitempty"`
}

type invoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type invoiceCustomerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type invoiceResponse struct {
	ID            string                   `json:"id"`
	InvoiceNumber string                   `json:"invoice_number"`
	Status        string                   `json:"status"`
	PaymentStatus string                   `json:"payment_status"`
	PaymentDate   string                   `json:"payment_date,omitempty"`
	IssueDate     string                   `json:"issue_date"`
	DueDate       string                   `json:"due_date"`
	Subtotal      decimal.Decimal          `json:"subtotal"`
	Total         decimal.Decimal          `json:"total"`
	Currency      string                   `json:"currency"`
	Notes         string                   `json:"notes,omitempty"`
	InternalNotes string                   `json:"internal_notes,omitempty"`
	ReminderCount int32                    `json:"reminder_count"`
	CreatedAt     time.Time                `json:"created_at"`
	Items         []invoiceItemResponse    `json:"items"`
	Customer      *invoiceCustomerResponse `json:"customer,omitempty"`
}

// IssueInvoice handles POST /invoices. Line totals and the invoice total are
// computed server-side; the invoice number comes from the shared counter.
func (h *InvoiceHandler) IssueInvoice(w http.ResponseWriter, r *http.Request) {
	var req issueInvoiceRequest
	if err := decodeRequest(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		respondError(w, r, domain.Invalid("api.invoice", "due_date must be a YYYY-MM-DD date"))
		return
	}

	items := make([]domain.InvoiceItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		unitCents, err := pricing.CentsFromDecimal(item.UnitPrice)
		if err != nil {
			respondError(w, r, err)
			return
		}
		items = append(items, domain.InvoiceItemInput{
			Description:    item.Description,
			Quantity:       item.Quantity,
			UnitPriceCents: unitCents,
		})
	}

	detail, err := h.invoices.IssueInvoice(r.Context(), domain.IssueInvoiceParams{
		CustomerID:    req.CustomerID,
		Items:         items,
		DueDate:       dueDate,
		Notes:         req.Notes,
		InternalNotes: req.InternalNotes,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.metrics.InvoicesIssued.Inc()
	writeJSON(w, http.StatusOK, newInvoiceResponse(detail))
}

// GetInvoice handles GET /invoices/{id}.
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	detail, err := h.invoices.GetInvoice(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newInvoiceResponse(detail))
}

// UpdateStatus handles PUT /invoices/{id}/status. Status and payment status
// move independently; omitted fields are left untouched.
func (h *InvoiceHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateInvoiceStatusRequest
	if err := decodeRequest(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	params := domain.UpdateInvoiceStatusParams{
		InvoiceID: r.PathValue("id"),
	}
	if req.Status != nil {
		status := domain.InvoiceStatus(*req.Status)
		params.Status = &status
	}
	if req.PaymentStatus != nil {
		payment := domain.PaymentStatus(*req.PaymentStatus)
		params.PaymentStatus = &payment
	}
	if req.PaymentDate != nil {
		paymentDate, err := time.Parse(dateLayout, *req.PaymentDate)
		if err != nil {
			respondError(w, r, domain.Invalid("api.invoice", "payment_date must be a YYYY-MM-DD date"))
			return
		}
		params.PaymentDate = &paymentDate
	}

	detail, err := h.invoices.UpdateStatus(r.Context(), params)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newInvoiceResponse(detail))
}

// SendReminder handles POST /invoices/{id}/reminders.
func (h *InvoiceHandler) SendReminder(w http.ResponseWriter, r *http.Request) {
	detail, err := h.invoices.SendReminder(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.metrics.RemindersSent.Inc()
	writeJSON(w, http.StatusOK, newInvoiceResponse(detail))
}

func newInvoiceResponse(detail *domain.InvoiceDetail) invoiceResponse {
	inv := detail.Invoice

	resp := invoiceResponse{
		ID:            idString(inv.ID),
		InvoiceNumber: inv.InvoiceNumber,
		Status:        inv.Status,
		PaymentStatus: inv.PaymentStatus,
		Subtotal:      pricing.DecimalFromCents(inv.SubtotalCents),
		Total:         pricing.DecimalFromCents(inv.TotalCents),
		Currency:      inv.Currency,
		Notes:         inv.Notes.String,
		InternalNotes: inv.InternalNotes.String,
		ReminderCount: inv.ReminderCount,
		CreatedAt:     inv.CreatedAt.Time,
		Items:         make([]invoiceItemResponse, 0, len(detail.Items)),
	}

	if inv.PaymentDate.Valid {
		resp.PaymentDate = inv.PaymentDate.Time.Format(dateLayout)
	}
	if inv.IssueDate.Valid {
		resp.IssueDate = inv.IssueDate.Time.Format(dateLayout)
	}
	if inv.DueDate.Valid {
		resp.DueDate = inv.DueDate.Time.Format(dateLayout)
	}

	for _, item := range detail.Items {
		resp.Items = append(resp.Items, invoiceItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   pricing.DecimalFromCents(item.UnitPriceCents),
			TotalPrice:  pricing.DecimalFromCents(item.TotalPriceCents),
		})
	}

	if detail.Customer != nil {
		name := detail.Customer.FirstName.String
		if detail.Customer.LastName.Valid {
			if name != "" {
				name += " "
			}
			name += detail.Customer.LastName.String
		}
		resp.Customer = &invoiceCustomerResponse{
			ID:    idString(detail.Customer.ID),
			Name:  name,
			Email: detail.Customer.Email,
		}
	}
	return resp
}
