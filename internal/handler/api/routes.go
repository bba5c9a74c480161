package api

import (
	"net/http"

	"github.com/facetworks/facet/internal/middleware"
	"github.com/facetworks/facet/internal/router"
)

// Handlers bundles everything route registration needs.
type Handlers struct {
	Coupons  *CouponHandler
	Orders   *OrderHandler
	Invoices *InvoiceHandler
}

// RegisterRoutes wires the API surface onto the router. Orders require a
// signed-in caller; invoices and order status changes are staff only.
func RegisterRoutes(r *router.Router, h Handlers) {
	r.Get("/health", handleHealth)

	r.Post("/coupons/validate", h.Coupons.ValidateCoupon)

	authed := r.Group(middleware.RequireUser)
	authed.Post("/orders", h.Orders.CreateOrder)
	authed.Get("/orders", h.Orders.ListOrders)
	authed.Get("/orders/{id}", h.Orders.GetOrder)

	staff := r.Group(middleware.RequireStaff)
	staff.Put("/orders/{id}/status", h.Orders.UpdateStatus)
	staff.Post("/invoices", h.Invoices.IssueInvoice)
	staff.Get("/invoices/{id}", h.Invoices.GetInvoice)
	staff.Put("/invoices/{id}/status", h.Invoices.UpdateStatus)
	staff.Post("/invoices/{id}/reminders", h.Invoices.SendReminder)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
