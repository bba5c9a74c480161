package domain

import "time"

// OrderStatus is the fulfillment lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// orderTransitions is the allowed from-state -> to-states table.
// Delivered and cancelled are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered, OrderCancelled},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

// ValidOrderStatus reports whether s is a known order status value.
func ValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransitionOrder reports whether an order may move from one status to another.
func CanTransitionOrder(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionOrder validates a status change and returns a typed error on violation.
func TransitionOrder(from, to OrderStatus) error {
	if !ValidOrderStatus(to) {
		return Errorf(EINVALID, "order.status", "unknown order status: %s", to)
	}
	if !CanTransitionOrder(from, to) {
		return Errorf(ECONFLICT, "order.status", "cannot transition order from %s to %s", from, to)
	}
	return nil
}

// InvoiceStatus is the document lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:     {InvoiceSent, InvoiceCancelled},
	InvoiceSent:      {InvoiceOverdue, InvoiceCancelled},
	InvoiceOverdue:   {},
	InvoiceCancelled: {},
}

// ValidInvoiceStatus reports whether s is a known invoice status value.
func ValidInvoiceStatus(s InvoiceStatus) bool {
	_, ok := invoiceTransitions[s]
	return ok
}

// CanTransitionInvoice reports whether an invoice may move from one status to another.
func CanTransitionInvoice(from, to InvoiceStatus) bool {
	for _, next := range invoiceTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionInvoice validates a status change and returns a typed error on violation.
func TransitionInvoice(from, to InvoiceStatus) error {
	if !ValidInvoiceStatus(to) {
		return Errorf(EINVALID, "invoice.status", "unknown invoice status: %s", to)
	}
	if !CanTransitionInvoice(from, to) {
		return Errorf(ECONFLICT, "invoice.status", "cannot transition invoice from %s to %s", from, to)
	}
	return nil
}

// InvoiceIsOverdue reports whether a sent, unpaid invoice has passed its due
// date. Overdue is time-derived: callers promote sent -> overdue either on
// read or via the scheduled sweep.
func InvoiceIsOverdue(status InvoiceStatus, paymentStatus PaymentStatus, dueDate time.Time, now time.Time) bool {
	if status != InvoiceSent {
		return false
	}
	if paymentStatus == PaymentPaid {
		return false
	}
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 23, 59, 59, 0, dueDate.Location())
	return now.After(due)
}

// PaymentStatus is the payment lifecycle state of an invoice, independent of
// the document status.
type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// Once paid, nothing removes a recorded payment.
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentUnpaid:  {PaymentPartial, PaymentPaid},
	PaymentPartial: {PaymentPaid},
	PaymentPaid:    {},
}

// ValidPaymentStatus reports whether s is a known payment status value.
func ValidPaymentStatus(s PaymentStatus) bool {
	_, ok := paymentTransitions[s]
	return ok
}

// CanTransitionPayment reports whether payment status may move from one state to another.
func CanTransitionPayment(from, to PaymentStatus) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionPayment validates a payment status change and returns a typed error on violation.
func TransitionPayment(from, to PaymentStatus) error {
	if !ValidPaymentStatus(to) {
		return Errorf(EINVALID, "invoice.payment", "unknown payment status: %s", to)
	}
	if !CanTransitionPayment(from, to) {
		return Errorf(ECONFLICT, "invoice.payment", "cannot transition payment from %s to %s", from, to)
	}
	return nil
}
