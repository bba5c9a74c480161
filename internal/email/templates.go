package email

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentReminderEmail represents a payment reminder for an open invoice.
type PaymentReminderEmail struct {
	InvoiceNumber string
	CustomerName  string
	CustomerEmail string
	DueDate       time.Time
	TotalCents    int64
	Overdue       bool
}

func (e PaymentReminderEmail) Subject() string {
	if e.Overdue {
		return "Payment Overdue - Invoice " + e.InvoiceNumber
	}
	return "Payment Reminder - Invoice " + e.InvoiceNumber
}

// Build renders the reminder as a sendable message.
func (e PaymentReminderEmail) Build() *Email {
	amount := decimal.NewFromInt(e.TotalCents).Shift(-2).StringFixed(2)

	name := e.CustomerName
	if name == "" {
		name = "Customer"
	}

	verb := "is due"
	if e.Overdue {
		verb = "was due"
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nThis is a reminder that invoice %s for $%s %s on %s.\n\nIf you have already sent payment, please disregard this notice.\n",
		name, e.InvoiceNumber, amount, verb, e.DueDate.Format("January 2, 2006"),
	)

	return &Email{
		To:       []string{e.CustomerEmail},
		Subject:  e.Subject(),
		TextBody: body,
	}
}
