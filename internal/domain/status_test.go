package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_TransitionOrder(t *testing.T) {
	tests := []struct {
		name     string
		from     OrderStatus
		to       OrderStatus
		wantCode string
	}{
		{name: "pending to processing", from: OrderPending, to: OrderProcessing},
		{name: "pending to cancelled", from: OrderPending, to: OrderCancelled},
		{name: "processing to shipped", from: OrderProcessing, to: OrderShipped},
		{name: "shipped to delivered", from: OrderShipped, to: OrderDelivered},
		{name: "no skipping to shipped", from: OrderPending, to: OrderShipped, wantCode: ECONFLICT},
		{name: "no moving backwards", from: OrderShipped, to: OrderProcessing, wantCode: ECONFLICT},
		{name: "delivered is terminal", from: OrderDelivered, to: OrderCancelled, wantCode: ECONFLICT},
		{name: "cancelled is terminal", from: OrderCancelled, to: OrderPending, wantCode: ECONFLICT},
		{name: "unknown target status", from: OrderPending, to: OrderStatus("archived"), wantCode: EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TransitionOrder(tt.from, tt.to)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, ErrorCode(err))
			}
		})
	}
}

func Test_TransitionInvoice(t *testing.T) {
	tests := []struct {
		name     string
		from     InvoiceStatus
		to       InvoiceStatus
		wantCode string
	}{
		{name: "draft to sent", from: InvoiceDraft, to: InvoiceSent},
		{name: "draft to cancelled", from: InvoiceDraft, to: InvoiceCancelled},
		{name: "sent to overdue", from: InvoiceSent, to: InvoiceOverdue},
		{name: "sent to cancelled", from: InvoiceSent, to: InvoiceCancelled},
		{name: "no unsending", from: InvoiceSent, to: InvoiceDraft, wantCode: ECONFLICT},
		{name: "draft cannot go overdue", from: InvoiceDraft, to: InvoiceOverdue, wantCode: ECONFLICT},
		{name: "overdue is terminal", from: InvoiceOverdue, to: InvoiceSent, wantCode: ECONFLICT},
		{name: "cancelled is terminal", from: InvoiceCancelled, to: InvoiceSent, wantCode: ECONFLICT},
		{name: "unknown target status", from: InvoiceDraft, to: InvoiceStatus("void"), wantCode: EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TransitionInvoice(tt.from, tt.to)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, ErrorCode(err))
			}
		})
	}
}

func Test_TransitionPayment(t *testing.T) {
	tests := []struct {
		name     string
		from     PaymentStatus
		to       PaymentStatus
		wantCode string
	}{
		{name: "unpaid to partial", from: PaymentUnpaid, to: PaymentPartial},
		{name: "unpaid to paid", from: PaymentUnpaid, to: PaymentPaid},
		{name: "partial to paid", from: PaymentPartial, to: PaymentPaid},
		{name: "paid never reverts to unpaid", from: PaymentPaid, to: PaymentUnpaid, wantCode: ECONFLICT},
		{name: "paid never reverts to partial", from: PaymentPaid, to: PaymentPartial, wantCode: ECONFLICT},
		{name: "partial cannot go back", from: PaymentPartial, to: PaymentUnpaid, wantCode: ECONFLICT},
		{name: "unknown target status", from: PaymentUnpaid, to: PaymentStatus("refunded"), wantCode: EINVALID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TransitionPayment(tt.from, tt.to)
			if tt.wantCode == "" {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, ErrorCode(err))
			}
		})
	}
}

func Test_InvoiceIsOverdue(t *testing.T) {
	due := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		status      InvoiceStatus
		payment     PaymentStatus
		now         time.Time
		want        bool
		explanation string
	}{
		{
			name:        "day after due date",
			status:      InvoiceSent,
			payment:     PaymentUnpaid,
			now:         time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC),
			want:        true,
			explanation: "a sent unpaid invoice past its due date is overdue",
		},
		{
			name:        "due date itself is not overdue",
			status:      InvoiceSent,
			payment:     PaymentUnpaid,
			now:         time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC),
			want:        false,
			explanation: "the invoice is payable through the end of the due day",
		},
		{
			name:        "last second of due day",
			status:      InvoiceSent,
			payment:     PaymentUnpaid,
			now:         time.Date(2025, 6, 15, 23, 59, 59, 0, time.UTC),
			want:        false,
			explanation: "end of day is inclusive",
		},
		{
			name:        "partial payment does not protect",
			status:      InvoiceSent,
			payment:     PaymentPartial,
			now:         time.Date(2025, 6, 16, 8, 0, 0, 0, time.UTC),
			want:        true,
			explanation: "only full payment stops the overdue promotion",
		},
		{
			name:        "paid invoice never goes overdue",
			status:      InvoiceSent,
			payment:     PaymentPaid,
			now:         time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			want:        false,
			explanation: "payment settles the document regardless of age",
		},
		{
			name:        "draft invoice never goes overdue",
			status:      InvoiceDraft,
			payment:     PaymentUnpaid,
			now:         time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			want:        false,
			explanation: "only sent invoices age into overdue",
		},
		{
			name:        "cancelled invoice never goes overdue",
			status:      InvoiceCancelled,
			payment:     PaymentUnpaid,
			now:         time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			want:        false,
			explanation: "cancellation ends the document lifecycle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InvoiceIsOverdue(tt.status, tt.payment, due, tt.now)
			assert.Equal(t, tt.want, got, tt.explanation)
		})
	}
}
