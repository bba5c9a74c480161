package repository

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID        pgtype.UUID
	Email     string
	FirstName pgtype.Text
	LastName  pgtype.Text
	Role      string
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type Session struct {
	Token     string
	UserID    pgtype.UUID
	ExpiresAt pgtype.Timestamptz
	CreatedAt pgtype.Timestamptz
}

type Address struct {
	ID         pgtype.UUID
	UserID     pgtype.UUID
	FullName   string
	Line1      string
	Line2      pgtype.Text
	City       string
	Region     pgtype.Text
	PostalCode string
	Country    string
	CreatedAt  pgtype.Timestamptz
}

type Product struct {
	ID          pgtype.UUID
	Name        string
	Description pgtype.Text
	PriceCents  int64
	Currency    string
	Active      bool
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type Coupon struct {
	ID            pgtype.UUID
	Code          string
	Description   pgtype.Text
	Kind          string
	Value         pgtype.Numeric
	ValidFrom     pgtype.Timestamptz
	ValidUntil    pgtype.Timestamptz
	UsageLimit    pgtype.Int4
	UsedCount     int32
	MinOrderCents pgtype.Int8
	Active        bool
	CreatedAt     pgtype.Timestamptz
	UpdatedAt     pgtype.Timestamptz
}

type Order struct {
	ID                pgtype.UUID
	UserID            pgtype.UUID
	OrderNumber       string
	Status            string
	SubtotalCents     int64
	TaxCents          int64
	ShippingCents     int64
	TotalCents        int64
	Currency          string
	PaymentMethod     string
	ShippingMethod    string
	CouponID          pgtype.UUID
	BillingAddressID  pgtype.UUID
	ShippingAddressID pgtype.UUID
	Notes             pgtype.Text
	CreatedAt         pgtype.Timestamptz
	UpdatedAt         pgtype.Timestamptz
}

type OrderItem struct {
	ID              pgtype.UUID
	OrderID         pgtype.UUID
	ProductID       pgtype.UUID
	ProductName     string
	Quantity        int32
	UnitPriceCents  int64
	TotalPriceCents int64
	Notes           pgtype.Text
}

type Invoice struct {
	ID             pgtype.UUID
	UserID         pgtype.UUID
	InvoiceNumber  string
	Status         string
	PaymentStatus  string
	PaymentDate    pgtype.Date
	IssueDate      pgtype.Date
	DueDate        pgtype.Date
	SubtotalCents  int64
	TotalCents     int64
	Currency       string
	Notes          pgtype.Text
	InternalNotes  pgtype.Text
	ReminderCount  int32
	LastReminderAt pgtype.Timestamptz
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

type InvoiceItem struct {
	ID              pgtype.UUID
	InvoiceID       pgtype.UUID
	Description     string
	Quantity        int32
	UnitPriceCents  int64
	TotalPriceCents int64
	SortOrder       int32
}

type CompanySettings struct {
	ID                int32
	InvoicePrefix     string
	NextInvoiceNumber int64
	UpdatedAt         pgtype.Timestamptz
}

type AuditLog struct {
	ID         pgtype.UUID
	ActorID    pgtype.UUID
	Action     string
	EntityType string
	EntityID   pgtype.Text
	Details    []byte
	IPAddress  pgtype.Text
	UserAgent  pgtype.Text
	CreatedAt  pgtype.Timestamptz
}
