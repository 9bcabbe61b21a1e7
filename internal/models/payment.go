package models

import "github.com/shopspring/decimal"

// PaymentStatus is the outcome state of a payment record.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// DefaultCurrency is used when a payment request names none.
const DefaultCurrency = "ZAR"

// Payment represents a recorded financial transaction and its distribution.
type Payment struct {
	// ID is the unique identifier for the payment (UUID format).
	ID string

	// UserID is the paying user.
	UserID string

	Amount   decimal.Decimal
	Currency string

	// TransactionID is the gateway reference. Unique per logical transaction.
	TransactionID string

	Status PaymentStatus

	// CreatedAt is the Unix timestamp when the payment was recorded.
	CreatedAt int64

	// Distribution shares. AIUpgrade + ReserveFund + OwnerRevenue == Amount.
	AIUpgrade    decimal.Decimal
	ReserveFund  decimal.Decimal
	OwnerRevenue decimal.Decimal

	// DistributedAt is the Unix timestamp when the shares were assigned.
	DistributedAt int64
}

// DashboardStats aggregates revenue and project counts for the admin dashboard.
type DashboardStats struct {
	TotalRevenue   decimal.Decimal
	MonthlyRevenue decimal.Decimal
	TotalProjects  int64
	ActiveProjects int64
}
