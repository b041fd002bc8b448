package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentSuccess  PaymentStatus = "Success"
	PaymentRefunded PaymentStatus = "Refunded"
)

// Payment is one ledger row. Refunds are separate rows with a negated amount.
type Payment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status    PaymentStatus   `gorm:"size:20;not null;index" json:"status"`
	Reference string          `gorm:"size:20;uniqueIndex;not null" json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreatePaymentInput struct {
	OrderId uint            `json:"order_id" validate:"required,gt=0"`
	Amount  decimal.Decimal `json:"amount"`
}

type CreateRefundInput struct {
	OrderId uint `json:"order_id" validate:"required,gt=0"`
}

// PaymentRecord is what a successful pay call hands back.
type PaymentRecord struct {
	PaymentID   uint            `json:"payment_id"`
	OrderID     uint            `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      PaymentStatus   `json:"status"`
	Reference   string          `json:"reference"`
	OrderStatus Status          `json:"order_status"`
	TableNumber int             `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type RefundRecord struct {
	PaymentID    uint            `json:"payment_id"`
	OrderID      uint            `json:"order_id"`
	RefundAmount decimal.Decimal `json:"refund_amount"`
	Status       PaymentStatus   `json:"status"`
	Reference    string          `json:"reference"`
	TableNumber  int             `json:"-"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
