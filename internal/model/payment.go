package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tells whether a payment was settled.
type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"

	// PaymentNone marks a client without any payment in derived views.
	// It is never persisted.
	PaymentNone PaymentStatus = "no_payments"
)

// Valid reports whether s can be stored on a payment.
func (s PaymentStatus) Valid() bool {
	return s == PaymentPaid || s == PaymentPending
}

// MaxPaymentAmount is the largest amount a single payment may carry.
var MaxPaymentAmount = decimal.RequireFromString("999999.99")

// Payment is a single billing payment owned by a client.
type Payment struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID    int64           `gorm:"not null;index" json:"clientId"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_payments_amount,amount > 0 AND amount <= 999999.99" json:"amount"`
	PaymentDate time.Time       `gorm:"not null;index" json:"paymentDate"`
	Status      PaymentStatus   `gorm:"size:16;not null;default:paid;check:chk_payments_status,status IN ('paid','pending')" json:"status"`
	Notes       string          `gorm:"size:500" json:"notes"`
	CreatedAt   time.Time       `gorm:"not null" json:"createdAt"`

	// Associations
	Client Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
}
