package store

import (
	"time"

	"github.com/shopspring/decimal"

	"water-billing-backend/internal/model"
)

// ClientUpdate carries the editable fields of a client.
type ClientUpdate struct {
	Name    string
	Address string
	Status  model.ClientStatus
}

// NewPayment describes a payment to record. A zero PaymentDate means now.
type NewPayment struct {
	ClientID    int64
	Amount      decimal.Decimal
	Status      model.PaymentStatus
	Notes       string
	PaymentDate time.Time
}

// NewConsumption describes a consumption reading. A zero RecordedAt means now.
type NewConsumption struct {
	ClientID   int64
	Type       model.ConsumptionType
	Notes      string
	RecordedAt time.Time
}

// PaymentWithClient is a payment joined with its owner's name and address.
type PaymentWithClient struct {
	model.Payment
	ClientName    string `json:"clientName"`
	ClientAddress string `json:"clientAddress"`
}

// ClientWithStatus is a client joined with its latest payment status and
// latest consumption type.
type ClientWithStatus struct {
	ID              int64                 `json:"id"`
	Name            string                `json:"name"`
	Address         string                `json:"address"`
	Status          model.ClientStatus    `json:"status"`
	PaymentStatus   model.PaymentStatus   `json:"paymentStatus"`
	ConsumptionType model.ConsumptionType `json:"consumptionType"`
}

// Statistics are the dashboard counters.
type Statistics struct {
	ActiveClients     int64 `json:"active_clients"`
	ClientsWithDebt   int64 `json:"clients_with_debt"`
	PaymentsThisMonth int64 `json:"payments_this_month"`
	ExcessConsumption int64 `json:"excess_consumption"`
}

// MonthlyTotal aggregates the paid payments of one calendar month.
type MonthlyTotal struct {
	Month        string          `json:"month"` // YYYY-MM
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PaymentCount int64           `json:"paymentCount"`
}

// StatusSummary splits active clients by whether they owe a payment.
type StatusSummary struct {
	Paid    int64 `json:"paid"`
	Pending int64 `json:"pending"`
}

// ClientReport gathers everything exported for a single client.
type ClientReport struct {
	Client        model.Client              `json:"client"`
	Payments      []model.Payment           `json:"payments"`
	Consumption   []model.ConsumptionRecord `json:"consumption"`
	TotalPaid     decimal.Decimal           `json:"totalPaid"`
	ExcessRecords int                       `json:"excessRecords"`
}
