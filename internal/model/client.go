package model

import "time"

// ClientStatus is the administrative state of a client account.
type ClientStatus string

const (
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
)

// Valid reports whether s is a known client status.
func (s ClientStatus) Valid() bool {
	return s == ClientActive || s == ClientInactive
}

// Client represents a water-service account holder.
type Client struct {
	ID        int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string       `gorm:"size:100;not null;index" json:"name"`
	Address   string       `gorm:"size:200;not null" json:"address"`
	Status    ClientStatus `gorm:"size:16;not null;default:active;check:chk_clients_status,status IN ('active','inactive')" json:"status"`
	CreatedAt time.Time    `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"not null" json:"updatedAt"`
}
