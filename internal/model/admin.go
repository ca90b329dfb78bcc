package model

import "time"

// AdminCredentialID is the primary key of the single credential row.
const AdminCredentialID int64 = 1

// AdminCredential holds the shared clerk PIN as a bcrypt hash.
type AdminCredential struct {
	ID        int64     `gorm:"primaryKey"`
	PinHash   string    `gorm:"size:128;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the credential table name.
func (AdminCredential) TableName() string {
	return "admins"
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Client{},
		&Payment{},
		&ConsumptionRecord{},
		&AdminCredential{},
	}
}
