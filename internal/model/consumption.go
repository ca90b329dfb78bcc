package model

import "time"

// ConsumptionType classifies a water consumption reading.
type ConsumptionType string

const (
	ConsumptionNormal ConsumptionType = "normal"
	ConsumptionExcess ConsumptionType = "excess"
)

// Valid reports whether t is a known consumption type.
func (t ConsumptionType) Valid() bool {
	return t == ConsumptionNormal || t == ConsumptionExcess
}

// ConsumptionRecord is a create-only consumption event for a client.
type ConsumptionRecord struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID   int64           `gorm:"not null;index" json:"clientId"`
	Type       ConsumptionType `gorm:"column:consumption_type;size:16;not null;default:normal;check:chk_consumption_type,consumption_type IN ('normal','excess')" json:"type"`
	RecordedAt time.Time       `gorm:"not null;index" json:"recordedAt"`
	Notes      string          `gorm:"size:500" json:"notes"`
	CreatedAt  time.Time       `gorm:"not null" json:"createdAt"`

	// Associations
	Client Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

// TableName keeps the historical table name of the consumption log.
func (ConsumptionRecord) TableName() string {
	return "water_consumption"
}
