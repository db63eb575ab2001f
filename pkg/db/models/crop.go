package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Crop is a farmer's listing. QuantityKg is the live stock figure and is the
// one field concurrent checkouts contend for; it is only ever reduced through
// the inventory ledger's conditional update and never goes negative.
type Crop struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string          `gorm:"column:name;not null"`
	QuantityKg decimal.Decimal `gorm:"column:quantity_kg;type:numeric(10,2);not null"`
	PricePerKg decimal.Decimal `gorm:"column:price_per_kg;type:numeric(10,2);not null"`
	Location   string          `gorm:"column:location;not null"`
	FarmerID   uuid.UUID       `gorm:"column:farmer_id;type:uuid;not null;index"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
