package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem snapshots one priced cart line. PricePerKg is copied from the crop
// at order-creation time so later price edits cannot change a pending total.
// Rows are created together with their order and never mutated afterwards.
type OrderItem struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	CropID         uuid.UUID       `gorm:"column:crop_id;type:uuid;not null"`
	QuantityKg     decimal.Decimal `gorm:"column:quantity_kg;type:numeric(10,2);not null"`
	PricePerKg     decimal.Decimal `gorm:"column:price_per_kg;type:numeric(10,2);not null"`
	LineTotalPaise int64           `gorm:"column:line_total_paise;not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
