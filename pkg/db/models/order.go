package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aviral-workprojects/krishi-connect/pkg/enums"
)

// Order is the money-bearing aggregate. AmountPaise always equals the sum of
// its items' line totals. GatewayOrderID correlates the row to the remote
// payment session and is assigned before the row is persisted; payment id and
// signature are only populated by the verification transition.
type Order struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID          uuid.UUID         `gorm:"column:buyer_id;type:uuid;not null;index"`
	FarmerID         uuid.UUID         `gorm:"column:farmer_id;type:uuid;not null;index"`
	AmountPaise      int64             `gorm:"column:amount_paise;not null"`
	Currency         string            `gorm:"column:currency;not null;default:'INR'"`
	Status           enums.OrderStatus `gorm:"column:status;type:text;not null;default:'created'"`
	GatewayOrderID   string            `gorm:"column:gateway_order_id;not null;uniqueIndex"`
	GatewayPaymentID *string           `gorm:"column:gateway_payment_id"`
	GatewaySignature *string           `gorm:"column:gateway_signature"`
	Items            []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
