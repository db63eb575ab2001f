package events

import (
	"time"

	"github.com/google/uuid"
)

// Event names carried in the message attributes.
const (
	EventOrderCreated       = "order.created"
	EventOrderPaid          = "order.paid"
	EventLeaderboardUpdated = "leaderboard.updated"
)

// OrderCreated is emitted after an order and its payment session are persisted.
type OrderCreated struct {
	OrderID        uuid.UUID `json:"order_id"`
	GatewayOrderID string    `json:"gateway_order_id"`
	BuyerID        uuid.UUID `json:"buyer_id"`
	FarmerID       uuid.UUID `json:"farmer_id"`
	AmountPaise    int64     `json:"amount_paise"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// OrderPaid is emitted after a payment callback verifies and stock is decremented.
type OrderPaid struct {
	OrderID        uuid.UUID `json:"order_id"`
	GatewayOrderID string    `json:"gateway_order_id"`
	BuyerID        uuid.UUID `json:"buyer_id"`
	FarmerID       uuid.UUID `json:"farmer_id"`
	AmountPaise    int64     `json:"amount_paise"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// LeaderboardUpdated nudges downstream consumers to recompute rankings.
type LeaderboardUpdated struct {
	FarmerID   uuid.UUID `json:"farmer_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
