package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aviral-workprojects/krishi-connect/pkg/db/models"
	"github.com/aviral-workprojects/krishi-connect/pkg/enums"
)

// OrderItemInput is one requested cart line.
type OrderItemInput struct {
	CropID     uuid.UUID       `json:"crop_id" validate:"required"`
	QuantityKg decimal.Decimal `json:"quantity_kg" validate:"required"`
}

// CreateOrderInput is the checkout request body.
type CreateOrderInput struct {
	Items []OrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// VerifyInput is the payment callback forwarded by the client after the
// gateway's hosted checkout completes.
type VerifyInput struct {
	GatewayOrderID   string `json:"gateway_order_id" validate:"required"`
	GatewayPaymentID string `json:"gateway_payment_id" validate:"required"`
	GatewaySignature string `json:"gateway_signature" validate:"required"`
}

// CreateOrderResult is returned to the buyer so the client can open the
// gateway checkout for the session.
type CreateOrderResult struct {
	OrderID        uuid.UUID `json:"order_id"`
	GatewayOrderID string    `json:"gateway_order_id"`
	AmountPaise    int64     `json:"amount_paise"`
	Currency       string    `json:"currency"`
}

// OrderItemDTO is the read model for one priced line.
type OrderItemDTO struct {
	CropID         uuid.UUID       `json:"crop_id"`
	QuantityKg     decimal.Decimal `json:"quantity_kg"`
	PricePerKg     decimal.Decimal `json:"price_per_kg"`
	LineTotalPaise int64           `json:"line_total_paise"`
}

// OrderDTO is the read model for a buyer's order.
type OrderDTO struct {
	ID             uuid.UUID         `json:"id"`
	Status         enums.OrderStatus `json:"status"`
	AmountPaise    int64             `json:"amount_paise"`
	Currency       string            `json:"currency"`
	GatewayOrderID string            `json:"gateway_order_id"`
	Items          []OrderItemDTO    `json:"items"`
	CreatedAt      time.Time         `json:"created_at"`
}

func toDTO(m *models.Order) *OrderDTO {
	if m == nil {
		return nil
	}
	items := make([]OrderItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, OrderItemDTO{
			CropID:         item.CropID,
			QuantityKg:     item.QuantityKg,
			PricePerKg:     item.PricePerKg,
			LineTotalPaise: item.LineTotalPaise,
		})
	}
	return &OrderDTO{
		ID:             m.ID,
		Status:         m.Status,
		AmountPaise:    m.AmountPaise,
		Currency:       m.Currency,
		GatewayOrderID: m.GatewayOrderID,
		Items:          items,
		CreatedAt:      m.CreatedAt,
	}
}

func toDTOs(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out
}
