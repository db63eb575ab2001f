package crops

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aviral-workprojects/krishi-connect/pkg/db/models"
)

// CropInput carries the fields a farmer submits when listing or updating a crop.
type CropInput struct {
	Name       string          `json:"name" validate:"required,min=2,max=120"`
	QuantityKg decimal.Decimal `json:"quantity_kg" validate:"required"`
	PricePerKg decimal.Decimal `json:"price_per_kg" validate:"required"`
	Location   string          `json:"location" validate:"required,min=2,max=120"`
}

// BrowseFilters describe the supported filter knobs for the buyer browse endpoint.
type BrowseFilters struct {
	Query    string           `json:"q,omitempty"`
	Location string           `json:"location,omitempty"`
	MinPrice *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice *decimal.Decimal `json:"max_price,omitempty"`
}

// CropDTO is the read model returned to clients.
type CropDTO struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	QuantityKg decimal.Decimal `json:"quantity_kg"`
	PricePerKg decimal.Decimal `json:"price_per_kg"`
	Location   string          `json:"location"`
	FarmerID   uuid.UUID       `json:"farmer_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toDTO(m *models.Crop) *CropDTO {
	if m == nil {
		return nil
	}
	return &CropDTO{
		ID:         m.ID,
		Name:       m.Name,
		QuantityKg: m.QuantityKg,
		PricePerKg: m.PricePerKg,
		Location:   m.Location,
		FarmerID:   m.FarmerID,
		CreatedAt:  m.CreatedAt,
	}
}

func toDTOs(rows []models.Crop) []CropDTO {
	out := make([]CropDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toDTO(&rows[i]))
	}
	return out
}
