package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aviral-workprojects/krishi-connect/pkg/db/models"
	"github.com/aviral-workprojects/krishi-connect/pkg/enums"
	pkgerrors "github.com/aviral-workprojects/krishi-connect/pkg/errors"
)

var paiseFactor = decimal.NewFromInt(100)

type cropLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Crop, error)
}

type stockChecker interface {
	SufficiencyCheck(ctx context.Context, cropID uuid.UUID, qty decimal.Decimal) error
}

// Builder prices a checkout request into an unpersisted order. Prices are
// snapshotted from the crop rows at build time; line totals are computed in
// paise with round half away from zero and accumulated in request order.
// Stock sufficiency goes through the same ledger that later consumes stock,
// so reads and writes share one component.
type Builder struct {
	crops cropLoader
	stock stockChecker
}

// NewBuilder constructs the order builder.
func NewBuilder(crops cropLoader, stock stockChecker) (*Builder, error) {
	if crops == nil {
		return nil, fmt.Errorf("crop loader required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock checker required")
	}
	return &Builder{crops: crops, stock: stock}, nil
}

// Build validates and prices the request. The returned order carries its
// items, a generated id, and status `created`; nothing is persisted here.
func (b *Builder) Build(ctx context.Context, buyerID uuid.UUID, currency string, input CreateOrderInput) (*models.Order, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}

	cropCache := map[uuid.UUID]*models.Crop{}
	requested := map[uuid.UUID]decimal.Decimal{}

	order := &models.Order{
		ID:       uuid.New(),
		BuyerID:  buyerID,
		Currency: currency,
		Status:   enums.OrderStatusCreated,
	}

	var amountPaise int64
	for i, line := range input.Items {
		if line.CropID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: crop id required", i))
		}
		if !line.QuantityKg.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: quantity must be positive", i))
		}
		// Quantities are stored as NUMERIC(10,2); finer scale would silently
		// desync the stored row from its line total.
		if !line.QuantityKg.Equal(line.QuantityKg.Round(2)) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: quantity supports at most two decimal places", i))
		}

		crop, err := b.loadCrop(ctx, line.CropID, cropCache)
		if err != nil {
			return nil, err
		}

		total := requested[crop.ID].Add(line.QuantityKg)
		requested[crop.ID] = total
		if err := b.stock.SufficiencyCheck(ctx, crop.ID, total); err != nil {
			return nil, err
		}

		if order.FarmerID == uuid.Nil {
			order.FarmerID = crop.FarmerID
		} else if order.FarmerID != crop.FarmerID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "all items must belong to a single farmer")
		}

		lineTotal := line.QuantityKg.Mul(crop.PricePerKg).Mul(paiseFactor).Round(0).IntPart()
		amountPaise += lineTotal

		order.Items = append(order.Items, models.OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			CropID:         crop.ID,
			QuantityKg:     line.QuantityKg,
			PricePerKg:     crop.PricePerKg,
			LineTotalPaise: lineTotal,
		})
	}

	if amountPaise <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order amount must be positive")
	}
	order.AmountPaise = amountPaise
	return order, nil
}

func (b *Builder) loadCrop(ctx context.Context, id uuid.UUID, cache map[uuid.UUID]*models.Crop) (*models.Crop, error) {
	if crop, ok := cache[id]; ok {
		return crop, nil
	}
	crop, err := b.crops.FindByID(ctx, id)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("crop %s not found", id))
	}
	if err != nil {
		return nil, err
	}
	cache[id] = crop
	return crop, nil
}
