package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aviral-workprojects/krishi-connect/pkg/db/models"
	pkgerrors "github.com/aviral-workprojects/krishi-connect/pkg/errors"
)

// DecrementRequest asks the ledger to consume stock for one order line.
type DecrementRequest struct {
	CropID     uuid.UUID
	QuantityKg decimal.Decimal
}

// Ledger owns all stock mutations. Stock only ever moves through the
// conditional update below, so a crop's quantity can never go negative no
// matter how many payments verify concurrently.
type Ledger struct {
	db *gorm.DB
}

// NewLedger builds a ledger bound to the provided DB handle.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// SufficiencyCheck reads current stock and reports whether qty is available.
// It is advisory only; the race between this read and payment is closed by
// Decrement's guard, not here.
func (l *Ledger) SufficiencyCheck(ctx context.Context, cropID uuid.UUID, qty decimal.Decimal) error {
	var crop models.Crop
	err := l.db.WithContext(ctx).Where("id = ?", cropID).First(&crop).Error
	if err == gorm.ErrRecordNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("crop %s not found", cropID))
	}
	if err != nil {
		return err
	}
	if qty.GreaterThan(crop.QuantityKg) {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").WithDetails(map[string]any{
			"crop_id":      cropID.String(),
			"requested_kg": qty.String(),
			"available_kg": crop.QuantityKg.String(),
		})
	}
	return nil
}

// Decrement consumes stock for every request, or none of them. Each update is
// guarded by the current quantity, so a concurrent checkout that would
// oversell loses the race and gets an insufficient-stock error instead. Pass
// the transaction that finalizes the order so a rollback undoes partial
// decrements; a nil tx falls back to the ledger's own handle.
func (l *Ledger) Decrement(ctx context.Context, tx *gorm.DB, requests []DecrementRequest) error {
	dbh := l.db
	if tx != nil {
		dbh = tx
	}
	for _, req := range requests {
		if err := decrementOne(ctx, dbh, req); err != nil {
			return err
		}
	}
	return nil
}

func decrementOne(ctx context.Context, dbh *gorm.DB, req DecrementRequest) error {
	if req.CropID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "crop id required")
	}
	if !req.QuantityKg.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	res := dbh.WithContext(ctx).
		Model(&models.Crop{}).
		Where("id = ? AND quantity_kg >= ?", req.CropID, req.QuantityKg).
		Update("quantity_kg", gorm.Expr("quantity_kg - ?", req.QuantityKg))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return classifyMiss(ctx, dbh, req)
	}
	return nil
}

// classifyMiss distinguishes a missing crop from one that ran out of stock.
func classifyMiss(ctx context.Context, dbh *gorm.DB, req DecrementRequest) error {
	var crop models.Crop
	err := dbh.WithContext(ctx).Where("id = ?", req.CropID).First(&crop).Error
	if err == gorm.ErrRecordNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("crop %s not found", req.CropID))
	}
	if err != nil {
		return err
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").WithDetails(map[string]any{
		"crop_id":      req.CropID.String(),
		"requested_kg": req.QuantityKg.String(),
		"available_kg": crop.QuantityKg.String(),
	})
}
