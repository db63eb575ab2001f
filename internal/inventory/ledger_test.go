package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aviral-workprojects/krishi-connect/pkg/db/models"
	pkgerrors "github.com/aviral-workprojects/krishi-connect/pkg/errors"
)

func setupLedgerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	crops := `
CREATE TABLE IF NOT EXISTS crops (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  quantity_kg NUMERIC(10,2) NOT NULL,
  price_per_kg NUMERIC(10,2) NOT NULL,
  location TEXT NOT NULL,
  farmer_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(crops).Error)
	return db
}

func newCrop(t *testing.T, db *gorm.DB, qty string) *models.Crop {
	t.Helper()

	crop := &models.Crop{
		ID:         uuid.New(),
		Name:       "Wheat",
		QuantityKg: decimal.RequireFromString(qty),
		PricePerKg: decimal.RequireFromString("25.00"),
		Location:   "Nashik",
		FarmerID:   uuid.New(),
	}
	require.NoError(t, db.Create(crop).Error)
	return crop
}

func cropQuantity(t *testing.T, db *gorm.DB, id uuid.UUID) decimal.Decimal {
	t.Helper()

	var crop models.Crop
	require.NoError(t, db.Where("id = ?", id).First(&crop).Error)
	return crop.QuantityKg
}

func TestSufficiencyCheckPassesWithinStock(t *testing.T) {
	db := setupLedgerTestDB(t)
	ledger := NewLedger(db)
	crop := newCrop(t, db, "10.00")

	err := ledger.SufficiencyCheck(context.Background(), crop.ID, decimal.RequireFromString("10.00"))
	require.NoError(t, err)
}

func TestSufficiencyCheckReportsShortfall(t *testing.T) {
	db := setupLedgerTestDB(t)
	ledger := NewLedger(db)
	crop := newCrop(t, db, "10.00")

	err := ledger.SufficiencyCheck(context.Background(), crop.ID, decimal.RequireFromString("10.01"))
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	require.Equal(t, "10.00", details["available_kg"])
}

func TestSufficiencyCheckUnknownCrop(t *testing.T) {
	db := setupLedgerTestDB(t)
	ledger := NewLedger(db)

	err := ledger.SufficiencyCheck(context.Background(), uuid.New(), decimal.RequireFromString("1.00"))
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDecrementConsumesStock(t *testing.T) {
	db := setupLedgerTestDB(t)
	ledger := NewLedger(db)
	crop := newCrop(t, db, "10.00")

	err := ledger.Decrement(context.Background(), nil, []DecrementRequest{
		{CropID: crop.ID, QuantityKg: decimal.RequireFromString("3.00")},
	})
	require.NoError(t, err)

	got := cropQuantity(t, db, crop.ID)
	require.True(t, got.Equal(decimal.RequireFromString("7.00")), "expected 7.00, got %s", got)
}

func TestDecrementRejectsOversell(t *testing.T) {
	db := setupLedgerTestDB(t)
	ledger := NewLedger(db)
	crop := newCrop(t, db, "10.00")

	err := ledger.Decrement(context.Background(), nil, []DecrementRequest{
		{CropID: crop.ID, QuantityKg: decimal.RequireFromString("11.00")},
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	got := cropQuantity(t, db, crop.ID)
	require.True(t, got.Equal(decimal.RequireFromString("10.00")), "stock must be untouched, got %s", got)
}

func TestDecrementExactlyDrainsStock(t *testing.T) {
	db := setupLedgerTestDB(t)
	ledger := NewLedger(db)
	crop := newCrop(t, db, "5.50")

	err := ledger.Decrement(context.Background(), nil, []DecrementRequest{
		{CropID: crop.ID, QuantityKg: decimal.RequireFromString("5.50")},
	})
	require.NoError(t, err)

	got := cropQuantity(t, db, crop.ID)
	require.True(t, got.IsZero(), "expected zero stock, got %s", got)
}

func TestDecrementRepeatedFractionsDrainExactly(t *testing.T) {
	db := setupLedgerTestDB(t)
	ledger := NewLedger(db)
	crop := newCrop(t, db, "1.00")

	quarter := decimal.RequireFromString("0.25")
	for i := 0; i < 4; i++ {
		err := ledger.Decrement(context.Background(), nil, []DecrementRequest{
			{CropID: crop.ID, QuantityKg: quarter},
		})
		require.NoError(t, err, "decrement %d", i+1)
	}

	got := cropQuantity(t, db, crop.ID)
	require.True(t, got.IsZero(), "four 0.25 decrements must drain 1.00 exactly, got %s", got)

	err := ledger.Decrement(context.Background(), nil, []DecrementRequest{
		{CropID: crop.ID, QuantityKg: quarter},
	})
	require.Error(t, err, "drained stock must reject further decrements")
}

func TestDecrementUnknownCrop(t *testing.T) {
	db := setupLedgerTestDB(t)
	ledger := NewLedger(db)

	err := ledger.Decrement(context.Background(), nil, []DecrementRequest{
		{CropID: uuid.New(), QuantityKg: decimal.RequireFromString("1.00")},
	})
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDecrementRejectsNonPositiveQuantity(t *testing.T) {
	db := setupLedgerTestDB(t)
	ledger := NewLedger(db)
	crop := newCrop(t, db, "10.00")

	err := ledger.Decrement(context.Background(), nil, []DecrementRequest{
		{CropID: crop.ID, QuantityKg: decimal.Zero},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
