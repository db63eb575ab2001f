package crops

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aviral-workprojects/krishi-connect/pkg/db/models"
)

func setupCropsTestDB(t *testing.T) *gorm.DB {
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

func seedCrop(t *testing.T, db *gorm.DB, name, location, price string, farmerID uuid.UUID, created time.Time) *models.Crop {
	t.Helper()

	crop := &models.Crop{
		ID:         uuid.New(),
		Name:       name,
		QuantityKg: decimal.RequireFromString("100.00"),
		PricePerKg: decimal.RequireFromString(price),
		Location:   location,
		FarmerID:   farmerID,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	require.NoError(t, db.Create(crop).Error)
	return crop
}

func TestBrowseFiltersByNameAndLocation(t *testing.T) {
	db := setupCropsTestDB(t)
	repo := NewRepository(db)
	farmer := uuid.New()
	now := time.Now()

	seedCrop(t, db, "Basmati Rice", "Karnal", "60.00", farmer, now.Add(-2*time.Hour))
	seedCrop(t, db, "Wheat", "Karnal", "25.00", farmer, now.Add(-1*time.Hour))
	seedCrop(t, db, "Rice Bran", "Nashik", "18.00", farmer, now)

	rows, err := repo.Browse(context.Background(), BrowseFilters{Query: "rice"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	rows, err = repo.Browse(context.Background(), BrowseFilters{Query: "rice", Location: "karnal"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Basmati Rice", rows[0].Name)
}

func TestBrowseFiltersByPriceRange(t *testing.T) {
	db := setupCropsTestDB(t)
	repo := NewRepository(db)
	farmer := uuid.New()
	now := time.Now()

	seedCrop(t, db, "Wheat", "Karnal", "25.00", farmer, now.Add(-2*time.Hour))
	seedCrop(t, db, "Rice", "Karnal", "60.00", farmer, now.Add(-1*time.Hour))
	seedCrop(t, db, "Onion", "Nashik", "18.00", farmer, now)

	min := decimal.RequireFromString("20.00")
	max := decimal.RequireFromString("30.00")
	rows, err := repo.Browse(context.Background(), BrowseFilters{MinPrice: &min, MaxPrice: &max})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Wheat", rows[0].Name)
}

func TestBrowseOrdersNewestFirst(t *testing.T) {
	db := setupCropsTestDB(t)
	repo := NewRepository(db)
	farmer := uuid.New()
	now := time.Now()

	seedCrop(t, db, "Old", "Karnal", "10.00", farmer, now.Add(-time.Hour))
	seedCrop(t, db, "New", "Karnal", "10.00", farmer, now)

	rows, err := repo.Browse(context.Background(), BrowseFilters{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "New", rows[0].Name)
}

func TestListByFarmerScopesRows(t *testing.T) {
	db := setupCropsTestDB(t)
	repo := NewRepository(db)
	mine := uuid.New()
	other := uuid.New()
	now := time.Now()

	seedCrop(t, db, "Wheat", "Karnal", "25.00", mine, now)
	seedCrop(t, db, "Rice", "Karnal", "60.00", other, now)

	rows, err := repo.ListByFarmer(context.Background(), mine)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Wheat", rows[0].Name)
}
