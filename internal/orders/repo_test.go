package orders

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
	"github.com/aviral-workprojects/krishi-connect/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL,
  farmer_id TEXT NOT NULL,
  amount_paise INTEGER NOT NULL,
  currency TEXT NOT NULL DEFAULT 'INR',
  status TEXT NOT NULL DEFAULT 'created',
  gateway_order_id TEXT NOT NULL UNIQUE,
  gateway_payment_id TEXT,
  gateway_signature TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)

	items := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  crop_id TEXT NOT NULL,
  quantity_kg NUMERIC(10,2) NOT NULL,
  price_per_kg NUMERIC(10,2) NOT NULL,
  line_total_paise INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(items).Error)
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, buyerID uuid.UUID, gatewayOrderID string, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()

	orderID := uuid.New()
	order := &models.Order{
		ID:             orderID,
		BuyerID:        buyerID,
		FarmerID:       uuid.New(),
		AmountPaise:    7500,
		Currency:       "INR",
		Status:         status,
		GatewayOrderID: gatewayOrderID,
		CreatedAt:      createdAt,
		Items: []models.OrderItem{{
			ID:             uuid.New(),
			OrderID:        orderID,
			CropID:         uuid.New(),
			QuantityKg:     decimal.RequireFromString("3.00"),
			PricePerKg:     decimal.RequireFromString("25.00"),
			LineTotalPaise: 7500,
		}},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestFinalizeFromCreatedMovesExactlyOnce(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, uuid.New(), "order_rzp_1", enums.OrderStatusCreated, time.Now())

	moved, err := repo.FinalizeFromCreated(ctx, order.ID, enums.OrderStatusPaid, map[string]any{
		"gateway_payment_id": "pay_1",
		"gateway_signature":  "sig_1",
	})
	require.NoError(t, err)
	require.True(t, moved)

	again, err := repo.FinalizeFromCreated(ctx, order.ID, enums.OrderStatusCancelled, nil)
	require.NoError(t, err)
	require.False(t, again, "a finalized order must not move again")

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusPaid, got.Status)
	require.NotNil(t, got.GatewayPaymentID)
	require.Equal(t, "pay_1", *got.GatewayPaymentID)
}

func TestFinalizeFromCreatedRejectsEdgesOutsideTable(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, uuid.New(), "order_rzp_edge", enums.OrderStatusCreated, time.Now())

	moved, err := repo.FinalizeFromCreated(ctx, order.ID, enums.OrderStatus("refunded"), nil)
	require.Error(t, err)
	require.False(t, moved)

	moved, err = repo.FinalizeFromCreated(ctx, order.ID, enums.OrderStatusCreated, nil)
	require.Error(t, err, "created -> created is not an edge")
	require.False(t, moved)

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusCreated, got.Status, "rejected targets must leave the row untouched")
}

func TestFinalizeFromCreatedIgnoresTerminalRows(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, uuid.New(), "order_rzp_2", enums.OrderStatusFailed, time.Now())

	moved, err := repo.FinalizeFromCreated(ctx, order.ID, enums.OrderStatusPaid, nil)
	require.NoError(t, err)
	require.False(t, moved)

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, enums.OrderStatusFailed, got.Status)
}

func TestFindByGatewayOrderIDLoadsItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, db, uuid.New(), "order_rzp_3", enums.OrderStatusCreated, time.Now())

	got, err := repo.FindByGatewayOrderID(ctx, "order_rzp_3")
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)
	require.Len(t, got.Items, 1)
	require.Equal(t, int64(7500), got.Items[0].LineTotalPaise)

	_, err = repo.FindByGatewayOrderID(ctx, "order_missing")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByBuyerNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	buyer := uuid.New()

	older := seedOrder(t, db, buyer, "order_rzp_old", enums.OrderStatusPaid, time.Now().Add(-2*time.Hour))
	newer := seedOrder(t, db, buyer, "order_rzp_new", enums.OrderStatusCreated, time.Now())
	seedOrder(t, db, uuid.New(), "order_rzp_other", enums.OrderStatusCreated, time.Now())

	rows, err := repo.ListByBuyer(ctx, buyer)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, newer.ID, rows[0].ID)
	require.Equal(t, older.ID, rows[1].ID)
	require.Len(t, rows[0].Items, 1)
}

func TestFindPendingBeforeSelectsOnlyStaleCreated(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	stale := seedOrder(t, db, uuid.New(), "order_rzp_stale", enums.OrderStatusCreated, time.Now().Add(-time.Hour))
	seedOrder(t, db, uuid.New(), "order_rzp_fresh", enums.OrderStatusCreated, time.Now())
	seedOrder(t, db, uuid.New(), "order_rzp_paid", enums.OrderStatusPaid, time.Now().Add(-time.Hour))

	rows, err := repo.FindPendingBefore(ctx, time.Now().Add(-30*time.Minute))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, stale.ID, rows[0].ID)
}
