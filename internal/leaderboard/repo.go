package leaderboard

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aviral-workprojects/krishi-connect/pkg/enums"
)

// Row is one aggregated leaderboard line straight from the database.
type Row struct {
	FarmerID        uuid.UUID `gorm:"column:farmer_id"`
	FarmerName      string    `gorm:"column:farmer_name"`
	TotalSalesPaise int64     `gorm:"column:total_sales_paise"`
	PaidOrders      int64     `gorm:"column:paid_orders"`
}

// Repository reads the sales aggregation.
type Repository interface {
	TopFarmers(ctx context.Context, limit int) ([]Row, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a leaderboard repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// TopFarmers sums paid order amounts per farmer, best sellers first. Ties
// break on farmer id so the ordering is stable across requests.
func (r *repository) TopFarmers(ctx context.Context, limit int) ([]Row, error) {
	var rows []Row
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.farmer_id AS farmer_id, users.name AS farmer_name, SUM(orders.amount_paise) AS total_sales_paise, COUNT(orders.id) AS paid_orders").
		Joins("JOIN users ON users.id = orders.farmer_id").
		Where("orders.status = ?", enums.OrderStatusPaid).
		Group("orders.farmer_id, users.name").
		Order("total_sales_paise DESC, farmer_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
