package crops

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aviral-workprojects/krishi-connect/pkg/db/models"
)

// Repository defines persistence operations for crop listings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, crop *models.Crop) (*models.Crop, error)
	Update(ctx context.Context, crop *models.Crop) (*models.Crop, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Crop, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Crop, error)
	Browse(ctx context.Context, filters BrowseFilters) ([]models.Crop, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a crops repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, crop *models.Crop) (*models.Crop, error) {
	if err := r.db.WithContext(ctx).Create(crop).Error; err != nil {
		return nil, err
	}
	return crop, nil
}

func (r *repository) Update(ctx context.Context, crop *models.Crop) (*models.Crop, error) {
	if err := r.db.WithContext(ctx).Save(crop).Error; err != nil {
		return nil, err
	}
	return crop, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Crop{}).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Crop, error) {
	var crop models.Crop
	if err := r.db.WithContext(ctx).First(&crop, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &crop, nil
}

func (r *repository) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]models.Crop, error) {
	var rows []models.Crop
	err := r.db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Browse(ctx context.Context, filters BrowseFilters) ([]models.Crop, error) {
	qb := r.db.WithContext(ctx).Model(&models.Crop{})

	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := fmt.Sprintf("%%%s%%", strings.ToLower(q))
		qb = qb.Where("LOWER(name) LIKE ?", pattern)
	}
	if loc := strings.TrimSpace(filters.Location); loc != "" {
		pattern := fmt.Sprintf("%%%s%%", strings.ToLower(loc))
		qb = qb.Where("LOWER(location) LIKE ?", pattern)
	}
	if filters.MinPrice != nil {
		qb = qb.Where("price_per_kg >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		qb = qb.Where("price_per_kg <= ?", *filters.MaxPrice)
	}

	var rows []models.Crop
	if err := qb.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
