package crops

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aviral-workprojects/krishi-connect/pkg/db/models"
	pkgerrors "github.com/aviral-workprojects/krishi-connect/pkg/errors"
)

// Service exposes the catalog operations for farmers and buyers.
type Service interface {
	Create(ctx context.Context, farmerID uuid.UUID, input CropInput) (*CropDTO, error)
	Update(ctx context.Context, farmerID, cropID uuid.UUID, input CropInput) (*CropDTO, error)
	Delete(ctx context.Context, farmerID, cropID uuid.UUID) error
	Get(ctx context.Context, cropID uuid.UUID) (*CropDTO, error)
	ListMine(ctx context.Context, farmerID uuid.UUID) ([]CropDTO, error)
	Browse(ctx context.Context, filters BrowseFilters) ([]CropDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds the crops service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("crops repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, farmerID uuid.UUID, input CropInput) (*CropDTO, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer id required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	crop := &models.Crop{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(input.Name),
		QuantityKg: input.QuantityKg,
		PricePerKg: input.PricePerKg,
		Location:   strings.TrimSpace(input.Location),
		FarmerID:   farmerID,
	}
	created, err := s.repo.Create(ctx, crop)
	if err != nil {
		return nil, err
	}
	return toDTO(created), nil
}

func (s *service) Update(ctx context.Context, farmerID, cropID uuid.UUID, input CropInput) (*CropDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	crop, err := s.loadOwned(ctx, farmerID, cropID)
	if err != nil {
		return nil, err
	}

	crop.Name = strings.TrimSpace(input.Name)
	crop.QuantityKg = input.QuantityKg
	crop.PricePerKg = input.PricePerKg
	crop.Location = strings.TrimSpace(input.Location)

	updated, err := s.repo.Update(ctx, crop)
	if err != nil {
		return nil, err
	}
	return toDTO(updated), nil
}

func (s *service) Delete(ctx context.Context, farmerID, cropID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, farmerID, cropID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, cropID)
}

func (s *service) Get(ctx context.Context, cropID uuid.UUID) (*CropDTO, error) {
	crop, err := s.repo.FindByID(ctx, cropID)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "crop not found")
	}
	if err != nil {
		return nil, err
	}
	return toDTO(crop), nil
}

func (s *service) ListMine(ctx context.Context, farmerID uuid.UUID) ([]CropDTO, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer id required")
	}
	rows, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	return toDTOs(rows), nil
}

func (s *service) Browse(ctx context.Context, filters BrowseFilters) ([]CropDTO, error) {
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MinPrice.GreaterThan(*filters.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_price cannot exceed max_price")
	}
	rows, err := s.repo.Browse(ctx, filters)
	if err != nil {
		return nil, err
	}
	return toDTOs(rows), nil
}

func (s *service) loadOwned(ctx context.Context, farmerID, cropID uuid.UUID) (*models.Crop, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer id required")
	}
	if cropID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "crop id required")
	}
	crop, err := s.repo.FindByID(ctx, cropID)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "crop not found")
	}
	if err != nil {
		return nil, err
	}
	if crop.FarmerID != farmerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "crop belongs to another farmer")
	}
	return crop, nil
}

func validateInput(input CropInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "crop name required")
	}
	if strings.TrimSpace(input.Location) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "crop location required")
	}
	if input.QuantityKg.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}
	if !input.PricePerKg.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price per kg must be positive")
	}
	return nil
}
