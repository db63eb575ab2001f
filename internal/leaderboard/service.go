package leaderboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/aviral-workprojects/krishi-connect/pkg/errors"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Entry is one ranked leaderboard line as served to clients.
type Entry struct {
	Rank            int       `json:"rank"`
	FarmerID        uuid.UUID `json:"farmer_id"`
	FarmerName      string    `json:"farmer_name"`
	TotalSalesPaise int64     `json:"total_sales_paise"`
	PaidOrders      int64     `json:"paid_orders"`
}

// Service serves the farmer sales leaderboard.
type Service interface {
	TopFarmers(ctx context.Context, limit int) ([]Entry, error)
}

type service struct {
	repo Repository
}

// NewService builds the leaderboard service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("leaderboard repository required")
	}
	return &service{repo: repo}, nil
}

// TopFarmers ranks farmers by lifetime paid sales. A zero limit falls back to
// the default page size.
func (s *service) TopFarmers(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "limit cannot be negative")
	}
	if limit == 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	rows, err := s.repo.TopFarmers(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, Entry{
			Rank:            i + 1,
			FarmerID:        row.FarmerID,
			FarmerName:      row.FarmerName,
			TotalSalesPaise: row.TotalSalesPaise,
			PaidOrders:      row.PaidOrders,
		})
	}
	return entries, nil
}
