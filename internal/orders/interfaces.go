package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aviral-workprojects/krishi-connect/pkg/db/models"
	"github.com/aviral-workprojects/krishi-connect/pkg/enums"
)

// Repository defines persistence operations for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
	// FinalizeFromCreated moves the order out of `created` and applies updates
	// in the same statement. The target must be an edge the transition table
	// permits. It reports false when the order had already left `created`,
	// which makes replayed callbacks harmless.
	FinalizeFromCreated(ctx context.Context, orderID uuid.UUID, target enums.OrderStatus, updates map[string]any) (bool, error)
}
