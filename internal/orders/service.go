package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/aviral-workprojects/krishi-connect/internal/events"
	"github.com/aviral-workprojects/krishi-connect/internal/inventory"
	"github.com/aviral-workprojects/krishi-connect/pkg/db/models"
	"github.com/aviral-workprojects/krishi-connect/pkg/enums"
	pkgerrors "github.com/aviral-workprojects/krishi-connect/pkg/errors"
	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
	"github.com/aviral-workprojects/krishi-connect/pkg/razorpay"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type paymentGateway interface {
	CreateOrder(ctx context.Context, params razorpay.CreateOrderParams) (*razorpay.OrderSession, error)
}

type signatureVerifier interface {
	Verify(gatewayOrderID, paymentID, signature string) bool
}

type stockLedger interface {
	Decrement(ctx context.Context, tx *gorm.DB, requests []inventory.DecrementRequest) error
}

type eventEmitter interface {
	OrderCreated(ctx context.Context, event events.OrderCreated)
	OrderPaid(ctx context.Context, event events.OrderPaid)
	LeaderboardUpdated(ctx context.Context, event events.LeaderboardUpdated)
}

// Service executes checkout, payment verification, and order reads.
type Service interface {
	Create(ctx context.Context, buyerID uuid.UUID, input CreateOrderInput) (*CreateOrderResult, error)
	Verify(ctx context.Context, buyerID uuid.UUID, input VerifyInput) (*OrderDTO, error)
	MyOrders(ctx context.Context, buyerID uuid.UUID) ([]OrderDTO, error)
	CancelStale(ctx context.Context, cutoff time.Time) (int, error)
}

type service struct {
	tx       txRunner
	repo     Repository
	builder  *Builder
	ledger   stockLedger
	gateway  paymentGateway
	verifier signatureVerifier
	emitter  eventEmitter
	logg     *logger.Logger
	currency string
}

// NewService builds the orders service.
func NewService(
	tx txRunner,
	repo Repository,
	builder *Builder,
	ledger stockLedger,
	gateway paymentGateway,
	verifier signatureVerifier,
	emitter eventEmitter,
	logg *logger.Logger,
	currency string,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if builder == nil {
		return nil, fmt.Errorf("order builder required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("signature verifier required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(currency) == "" {
		currency = "INR"
	}
	return &service{
		tx:       tx,
		repo:     repo,
		builder:  builder,
		ledger:   ledger,
		gateway:  gateway,
		verifier: verifier,
		emitter:  emitter,
		logg:     logg,
		currency: currency,
	}, nil
}

// Create prices the cart, opens a gateway session, and persists the order with
// its items in one transaction. The gateway call happens first; when it fails
// nothing is written, and the session is never retried here because a
// duplicate session would be visible on the buyer's statement.
func (s *service) Create(ctx context.Context, buyerID uuid.UUID, input CreateOrderInput) (*CreateOrderResult, error) {
	order, err := s.builder.Build(ctx, buyerID, s.currency, input)
	if err != nil {
		return nil, err
	}

	session, err := s.gateway.CreateOrder(ctx, razorpay.CreateOrderParams{
		AmountPaise: order.AmountPaise,
		Currency:    order.Currency,
		Receipt:     order.ID.String(),
		Notes: map[string]interface{}{
			"buyer_id": order.BuyerID.String(),
		},
	})
	if err != nil {
		return nil, err
	}
	order.GatewayOrderID = session.GatewayOrderID

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateOrder(ctx, order)
		return err
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "order created")

	s.emitter.OrderCreated(ctx, events.OrderCreated{
		OrderID:        order.ID,
		GatewayOrderID: order.GatewayOrderID,
		BuyerID:        order.BuyerID,
		FarmerID:       order.FarmerID,
		AmountPaise:    order.AmountPaise,
		OccurredAt:     time.Now().UTC(),
	})

	return &CreateOrderResult{
		OrderID:        order.ID,
		GatewayOrderID: order.GatewayOrderID,
		AmountPaise:    order.AmountPaise,
		Currency:       order.Currency,
	}, nil
}

// Verify finalizes an order from its gateway callback. An authentic signature
// moves the order to `paid` and decrements stock in the same transaction; a
// forged one records the attempt as `failed`. Either way the order leaves
// `created` at most once.
func (s *service) Verify(ctx context.Context, buyerID uuid.UUID, input VerifyInput) (*OrderDTO, error) {
	if strings.TrimSpace(input.GatewayOrderID) == "" ||
		strings.TrimSpace(input.GatewayPaymentID) == "" ||
		strings.TrimSpace(input.GatewaySignature) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway_order_id, gateway_payment_id and gateway_signature are required")
	}

	order, err := s.repo.FindByGatewayOrderID(ctx, input.GatewayOrderID)
	if err == gorm.ErrRecordNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if err != nil {
		return nil, err
	}
	if buyerID != uuid.Nil && order.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if order.Status != enums.OrderStatusCreated {
		return nil, pkgerrors.New(pkgerrors.CodeAlreadyFinalized, "order already finalized").WithDetails(map[string]any{
			"status": string(order.Status),
		})
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())

	if !s.verifier.Verify(input.GatewayOrderID, input.GatewayPaymentID, input.GatewaySignature) {
		if err := s.markFailed(ctx, order.ID, input); err != nil {
			return nil, err
		}
		s.logg.Warn(ctx, "payment signature mismatch")
		return nil, pkgerrors.New(pkgerrors.CodeSignatureMismatch, "payment signature mismatch")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		moved, err := s.repo.WithTx(tx).FinalizeFromCreated(ctx, order.ID, enums.OrderStatusPaid, map[string]any{
			"gateway_payment_id": input.GatewayPaymentID,
			"gateway_signature":  input.GatewaySignature,
		})
		if err != nil {
			return err
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeAlreadyFinalized, "order already finalized")
		}
		return s.ledger.Decrement(ctx, tx, decrementRequests(order.Items))
	})
	if err != nil {
		typed := pkgerrors.As(err)
		if typed != nil && typed.Code() == pkgerrors.CodeInsufficientStock {
			// The stock sold out between order creation and payment. The
			// paid transition rolled back; record the attempt as failed
			// rather than clamping inventory.
			if ferr := s.markFailed(ctx, order.ID, input); ferr != nil {
				return nil, ferr
			}
			s.logg.Warn(ctx, "payment verified but stock exhausted; order failed")
		}
		return nil, err
	}

	s.logg.Info(ctx, "order paid")

	now := time.Now().UTC()
	s.emitter.OrderPaid(ctx, events.OrderPaid{
		OrderID:        order.ID,
		GatewayOrderID: order.GatewayOrderID,
		BuyerID:        order.BuyerID,
		FarmerID:       order.FarmerID,
		AmountPaise:    order.AmountPaise,
		OccurredAt:     now,
	})
	s.emitter.LeaderboardUpdated(ctx, events.LeaderboardUpdated{
		FarmerID:   order.FarmerID,
		OccurredAt: now,
	})

	final, err := s.repo.FindByID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return toDTO(final), nil
}

// MyOrders returns the buyer's orders with items, newest first.
func (s *service) MyOrders(ctx context.Context, buyerID uuid.UUID) ([]OrderDTO, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer id required")
	}
	rows, err := s.repo.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	return toDTOs(rows), nil
}

// CancelStale cancels `created` orders older than the cutoff through the same
// transition table the callbacks use. Orders finalized mid-scan are skipped.
func (s *service) CancelStale(ctx context.Context, cutoff time.Time) (int, error) {
	rows, err := s.repo.FindPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	var errs error
	cancelled := 0
	for _, order := range rows {
		moved, err := s.repo.FinalizeFromCreated(ctx, order.ID, enums.OrderStatusCancelled, nil)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("cancel order %s: %w", order.ID, err))
			continue
		}
		if moved {
			cancelled++
		}
	}
	return cancelled, errs
}

func (s *service) markFailed(ctx context.Context, orderID uuid.UUID, input VerifyInput) error {
	moved, err := s.repo.FinalizeFromCreated(ctx, orderID, enums.OrderStatusFailed, map[string]any{
		"gateway_payment_id": input.GatewayPaymentID,
		"gateway_signature":  input.GatewaySignature,
	})
	if err != nil {
		return err
	}
	if !moved {
		return pkgerrors.New(pkgerrors.CodeAlreadyFinalized, "order already finalized")
	}
	return nil
}

func decrementRequests(items []models.OrderItem) []inventory.DecrementRequest {
	out := make([]inventory.DecrementRequest, 0, len(items))
	for _, item := range items {
		out = append(out, inventory.DecrementRequest{
			CropID:     item.CropID,
			QuantityKg: item.QuantityKg,
		})
	}
	return out
}
