package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
)

type staleOrderCanceller interface {
	CancelStale(ctx context.Context, cutoff time.Time) (int, error)
}

// OrderReaperJobParams configure the stale order reaper.
type OrderReaperJobParams struct {
	Logger     *logger.Logger
	Orders     staleOrderCanceller
	PendingTTL time.Duration
}

// NewOrderReaperJob builds the cron job that cancels orders stuck in
// `created` longer than the pending TTL. The buyer opened a gateway session
// but the callback never arrived, so the reserved checkout is abandoned.
func NewOrderReaperJob(params OrderReaperJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if params.PendingTTL <= 0 {
		return nil, fmt.Errorf("pending ttl must be positive")
	}
	return &orderReaperJob{
		logg:       params.Logger,
		orders:     params.Orders,
		pendingTTL: params.PendingTTL,
		now:        time.Now,
	}, nil
}

type orderReaperJob struct {
	logg       *logger.Logger
	orders     staleOrderCanceller
	pendingTTL time.Duration
	now        func() time.Time
}

func (j *orderReaperJob) Name() string { return "order-reaper" }

func (j *orderReaperJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.pendingTTL)
	cancelled, err := j.orders.CancelStale(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cancel stale orders: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": cancelled})
	j.logg.Info(logCtx, "stale order reap complete")
	return nil
}
