package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
)

type stubCanceller struct {
	cutoff    time.Time
	cancelled int
	err       error
	calls     int
}

func (s *stubCanceller) CancelStale(ctx context.Context, cutoff time.Time) (int, error) {
	s.calls++
	s.cutoff = cutoff
	return s.cancelled, s.err
}

func TestOrderReaperUsesPendingTTLCutoff(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	canceller := &stubCanceller{cancelled: 3}
	job, err := NewOrderReaperJob(OrderReaperJobParams{
		Logger:     logg,
		Orders:     canceller,
		PendingTTL: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}

	frozen := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	job.(*orderReaperJob).now = func() time.Time { return frozen }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if canceller.calls != 1 {
		t.Fatalf("expected one cancel sweep, got %d", canceller.calls)
	}
	want := frozen.Add(-24 * time.Hour)
	if !canceller.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, canceller.cutoff)
	}
}

func TestOrderReaperPropagatesErrors(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	canceller := &stubCanceller{err: errors.New("db down")}
	job, err := NewOrderReaperJob(OrderReaperJobParams{
		Logger:     logg,
		Orders:     canceller,
		PendingTTL: time.Hour,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error from failing sweep")
	}
}

func TestNewOrderReaperJobValidatesParams(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "cron-test"})
	if _, err := NewOrderReaperJob(OrderReaperJobParams{Logger: logg, Orders: &stubCanceller{}}); err == nil {
		t.Fatal("expected error for missing ttl")
	}
	if _, err := NewOrderReaperJob(OrderReaperJobParams{Logger: logg, PendingTTL: time.Hour}); err == nil {
		t.Fatal("expected error for missing orders service")
	}
}
