package events

import (
	"context"
	"encoding/json"
	"fmt"

	pubsubv2 "cloud.google.com/go/pubsub/v2"

	"github.com/aviral-workprojects/krishi-connect/pkg/logger"
	"github.com/aviral-workprojects/krishi-connect/pkg/metrics"
	"github.com/aviral-workprojects/krishi-connect/pkg/pubsub"
)

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type topicPublisher interface {
	Publish(ctx context.Context, msg *pubsubv2.Message) publishResult
}

type gcpPublisher struct {
	p *pubsubv2.Publisher
}

func (g gcpPublisher) Publish(ctx context.Context, msg *pubsubv2.Message) publishResult {
	return g.p.Publish(ctx, msg)
}

// Publisher emits domain events without ever blocking or failing the caller.
// Broker errors are logged and counted; order processing does not depend on
// delivery.
type Publisher struct {
	orders      topicPublisher
	leaderboard topicPublisher
	logg        *logger.Logger
	metrics     *metrics.EventMetrics
}

// NewPublisher wires the publisher to the configured Pub/Sub topics.
func NewPublisher(client *pubsub.Client, logg *logger.Logger, em *metrics.EventMetrics) (*Publisher, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Publisher{
		orders:      gcpPublisher{p: client.OrdersPublisher()},
		leaderboard: gcpPublisher{p: client.LeaderboardPublisher()},
		logg:        logg,
		metrics:     em,
	}, nil
}

// OrderCreated emits the order lifecycle event for a freshly created order.
func (p *Publisher) OrderCreated(ctx context.Context, event OrderCreated) {
	p.emit(ctx, p.orders, "orders", EventOrderCreated, event)
}

// OrderPaid emits the order lifecycle event for a verified payment.
func (p *Publisher) OrderPaid(ctx context.Context, event OrderPaid) {
	p.emit(ctx, p.orders, "orders", EventOrderPaid, event)
}

// LeaderboardUpdated emits the leaderboard refresh nudge.
func (p *Publisher) LeaderboardUpdated(ctx context.Context, event LeaderboardUpdated) {
	p.emit(ctx, p.leaderboard, "leaderboard", EventLeaderboardUpdated, event)
}

func (p *Publisher) emit(ctx context.Context, topic topicPublisher, topicLabel, name string, payload any) {
	if p == nil || topic == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logg.Error(ctx, fmt.Sprintf("marshal %s event", name), err)
		p.metrics.IncFailed(topicLabel, name)
		return
	}

	result := topic.Publish(ctx, &pubsubv2.Message{
		Data:       data,
		Attributes: map[string]string{"event": name},
	})

	// Detach from the request context so an HTTP cancellation does not
	// abandon an in-flight publish.
	go func(ctx context.Context) {
		if _, err := result.Get(ctx); err != nil {
			p.logg.Error(ctx, fmt.Sprintf("publish %s event", name), err)
			p.metrics.IncFailed(topicLabel, name)
			return
		}
		p.metrics.IncPublished(topicLabel, name)
	}(context.WithoutCancel(ctx))
}
