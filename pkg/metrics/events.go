package metrics

import "github.com/prometheus/client_golang/prometheus"

// EventMetrics counts outbound domain event publishes by topic and outcome.
type EventMetrics struct {
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewEventMetrics registers the event publish metrics on the provided registerer.
func NewEventMetrics(reg prometheus.Registerer) *EventMetrics {
	if reg == nil {
		return &EventMetrics{}
	}
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Domain events successfully handed to the broker.",
	}, []string{"topic", "event"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "events_publish_failures_total",
		Help: "Domain event publishes that returned an error.",
	}, []string{"topic", "event"})
	reg.MustRegister(published, failed)
	return &EventMetrics{published: published, failed: failed}
}

// IncPublished increments the published counter for a topic/event pair.
func (e *EventMetrics) IncPublished(topic, event string) {
	if e == nil || e.published == nil {
		return
	}
	e.published.WithLabelValues(normalizeLabel(topic), normalizeLabel(event)).Inc()
}

// IncFailed increments the failure counter for a topic/event pair.
func (e *EventMetrics) IncFailed(topic, event string) {
	if e == nil || e.failed == nil {
		return
	}
	e.failed.WithLabelValues(normalizeLabel(topic), normalizeLabel(event)).Inc()
}
