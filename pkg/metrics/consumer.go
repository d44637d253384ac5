package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ConsumerMetrics records metadata for background event consumers.
type ConsumerMetrics struct {
	duration *prometheus.HistogramVec
	handled  *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewConsumerMetrics registers the consumer metrics on the provided registerer.
func NewConsumerMetrics(reg prometheus.Registerer) *ConsumerMetrics {
	if reg == nil {
		return &ConsumerMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "consumer_handle_duration_seconds",
		Help:    "Duration of event handling in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"consumer"})
	handled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_events_handled",
		Help: "Events handled successfully.",
	}, []string{"consumer"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "consumer_events_failed",
		Help: "Events that failed handling.",
	}, []string{"consumer"})
	reg.MustRegister(duration, handled, failed)
	return &ConsumerMetrics{
		duration: duration,
		handled:  handled,
		failed:   failed,
	}
}

// ObserveDuration records how long handling one event took.
func (c *ConsumerMetrics) ObserveDuration(consumer string, elapsed time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(consumer)).Observe(elapsed.Seconds())
}

// IncHandled increments the handled counter for the named consumer.
func (c *ConsumerMetrics) IncHandled(consumer string) {
	if c == nil || c.handled == nil {
		return
	}
	c.handled.WithLabelValues(normalizeLabel(consumer)).Inc()
}

// IncFailed increments the failure counter for the named consumer.
func (c *ConsumerMetrics) IncFailed(consumer string) {
	if c == nil || c.failed == nil {
		return
	}
	c.failed.WithLabelValues(normalizeLabel(consumer)).Inc()
}
