package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"webhookhub/internal/application/dto"
	portsout "webhookhub/internal/application/ports/out"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
	// unknownEventType labels dispatches that reached no subscriber. The
	// event type comes from the request body, so only names bound to a
	// subscriber are trusted as label values.
	unknownEventType = "unknown"
)

// MetricsRecorder exposes dispatch outcomes as Prometheus series.
type MetricsRecorder struct {
	// Dispatches counts dispatches by event type and final state.
	Dispatches *prometheus.CounterVec
	// Deliveries counts delivery attempts by event type and result.
	Deliveries *prometheus.CounterVec
	// DeliveryDuration observes per-attempt latency.
	DeliveryDuration *prometheus.HistogramVec
	// DispatchDuration observes end-to-end fan-out latency.
	DispatchDuration *prometheus.HistogramVec
}

var _ portsout.DispatchOutcomeRecorder = (*MetricsRecorder)(nil)

func NewMetricsRecorder(registerer prometheus.Registerer) *MetricsRecorder {
	factory := promauto.With(registerer)

	return &MetricsRecorder{
		Dispatches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhookhub_dispatches_total",
				Help: "The total number of processed events by final dispatch state",
			},
			[]string{"event_type", "state"},
		),
		Deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhookhub_deliveries_total",
				Help: "The total number of webhook delivery attempts",
			},
			[]string{"event_type", "result"},
		),
		DeliveryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webhookhub_delivery_duration_seconds",
				Help:    "The duration of single webhook delivery attempts in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"event_type"},
		),
		DispatchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "webhookhub_dispatch_duration_seconds",
				Help:    "The duration of event dispatches in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"event_type"},
		),
	}
}

func (r *MetricsRecorder) RecordDispatch(_ context.Context, report dto.DispatchReport) {
	if r == nil {
		return
	}

	eventType := metricEventType(report)
	r.Dispatches.WithLabelValues(eventType, report.State.String()).Inc()
	r.DispatchDuration.WithLabelValues(eventType).Observe(report.Latency.Seconds())

	for _, outcome := range report.Outcomes {
		result := resultFailure
		if outcome.Success {
			result = resultSuccess
		}
		r.Deliveries.WithLabelValues(eventType, result).Inc()
		r.DeliveryDuration.WithLabelValues(eventType).Observe(
			(time.Duration(outcome.DurationMS) * time.Millisecond).Seconds(),
		)
	}
}

// metricEventType keeps label cardinality bounded by the event-type catalogue:
// subscribers can only reference catalogued types.
func metricEventType(report dto.DispatchReport) string {
	if len(report.Outcomes) == 0 {
		return unknownEventType
	}
	return report.EventType
}
