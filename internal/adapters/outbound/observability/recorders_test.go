//go:build !integration

package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"webhookhub/internal/application/dto"
	valueobjects "webhookhub/internal/domain/value_objects"
)

func completedReport() dto.DispatchReport {
	status := 200
	return dto.DispatchReport{
		DispatchID: "dispatch-1",
		EventType:  "OrderPlaced",
		OrderID:    123,
		State:      valueobjects.DispatchStateCompleted,
		Latency:    40 * time.Millisecond,
		Outcomes: []dto.DeliveryOutcome{
			{SubscriberID: 1, URL: "https://hooks.example.com/a", Success: true, StatusCode: &status, DurationMS: 12},
			{SubscriberID: 2, URL: "https://hooks.example.com/b", Success: false, Error: "connection refused", DurationMS: 3},
		},
	}
}

func TestLogRecorderWritesOutcomeAndSummaryEntries(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()

	NewLogRecorder(logger).RecordDispatch(context.Background(), completedReport())

	entries := hook.AllEntries()
	require.Len(t, entries, 3)

	assert.Equal(t, logrus.InfoLevel, entries[0].Level)
	assert.Equal(t, "webhook delivered", entries[0].Message)
	assert.Equal(t, 200, entries[0].Data["status_code"])
	assert.Equal(t, int64(123), entries[0].Data["order_id"])

	assert.Equal(t, logrus.WarnLevel, entries[1].Level)
	assert.Equal(t, "connection refused", entries[1].Data["error"])
	assert.NotContains(t, entries[1].Data, "status_code")

	summary := entries[2]
	assert.Equal(t, "webhook dispatch completed", summary.Message)
	assert.Equal(t, "dispatch-1", summary.Data["dispatch_id"])
	assert.Equal(t, 2, summary.Data["attempted"])
	assert.Equal(t, 1, summary.Data["succeeded"])
	assert.Equal(t, 1, summary.Data["failed"])
}

func TestLogRecorderReportsFailedAndEmptyDispatches(t *testing.T) {
	logger, hook := logrustest.NewNullLogger()
	recorder := NewLogRecorder(logger)

	recorder.RecordDispatch(context.Background(), dto.DispatchReport{
		EventType:  "OrderPlaced",
		State:      valueobjects.DispatchStateFailed,
		FailureMsg: "directory unavailable",
	})
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "directory unavailable", hook.LastEntry().Data["error"])

	hook.Reset()
	recorder.RecordDispatch(context.Background(), dto.DispatchReport{
		EventType: "OrderPaid",
		State:     valueobjects.DispatchStateCompleted,
	})
	require.Len(t, hook.AllEntries(), 1)
	assert.Equal(t, "webhook dispatch completed with no subscribers", hook.LastEntry().Message)
}

func TestMetricsRecorderCountsDeliveriesAndDispatches(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewMetricsRecorder(registry)

	recorder.RecordDispatch(context.Background(), completedReport())
	recorder.RecordDispatch(context.Background(), dto.DispatchReport{
		EventType: "OrderPlaced",
		State:     valueobjects.DispatchStateFailed,
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.Deliveries.WithLabelValues("OrderPlaced", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.Deliveries.WithLabelValues("OrderPlaced", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.Dispatches.WithLabelValues("OrderPlaced", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.Dispatches.WithLabelValues("unknown", "failed")))
	assert.Equal(t, 1, testutil.CollectAndCount(recorder.DeliveryDuration))

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.Len(t, families, 4)
}

func TestMetricsRecorderBoundsEventTypeLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := NewMetricsRecorder(registry)

	for i := 0; i < 500; i++ {
		recorder.RecordDispatch(context.Background(), dto.DispatchReport{
			EventType: fmt.Sprintf("junk-%d", i),
			State:     valueobjects.DispatchStateCompleted,
			Outcomes:  []dto.DeliveryOutcome{},
		})
	}
	recorder.RecordDispatch(context.Background(), completedReport())

	assert.Equal(t, 2, testutil.CollectAndCount(recorder.Dispatches))
	assert.Equal(t, 2, testutil.CollectAndCount(recorder.DispatchDuration))
	assert.Equal(t, 500.0, testutil.ToFloat64(recorder.Dispatches.WithLabelValues("unknown", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(recorder.Dispatches.WithLabelValues("OrderPlaced", "completed")))
}

type captureRecorder struct {
	reports []dto.DispatchReport
}

func (c *captureRecorder) RecordDispatch(_ context.Context, report dto.DispatchReport) {
	c.reports = append(c.reports, report)
}

func TestMultiRecorderFansOutAndSkipsNil(t *testing.T) {
	first := &captureRecorder{}
	second := &captureRecorder{}

	recorder := NewMultiRecorder(first, nil, second)
	recorder.RecordDispatch(context.Background(), completedReport())

	assert.Len(t, recorder, 2)
	assert.Len(t, first.reports, 1)
	assert.Len(t, second.reports, 1)
}
