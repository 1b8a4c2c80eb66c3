package observability

import (
	"context"

	"github.com/sirupsen/logrus"

	"webhookhub/internal/application/dto"
	portsout "webhookhub/internal/application/ports/out"
	valueobjects "webhookhub/internal/domain/value_objects"
)

// LogRecorder writes one entry per delivery attempt and a summary entry per
// dispatch.
type LogRecorder struct {
	logger logrus.FieldLogger
}

var _ portsout.DispatchOutcomeRecorder = (*LogRecorder)(nil)

func NewLogRecorder(logger logrus.FieldLogger) *LogRecorder {
	return &LogRecorder{logger: logger}
}

func (r *LogRecorder) RecordDispatch(_ context.Context, report dto.DispatchReport) {
	if r == nil || r.logger == nil {
		return
	}

	dispatchLogger := r.logger.WithFields(logrus.Fields{
		"dispatch_id": report.DispatchID,
		"event_type":  report.EventType,
		"order_id":    report.OrderID,
	})

	for _, outcome := range report.Outcomes {
		entry := dispatchLogger.WithFields(logrus.Fields{
			"subscriber_id": outcome.SubscriberID,
			"url":           outcome.URL,
			"duration_ms":   outcome.DurationMS,
		})
		if outcome.StatusCode != nil {
			entry = entry.WithField("status_code", *outcome.StatusCode)
		}
		if outcome.Success {
			entry.Info("webhook delivered")
			continue
		}
		entry.WithField("error", outcome.Error).Warn("webhook delivery failed")
	}

	summary := dispatchLogger.WithFields(logrus.Fields{
		"state":      report.State.String(),
		"attempted":  report.Attempted(),
		"succeeded":  report.Succeeded(),
		"failed":     report.Failed(),
		"latency_ms": report.Latency.Milliseconds(),
	})
	switch report.State {
	case valueobjects.DispatchStateFailed:
		summary.WithField("error", report.FailureMsg).Error("webhook dispatch failed")
	case valueobjects.DispatchStateCompleted:
		if report.Attempted() == 0 {
			summary.Info("webhook dispatch completed with no subscribers")
			return
		}
		summary.Info("webhook dispatch completed")
	default:
		summary.Warn("webhook dispatch recorded in non-terminal state")
	}
}
