package dto

import (
	"time"

	valueobjects "webhookhub/internal/domain/value_objects"
)

type ProcessEventCommand struct {
	EventType string
	OrderID   int64
}

// DeliverEventInput is what one delivery attempt sends to one subscriber.
type DeliverEventInput struct {
	SubscriberID int64
	URL          string
	EventType    string
	OrderID      int64
}

// DeliveryOutcome is the per-subscriber result of a single attempt. A failed
// delivery is data, not an error.
type DeliveryOutcome struct {
	SubscriberID int64  `json:"subscriberId"`
	URL          string `json:"url"`
	Success      bool   `json:"success"`
	StatusCode   *int   `json:"statusCode,omitempty"`
	Error        string `json:"error,omitempty"`
	DurationMS   int64  `json:"durationMs"`
}

type DispatchReport struct {
	DispatchID string                     `json:"dispatchId"`
	EventType  string                     `json:"eventType"`
	OrderID    int64                      `json:"orderId"`
	OccurredAt time.Time                  `json:"occurredAt"`
	State      valueobjects.DispatchState `json:"state"`
	Outcomes   []DeliveryOutcome          `json:"outcomes"`
	Latency    time.Duration              `json:"latencyNs"`
	FailureMsg string                     `json:"failure,omitempty"`
}

func (r DispatchReport) Attempted() int {
	return len(r.Outcomes)
}

func (r DispatchReport) Succeeded() int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Success {
			count++
		}
	}
	return count
}

func (r DispatchReport) Failed() int {
	return r.Attempted() - r.Succeeded()
}
