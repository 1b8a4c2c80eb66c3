package entities

import (
	"time"

	valueobjects "webhookhub/internal/domain/value_objects"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

// DispatchEvent is the transient unit of work for one dispatch. It is never
// persisted.
type DispatchEvent struct {
	EventType  valueobjects.EventTypeName
	OrderID    int64
	OccurredAt time.Time
}

func NewDispatchEvent(eventType string, orderID int64, occurredAt time.Time) (DispatchEvent, *apperrors.AppError) {
	name, appErr := valueobjects.NewEventTypeName(eventType)
	if appErr != nil {
		return DispatchEvent{}, appErr
	}

	if orderID <= 0 {
		return DispatchEvent{}, apperrors.NewValidation(
			"invalid_request",
			"orderId must be greater than zero",
			map[string]any{"field": "orderId", "order_id": orderID},
		)
	}

	return DispatchEvent{
		EventType:  name,
		OrderID:    orderID,
		OccurredAt: occurredAt.UTC(),
	}, nil
}
