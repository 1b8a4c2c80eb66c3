package out

import (
	"context"

	"webhookhub/internal/domain/entities"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type EventTypeCatalog interface {
	ListAllEventTypes(ctx context.Context) ([]entities.EventType, *apperrors.AppError)
}

// SubscriptionDirectory maps event types to their subscribers. Implementations
// own consistency: a mutation must be atomic with respect to concurrent reads.
type SubscriptionDirectory interface {
	EventTypeCatalog

	// ListSubscribers returns subscribers bound to eventType in insertion
	// order. An unknown event type yields an empty slice.
	ListSubscribers(ctx context.Context, eventType string) ([]entities.Subscriber, *apperrors.AppError)
	AddSubscriber(ctx context.Context, url string, eventTypeID int64) (entities.Subscriber, *apperrors.AppError)
	// RemoveSubscriber is idempotent.
	RemoveSubscriber(ctx context.Context, id int64) *apperrors.AppError
	ListAllSubscribers(ctx context.Context) ([]entities.Subscriber, *apperrors.AppError)
}
