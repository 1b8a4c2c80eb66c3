package memory

import (
	"context"
	"strings"
	"sync"

	portsout "webhookhub/internal/application/ports/out"
	"webhookhub/internal/domain/entities"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

// Directory is a process-local SubscriptionDirectory. Every operation holds
// the lock for its full duration, so readers never observe a partial write.
type Directory struct {
	mu               sync.RWMutex
	eventTypes       []entities.EventType
	subscribers      []entities.Subscriber
	nextSubscriberID int64
}

var _ portsout.SubscriptionDirectory = (*Directory)(nil)

// NewDirectory seeds the event-type catalogue in the given order; ids start
// at 1. Blank and duplicate names are skipped.
func NewDirectory(eventTypes ...string) *Directory {
	d := &Directory{
		eventTypes:  []entities.EventType{},
		subscribers: []entities.Subscriber{},
	}

	seen := map[string]struct{}{}
	for _, raw := range eventTypes {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		d.eventTypes = append(d.eventTypes, entities.EventType{
			ID:   int64(len(d.eventTypes) + 1),
			Name: name,
		})
	}

	return d
}

func (d *Directory) ListSubscribers(_ context.Context, eventType string) ([]entities.Subscriber, *apperrors.AppError) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	matched := []entities.Subscriber{}
	for _, subscriber := range d.subscribers {
		if subscriber.EventType == eventType {
			matched = append(matched, subscriber)
		}
	}
	return matched, nil
}

func (d *Directory) AddSubscriber(_ context.Context, url string, eventTypeID int64) (entities.Subscriber, *apperrors.AppError) {
	trimmedURL := strings.TrimSpace(url)
	if trimmedURL == "" {
		return entities.Subscriber{}, apperrors.NewValidation(
			"invalid_request",
			"url is required",
			map[string]any{"field": "url"},
		)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	eventType, found := d.findEventType(eventTypeID)
	if !found {
		return entities.Subscriber{}, unknownEventTypeError(eventTypeID)
	}

	d.nextSubscriberID++
	subscriber := entities.Subscriber{
		ID:          d.nextSubscriberID,
		URL:         trimmedURL,
		EventTypeID: eventType.ID,
		EventType:   eventType.Name,
	}
	d.subscribers = append(d.subscribers, subscriber)
	return subscriber, nil
}

func (d *Directory) RemoveSubscriber(_ context.Context, id int64) *apperrors.AppError {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, subscriber := range d.subscribers {
		if subscriber.ID == id {
			d.subscribers = append(d.subscribers[:i:i], d.subscribers[i+1:]...)
			return nil
		}
	}
	return nil
}

func (d *Directory) ListAllSubscribers(_ context.Context) ([]entities.Subscriber, *apperrors.AppError) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]entities.Subscriber{}, d.subscribers...), nil
}

func (d *Directory) ListAllEventTypes(_ context.Context) ([]entities.EventType, *apperrors.AppError) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append([]entities.EventType{}, d.eventTypes...), nil
}

func (d *Directory) findEventType(id int64) (entities.EventType, bool) {
	for _, eventType := range d.eventTypes {
		if eventType.ID == id {
			return eventType, true
		}
	}
	return entities.EventType{}, false
}

func unknownEventTypeError(eventTypeID int64) *apperrors.AppError {
	return apperrors.NewValidation(
		"event_type_unknown",
		"eventTypeId does not reference a known event type",
		map[string]any{"field": "eventTypeId", "event_type_id": eventTypeID},
	)
}
