//go:build !integration

package use_cases

import (
	"context"
	"sync"
	"time"

	"webhookhub/internal/application/dto"
	"webhookhub/internal/domain/entities"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type fakeSubscriptionDirectory struct {
	mu          sync.Mutex
	byEventType map[string][]entities.Subscriber
	eventTypes  []entities.EventType
	listErr     *apperrors.AppError
	addErr      *apperrors.AppError

	listCalls  int
	added      []entities.Subscriber
	removedIDs []int64
	nextID     int64
}

func (f *fakeSubscriptionDirectory) ListSubscribers(_ context.Context, eventType string) ([]entities.Subscriber, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]entities.Subscriber(nil), f.byEventType[eventType]...), nil
}

func (f *fakeSubscriptionDirectory) AddSubscriber(_ context.Context, url string, eventTypeID int64) (entities.Subscriber, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return entities.Subscriber{}, f.addErr
	}
	f.nextID++
	subscriber := entities.Subscriber{ID: f.nextID, URL: url, EventTypeID: eventTypeID}
	f.added = append(f.added, subscriber)
	return subscriber, nil
}

func (f *fakeSubscriptionDirectory) RemoveSubscriber(_ context.Context, id int64) *apperrors.AppError {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removedIDs = append(f.removedIDs, id)
	return nil
}

func (f *fakeSubscriptionDirectory) ListAllSubscribers(_ context.Context) ([]entities.Subscriber, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	all := []entities.Subscriber{}
	for _, subscribers := range f.byEventType {
		all = append(all, subscribers...)
	}
	return all, nil
}

func (f *fakeSubscriptionDirectory) ListAllEventTypes(_ context.Context) ([]entities.EventType, *apperrors.AppError) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.eventTypes, nil
}

type fakeDeliveryGateway struct {
	mu       sync.Mutex
	outcomes map[string]dto.DeliveryOutcome
	delays   map[string]time.Duration
	panics   map[string]bool
	calls    []dto.DeliverEventInput

	inFlight    int
	maxInFlight int
}

func (f *fakeDeliveryGateway) Deliver(ctx context.Context, input dto.DeliverEventInput) dto.DeliveryOutcome {
	f.mu.Lock()
	f.calls = append(f.calls, input)
	delay := f.delays[input.URL]
	shouldPanic := f.panics[input.URL]
	outcome, configured := f.outcomes[input.URL]
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if shouldPanic {
		panic("subscriber exploded")
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return dto.DeliveryOutcome{URL: input.URL, Error: ctx.Err().Error()}
		}
	}
	if configured {
		return outcome
	}
	status := 200
	return dto.DeliveryOutcome{URL: input.URL, Success: true, StatusCode: &status}
}

func (f *fakeDeliveryGateway) callsFor(url string) []dto.DeliverEventInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	matched := []dto.DeliverEventInput{}
	for _, call := range f.calls {
		if call.URL == url {
			matched = append(matched, call)
		}
	}
	return matched
}

func (f *fakeDeliveryGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeOutcomeRecorder struct {
	mu      sync.Mutex
	reports []dto.DispatchReport
}

func (f *fakeOutcomeRecorder) RecordDispatch(_ context.Context, report dto.DispatchReport) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, report)
}

func fixedClock(now time.Time) Clock {
	return ClockFunc(func() time.Time { return now })
}
