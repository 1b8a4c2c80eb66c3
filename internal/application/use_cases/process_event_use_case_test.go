//go:build !integration

package use_cases

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"webhookhub/internal/application/dto"
	"webhookhub/internal/domain/entities"
	valueobjects "webhookhub/internal/domain/value_objects"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newOrderDirectory() *fakeSubscriptionDirectory {
	return &fakeSubscriptionDirectory{
		byEventType: map[string][]entities.Subscriber{
			"OrderPlaced": {
				{ID: 1, URL: "https://hooks.example.com/url1", EventTypeID: 1, EventType: "OrderPlaced"},
				{ID: 2, URL: "https://hooks.example.com/url2", EventTypeID: 1, EventType: "OrderPlaced"},
			},
			"OrderPaid": {},
		},
	}
}

func TestProcessEventDeliversToEverySubscriber(t *testing.T) {
	directory := newOrderDirectory()
	gateway := &fakeDeliveryGateway{}
	recorder := &fakeOutcomeRecorder{}
	useCase := NewProcessEventUseCase(directory, gateway, recorder, fixedClock(testNow), 4)

	report, appErr := useCase.Execute(context.Background(), dto.ProcessEventCommand{
		EventType: "OrderPlaced",
		OrderID:   123,
	})

	require.Nil(t, appErr)
	assert.Equal(t, valueobjects.DispatchStateCompleted, report.State)
	assert.Equal(t, 2, report.Attempted())
	assert.Equal(t, 2, report.Succeeded())
	assert.NotEmpty(t, report.DispatchID)
	assert.Equal(t, testNow, report.OccurredAt)

	for _, url := range []string{"https://hooks.example.com/url1", "https://hooks.example.com/url2"} {
		calls := gateway.callsFor(url)
		require.Len(t, calls, 1, "expected exactly one delivery to %s", url)
		assert.Equal(t, "OrderPlaced", calls[0].EventType)
		assert.Equal(t, int64(123), calls[0].OrderID)
	}

	require.Len(t, recorder.reports, 1)
	assert.Equal(t, report.DispatchID, recorder.reports[0].DispatchID)
}

func TestProcessEventMatchesEventTypeExactly(t *testing.T) {
	directory := newOrderDirectory()
	gateway := &fakeDeliveryGateway{}
	useCase := NewProcessEventUseCase(directory, gateway, nil, fixedClock(testNow), 4)

	for _, eventType := range []string{" OrderPlaced ", "orderplaced"} {
		report, appErr := useCase.Execute(context.Background(), dto.ProcessEventCommand{
			EventType: eventType,
			OrderID:   123,
		})

		require.Nil(t, appErr)
		assert.Equal(t, eventType, report.EventType)
		assert.Equal(t, valueobjects.DispatchStateCompleted, report.State)
		assert.Zero(t, report.Attempted())
	}
	assert.Zero(t, gateway.callCount())
}

func TestProcessEventWithoutSubscribersCompletesWithoutDeliveries(t *testing.T) {
	directory := newOrderDirectory()
	gateway := &fakeDeliveryGateway{}
	recorder := &fakeOutcomeRecorder{}
	useCase := NewProcessEventUseCase(directory, gateway, recorder, fixedClock(testNow), 4)

	for _, eventType := range []string{"OrderPaid", "NeverRegistered"} {
		report, appErr := useCase.Execute(context.Background(), dto.ProcessEventCommand{
			EventType: eventType,
			OrderID:   123,
		})

		require.Nil(t, appErr)
		assert.Equal(t, valueobjects.DispatchStateCompleted, report.State)
		assert.Zero(t, report.Attempted())
	}

	assert.Zero(t, gateway.callCount())
	assert.Len(t, recorder.reports, 2)
}

func TestProcessEventRejectsInvalidInputBeforeQueryingDirectory(t *testing.T) {
	tests := []struct {
		name    string
		command dto.ProcessEventCommand
	}{
		{name: "blank event type", command: dto.ProcessEventCommand{EventType: "", OrderID: 123}},
		{name: "whitespace event type", command: dto.ProcessEventCommand{EventType: "  ", OrderID: 123}},
		{name: "zero order id", command: dto.ProcessEventCommand{EventType: "OrderPlaced", OrderID: 0}},
		{name: "negative order id", command: dto.ProcessEventCommand{EventType: "OrderPlaced", OrderID: -1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			directory := newOrderDirectory()
			gateway := &fakeDeliveryGateway{}
			recorder := &fakeOutcomeRecorder{}
			useCase := NewProcessEventUseCase(directory, gateway, recorder, fixedClock(testNow), 4)

			_, appErr := useCase.Execute(context.Background(), tc.command)

			require.NotNil(t, appErr)
			assert.Equal(t, apperrors.TypeValidation, appErr.Type)
			assert.Zero(t, directory.listCalls)
			assert.Zero(t, gateway.callCount())
			assert.Empty(t, recorder.reports)
		})
	}
}

func TestProcessEventDirectoryFailureReturnsDispatchError(t *testing.T) {
	cause := apperrors.NewInternal("subscription_directory_query_failed", "failed to query subscribers", nil)
	directory := newOrderDirectory()
	directory.listErr = cause
	gateway := &fakeDeliveryGateway{}
	recorder := &fakeOutcomeRecorder{}
	useCase := NewProcessEventUseCase(directory, gateway, recorder, fixedClock(testNow), 4)

	report, appErr := useCase.Execute(context.Background(), dto.ProcessEventCommand{
		EventType: "OrderPlaced",
		OrderID:   123,
	})

	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.TypeDispatch, appErr.Type)
	assert.Equal(t, "dispatch_subscribers_unavailable", appErr.Code)
	assert.True(t, stderrors.Is(appErr, cause))
	assert.Equal(t, valueobjects.DispatchStateFailed, report.State)
	assert.Zero(t, gateway.callCount())

	require.Len(t, recorder.reports, 1)
	assert.Equal(t, valueobjects.DispatchStateFailed, recorder.reports[0].State)
	assert.NotEmpty(t, recorder.reports[0].FailureMsg)
}

func TestProcessEventContainsDeliveryFailures(t *testing.T) {
	directory := newOrderDirectory()
	gateway := &fakeDeliveryGateway{
		outcomes: map[string]dto.DeliveryOutcome{
			"https://hooks.example.com/url1": {Success: false, Error: "context deadline exceeded"},
		},
	}
	recorder := &fakeOutcomeRecorder{}
	useCase := NewProcessEventUseCase(directory, gateway, recorder, fixedClock(testNow), 4)

	report, appErr := useCase.Execute(context.Background(), dto.ProcessEventCommand{
		EventType: "OrderPlaced",
		OrderID:   123,
	})

	require.Nil(t, appErr)
	assert.Equal(t, 1, report.Succeeded())
	assert.Equal(t, 1, report.Failed())

	byURL := map[string]dto.DeliveryOutcome{}
	for _, outcome := range report.Outcomes {
		byURL[outcome.URL] = outcome
	}
	assert.False(t, byURL["https://hooks.example.com/url1"].Success)
	assert.Equal(t, "context deadline exceeded", byURL["https://hooks.example.com/url1"].Error)
	assert.True(t, byURL["https://hooks.example.com/url2"].Success)
	assert.Equal(t, int64(2), byURL["https://hooks.example.com/url2"].SubscriberID)
}

func TestProcessEventContainsPanickingGateway(t *testing.T) {
	directory := newOrderDirectory()
	gateway := &fakeDeliveryGateway{
		panics: map[string]bool{"https://hooks.example.com/url1": true},
	}
	useCase := NewProcessEventUseCase(directory, gateway, nil, fixedClock(testNow), 4)

	report, appErr := useCase.Execute(context.Background(), dto.ProcessEventCommand{
		EventType: "OrderPlaced",
		OrderID:   123,
	})

	require.Nil(t, appErr)
	require.Len(t, report.Outcomes, 2)
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, 1, report.Succeeded())
}

func TestProcessEventSlowSubscriberDoesNotDelayOthers(t *testing.T) {
	directory := &fakeSubscriptionDirectory{
		byEventType: map[string][]entities.Subscriber{
			"OrderPlaced": {
				{ID: 1, URL: "https://hooks.example.com/slow-1"},
				{ID: 2, URL: "https://hooks.example.com/slow-2"},
				{ID: 3, URL: "https://hooks.example.com/slow-3"},
			},
		},
	}
	gateway := &fakeDeliveryGateway{
		delays: map[string]time.Duration{
			"https://hooks.example.com/slow-1": 150 * time.Millisecond,
			"https://hooks.example.com/slow-2": 150 * time.Millisecond,
			"https://hooks.example.com/slow-3": 150 * time.Millisecond,
		},
	}
	useCase := NewProcessEventUseCase(directory, gateway, nil, fixedClock(testNow), 4)

	startedAt := time.Now()
	report, appErr := useCase.Execute(context.Background(), dto.ProcessEventCommand{
		EventType: "OrderPlaced",
		OrderID:   9,
	})
	elapsed := time.Since(startedAt)

	require.Nil(t, appErr)
	assert.Equal(t, 3, report.Succeeded())
	assert.Less(t, elapsed, 400*time.Millisecond)
	assert.Equal(t, 3, gateway.maxInFlight)
}

func TestProcessEventRespectsConcurrencyLimit(t *testing.T) {
	directory := &fakeSubscriptionDirectory{
		byEventType: map[string][]entities.Subscriber{
			"OrderPlaced": {
				{ID: 1, URL: "https://hooks.example.com/a"},
				{ID: 2, URL: "https://hooks.example.com/b"},
				{ID: 3, URL: "https://hooks.example.com/c"},
			},
		},
	}
	gateway := &fakeDeliveryGateway{
		delays: map[string]time.Duration{
			"https://hooks.example.com/a": 10 * time.Millisecond,
			"https://hooks.example.com/b": 10 * time.Millisecond,
			"https://hooks.example.com/c": 10 * time.Millisecond,
		},
	}
	useCase := NewProcessEventUseCase(directory, gateway, nil, fixedClock(testNow), 1)

	report, appErr := useCase.Execute(context.Background(), dto.ProcessEventCommand{
		EventType: "OrderPlaced",
		OrderID:   9,
	})

	require.Nil(t, appErr)
	assert.Equal(t, 3, report.Attempted())
	assert.Equal(t, 1, gateway.maxInFlight)
}

func TestProcessEventFinishesDeliveriesAfterCallerCancels(t *testing.T) {
	directory := newOrderDirectory()
	gateway := &fakeDeliveryGateway{
		delays: map[string]time.Duration{
			"https://hooks.example.com/url1": 20 * time.Millisecond,
		},
	}
	useCase := NewProcessEventUseCase(directory, gateway, nil, fixedClock(testNow), 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, appErr := useCase.Execute(ctx, dto.ProcessEventCommand{
		EventType: "OrderPlaced",
		OrderID:   123,
	})

	require.Nil(t, appErr)
	assert.Equal(t, 2, report.Succeeded())
}

func TestProcessEventEmitsDispatchAndDeliverySpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	directory := newOrderDirectory()
	gateway := &fakeDeliveryGateway{
		outcomes: map[string]dto.DeliveryOutcome{
			"https://hooks.example.com/url1": {Success: false, Error: "connection refused"},
		},
	}
	useCase := NewProcessEventUseCase(directory, gateway, nil, fixedClock(testNow), 4)

	_, appErr := useCase.Execute(context.Background(), dto.ProcessEventCommand{
		EventType: "OrderPlaced",
		OrderID:   123,
	})
	require.Nil(t, appErr)
	require.NoError(t, provider.ForceFlush(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 3)

	statuses := map[string][]codes.Code{}
	for _, span := range spans {
		statuses[span.Name] = append(statuses[span.Name], span.Status.Code)
	}
	assert.Equal(t, []codes.Code{codes.Ok}, statuses["webhook.dispatch"])
	assert.ElementsMatch(t, []codes.Code{codes.Ok, codes.Error}, statuses["webhook.deliver"])
}

func TestProcessEventRequiresCollaborators(t *testing.T) {
	_, appErr := NewProcessEventUseCase(nil, &fakeDeliveryGateway{}, nil, nil, 0).Execute(
		context.Background(),
		dto.ProcessEventCommand{EventType: "OrderPlaced", OrderID: 1},
	)
	require.NotNil(t, appErr)
	assert.Equal(t, "subscription_directory_missing", appErr.Code)

	_, appErr = NewProcessEventUseCase(newOrderDirectory(), nil, nil, nil, 0).Execute(
		context.Background(),
		dto.ProcessEventCommand{EventType: "OrderPlaced", OrderID: 1},
	)
	require.NotNil(t, appErr)
	assert.Equal(t, "webhook_delivery_gateway_missing", appErr.Code)
}
