package use_cases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"webhookhub/internal/application/dto"
	portsin "webhookhub/internal/application/ports/in"
	portsout "webhookhub/internal/application/ports/out"
	"webhookhub/internal/domain/entities"
	valueobjects "webhookhub/internal/domain/value_objects"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

const (
	dispatchTracerName     = "webhookhub/dispatch"
	defaultMaxConcurrency  = 16
	dispatchSpanName       = "webhook.dispatch"
	deliverySpanName       = "webhook.deliver"
	dispatchFailureCode    = "dispatch_subscribers_unavailable"
	dispatchFailureMessage = "failed to resolve subscribers for event"
)

type processEventUseCase struct {
	directory      portsout.SubscriptionDirectory
	gateway        portsout.WebhookDeliveryGateway
	recorder       portsout.DispatchOutcomeRecorder
	clock          Clock
	maxConcurrency int
	newDispatchID  func() string
}

func NewProcessEventUseCase(
	directory portsout.SubscriptionDirectory,
	gateway portsout.WebhookDeliveryGateway,
	recorder portsout.DispatchOutcomeRecorder,
	clock Clock,
	maxConcurrency int,
) portsin.ProcessEventUseCase {
	if clock == nil {
		clock = NewSystemClock()
	}
	if maxConcurrency <= 0 {
		maxConcurrency = defaultMaxConcurrency
	}

	return &processEventUseCase{
		directory:      directory,
		gateway:        gateway,
		recorder:       recorder,
		clock:          clock,
		maxConcurrency: maxConcurrency,
		newDispatchID:  uuid.NewString,
	}
}

func (u *processEventUseCase) Execute(
	ctx context.Context,
	command dto.ProcessEventCommand,
) (dto.DispatchReport, *apperrors.AppError) {
	if u.directory == nil {
		return dto.DispatchReport{}, apperrors.NewInternal(
			"subscription_directory_missing",
			"subscription directory is required",
			nil,
		)
	}
	if u.gateway == nil {
		return dto.DispatchReport{}, apperrors.NewInternal(
			"webhook_delivery_gateway_missing",
			"webhook delivery gateway is required",
			nil,
		)
	}

	event, appErr := entities.NewDispatchEvent(command.EventType, command.OrderID, u.clock.NowUTC())
	if appErr != nil {
		return dto.DispatchReport{}, appErr
	}

	startedAt := time.Now()
	report := dto.DispatchReport{
		DispatchID: u.newDispatchID(),
		EventType:  event.EventType.String(),
		OrderID:    event.OrderID,
		OccurredAt: event.OccurredAt,
		State:      valueobjects.DispatchStateStarted,
		Outcomes:   []dto.DeliveryOutcome{},
	}

	ctx, span := otel.Tracer(dispatchTracerName).Start(ctx, dispatchSpanName, trace.WithAttributes(
		attribute.String("webhook.dispatch_id", report.DispatchID),
		attribute.String("webhook.event_type", report.EventType),
		attribute.Int64("webhook.order_id", report.OrderID),
	))
	defer span.End()

	report.State = advanceDispatchState(report.State, valueobjects.DispatchStateResolvingSubscribers)
	subscribers, directoryErr := u.directory.ListSubscribers(ctx, report.EventType)
	if directoryErr != nil {
		dispatchErr := apperrors.NewDispatch(
			dispatchFailureCode,
			dispatchFailureMessage,
			directoryErr,
			map[string]any{
				"dispatch_id": report.DispatchID,
				"event_type":  report.EventType,
				"order_id":    report.OrderID,
				"cause_code":  directoryErr.Code,
			},
		)
		report.State = advanceDispatchState(report.State, valueobjects.DispatchStateFailed)
		report.FailureMsg = dispatchErr.Error()
		report.Latency = time.Since(startedAt)

		span.RecordError(dispatchErr)
		span.SetStatus(codes.Error, dispatchFailureMessage)
		u.record(ctx, report)
		return report, dispatchErr
	}

	if len(subscribers) == 0 {
		report.State = advanceDispatchState(report.State, valueobjects.DispatchStateEmpty)
	} else {
		report.State = advanceDispatchState(report.State, valueobjects.DispatchStateFanningOut)
		report.Outcomes = u.fanOut(ctx, event, subscribers)
	}
	report.State = advanceDispatchState(report.State, valueobjects.DispatchStateCompleted)
	report.Latency = time.Since(startedAt)

	span.SetAttributes(
		attribute.Int("webhook.attempted", report.Attempted()),
		attribute.Int("webhook.succeeded", report.Succeeded()),
		attribute.Int("webhook.failed", report.Failed()),
	)
	span.SetStatus(codes.Ok, "")
	u.record(ctx, report)

	return report, nil
}

// fanOut delivers to every subscriber and blocks until each attempt has
// finished. Deliveries are detached from caller cancellation and are bounded
// by the gateway's own timeout instead.
func (u *processEventUseCase) fanOut(
	ctx context.Context,
	event entities.DispatchEvent,
	subscribers []entities.Subscriber,
) []dto.DeliveryOutcome {
	outcomes := make([]dto.DeliveryOutcome, len(subscribers))
	deliveryCtx := context.WithoutCancel(ctx)

	var group errgroup.Group
	group.SetLimit(u.maxConcurrency)
	for i, subscriber := range subscribers {
		group.Go(func() error {
			outcomes[i] = u.deliver(deliveryCtx, event, subscriber)
			return nil
		})
	}
	_ = group.Wait()

	return outcomes
}

func (u *processEventUseCase) deliver(
	ctx context.Context,
	event entities.DispatchEvent,
	subscriber entities.Subscriber,
) (outcome dto.DeliveryOutcome) {
	ctx, span := otel.Tracer(dispatchTracerName).Start(ctx, deliverySpanName, trace.WithAttributes(
		attribute.Int64("webhook.subscriber_id", subscriber.ID),
		attribute.String("webhook.url", subscriber.URL),
	))
	defer span.End()

	defer func() {
		if recovered := recover(); recovered != nil {
			outcome = dto.DeliveryOutcome{
				SubscriberID: subscriber.ID,
				URL:          subscriber.URL,
				Success:      false,
				Error:        fmt.Sprintf("webhook delivery panicked: %v", recovered),
			}
		}
		if outcome.Success {
			span.SetStatus(codes.Ok, "")
		} else {
			span.SetStatus(codes.Error, outcome.Error)
		}
		if outcome.StatusCode != nil {
			span.SetAttributes(attribute.Int("http.status_code", *outcome.StatusCode))
		}
	}()

	outcome = u.gateway.Deliver(ctx, dto.DeliverEventInput{
		SubscriberID: subscriber.ID,
		URL:          subscriber.URL,
		EventType:    event.EventType.String(),
		OrderID:      event.OrderID,
	})
	outcome.SubscriberID = subscriber.ID
	outcome.URL = subscriber.URL
	return outcome
}

func (u *processEventUseCase) record(ctx context.Context, report dto.DispatchReport) {
	if u.recorder == nil {
		return
	}
	u.recorder.RecordDispatch(ctx, report)
}

func advanceDispatchState(current, next valueobjects.DispatchState) valueobjects.DispatchState {
	if current.CanTransitionTo(next) {
		return next
	}
	return current
}
