package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"webhookhub/internal/application/dto"
	portsin "webhookhub/internal/application/ports/in"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

const headerDispatchID = "X-Dispatch-ID"

type WebhooksController struct {
	listSubscribersUseCase  portsin.ListSubscribersUseCase
	addSubscriberUseCase    portsin.AddSubscriberUseCase
	removeSubscriberUseCase portsin.RemoveSubscriberUseCase
	listEventTypesUseCase   portsin.ListEventTypesUseCase
	processEventUseCase     portsin.ProcessEventUseCase
	validator               *payloadValidator
	logger                  logrus.FieldLogger
}

type addSubscriberPayload struct {
	URL         string `json:"url" validate:"required"`
	EventTypeID int64  `json:"eventTypeId" validate:"gt=0"`
}

type processEventPayload struct {
	EventType string `json:"eventType" validate:"required"`
	OrderID   int64  `json:"orderId" validate:"gt=0"`
}

func NewWebhooksController(
	listSubscribersUseCase portsin.ListSubscribersUseCase,
	addSubscriberUseCase portsin.AddSubscriberUseCase,
	removeSubscriberUseCase portsin.RemoveSubscriberUseCase,
	listEventTypesUseCase portsin.ListEventTypesUseCase,
	processEventUseCase portsin.ProcessEventUseCase,
	logger logrus.FieldLogger,
) *WebhooksController {
	return &WebhooksController{
		listSubscribersUseCase:  listSubscribersUseCase,
		addSubscriberUseCase:    addSubscriberUseCase,
		removeSubscriberUseCase: removeSubscriberUseCase,
		listEventTypesUseCase:   listEventTypesUseCase,
		processEventUseCase:     processEventUseCase,
		validator:               newPayloadValidator(),
		logger:                  logger,
	}
}

func (c *WebhooksController) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.listSubscribersUseCase.Execute(r.Context(), dto.ListSubscribersQuery{})
	if appErr != nil {
		logRequestError(c.logger, r, "/api/webhooks", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

func (c *WebhooksController) AddSubscriber(w http.ResponseWriter, r *http.Request) {
	payload := addSubscriberPayload{}
	if appErr := decodeJSONBody(r.Body, &payload); appErr != nil {
		writeAppError(w, appErr)
		return
	}
	payload.URL = strings.TrimSpace(payload.URL)
	if appErr := c.validator.Validate(payload); appErr != nil {
		writeAppError(w, appErr)
		return
	}

	_, appErr := c.addSubscriberUseCase.Execute(r.Context(), dto.AddSubscriberCommand{
		URL:         payload.URL,
		EventTypeID: payload.EventTypeID,
	})
	if appErr != nil {
		logRequestError(c.logger, r, "/api/webhooks", appErr)
		writeAppError(w, appErr)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (c *WebhooksController) RemoveSubscriber(w http.ResponseWriter, r *http.Request) {
	rawID := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeAppError(w, apperrors.NewValidation(
			"invalid_request",
			"id must be an integer",
			map[string]any{"field": "id"},
		))
		return
	}

	if appErr := c.removeSubscriberUseCase.Execute(r.Context(), dto.RemoveSubscriberCommand{ID: id}); appErr != nil {
		logRequestError(c.logger, r, "/api/webhooks/{id}", appErr)
		writeAppError(w, appErr)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (c *WebhooksController) ListEventTypes(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.listEventTypesUseCase.Execute(r.Context(), dto.ListEventTypesQuery{})
	if appErr != nil {
		logRequestError(c.logger, r, "/api/webhooks/events", appErr)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// ProcessEvent blocks until every subscriber has been attempted. Delivery
// results are not part of the response.
func (c *WebhooksController) ProcessEvent(w http.ResponseWriter, r *http.Request) {
	payload := processEventPayload{}
	if appErr := decodeJSONBody(r.Body, &payload); appErr != nil {
		writeAppError(w, appErr)
		return
	}
	// Blankness is judged on the trimmed name; the name itself is matched
	// exactly as sent.
	if appErr := c.validator.Validate(processEventPayload{
		EventType: strings.TrimSpace(payload.EventType),
		OrderID:   payload.OrderID,
	}); appErr != nil {
		writeAppError(w, appErr)
		return
	}

	report, appErr := c.processEventUseCase.Execute(r.Context(), dto.ProcessEventCommand{
		EventType: payload.EventType,
		OrderID:   payload.OrderID,
	})
	if report.DispatchID != "" {
		w.Header().Set(headerDispatchID, report.DispatchID)
	}
	if appErr != nil {
		logRequestError(c.logger, r, "/api/webhooks/events", appErr)
		writeAppError(w, appErr)
		return
	}

	w.WriteHeader(http.StatusOK)
}
