package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"webhookhub/internal/application/dto"
	portsout "webhookhub/internal/application/ports/out"
)

const (
	defaultHTTPTimeout = 5 * time.Second
	maxErrorBodyBytes  = 1024
	userAgent          = "webhookhub/1"
)

type Config struct {
	Timeout time.Duration
	// Client overrides the default client; its Timeout is left untouched.
	Client *nethttp.Client
}

type Gateway struct {
	timeout time.Duration
	client  *nethttp.Client
}

var _ portsout.WebhookDeliveryGateway = (*Gateway)(nil)

// eventPayload is the outbound wire format.
type eventPayload struct {
	EventType string `json:"eventType"`
	OrderID   int64  `json:"orderId"`
}

func NewGateway(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := cfg.Client
	if client == nil {
		client = &nethttp.Client{
			Timeout: timeout,
		}
	}

	return &Gateway{
		timeout: timeout,
		client:  client,
	}
}

// Deliver makes exactly one POST attempt. Every failure mode is reported in
// the outcome rather than returned.
func (g *Gateway) Deliver(ctx context.Context, input dto.DeliverEventInput) dto.DeliveryOutcome {
	startedAt := time.Now()
	outcome := dto.DeliveryOutcome{
		SubscriberID: input.SubscriberID,
		URL:          input.URL,
	}
	finish := func(statusCode int, errorMessage string) dto.DeliveryOutcome {
		if statusCode > 0 {
			code := statusCode
			outcome.StatusCode = &code
		}
		outcome.Error = errorMessage
		outcome.Success = errorMessage == ""
		outcome.DurationMS = time.Since(startedAt).Milliseconds()
		return outcome
	}

	if g == nil || g.client == nil {
		return finish(0, "webhook gateway is not configured")
	}

	destinationURL := strings.TrimSpace(input.URL)
	if destinationURL == "" {
		return finish(0, "webhook destination url is required")
	}

	body, err := json.Marshal(eventPayload{
		EventType: input.EventType,
		OrderID:   input.OrderID,
	})
	if err != nil {
		return finish(0, fmt.Sprintf("failed to encode webhook payload: %v", err))
	}

	deliveryCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	request, err := nethttp.NewRequestWithContext(deliveryCtx, nethttp.MethodPost, destinationURL, bytes.NewReader(body))
	if err != nil {
		return finish(0, fmt.Sprintf("failed to build webhook request: %v", err))
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("User-Agent", userAgent)

	response, err := g.client.Do(request)
	if err != nil {
		return finish(0, fmt.Sprintf("failed to send webhook request: %v", err))
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 399 {
		bodyPreview := ""
		raw, readErr := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		if readErr == nil {
			bodyPreview = strings.TrimSpace(string(raw))
		}
		message := fmt.Sprintf("webhook endpoint returned status %d", response.StatusCode)
		if bodyPreview != "" {
			message += ": " + bodyPreview
		}
		return finish(response.StatusCode, message)
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, maxErrorBodyBytes))
	return finish(response.StatusCode, "")
}
