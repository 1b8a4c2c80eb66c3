package out

import (
	"context"

	"webhookhub/internal/application/dto"
)

type WebhookDeliveryGateway interface {
	Deliver(ctx context.Context, input dto.DeliverEventInput) dto.DeliveryOutcome
}
