package in

import (
	"context"

	"webhookhub/internal/application/dto"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type AddSubscriberUseCase interface {
	Execute(ctx context.Context, command dto.AddSubscriberCommand) (dto.SubscriberOutput, *apperrors.AppError)
}
