package in

import (
	"context"

	"webhookhub/internal/application/dto"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type RemoveSubscriberUseCase interface {
	Execute(ctx context.Context, command dto.RemoveSubscriberCommand) *apperrors.AppError
}
