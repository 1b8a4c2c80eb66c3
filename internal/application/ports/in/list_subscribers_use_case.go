package in

import (
	"context"

	"webhookhub/internal/application/dto"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type ListSubscribersUseCase interface {
	Execute(ctx context.Context, query dto.ListSubscribersQuery) ([]dto.SubscriberOutput, *apperrors.AppError)
}
