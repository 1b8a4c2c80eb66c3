package in

import (
	"context"

	"webhookhub/internal/application/dto"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type ListEventTypesUseCase interface {
	Execute(ctx context.Context, query dto.ListEventTypesQuery) ([]dto.EventTypeOutput, *apperrors.AppError)
}
