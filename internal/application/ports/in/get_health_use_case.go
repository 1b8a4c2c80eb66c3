package in

import (
	"context"

	"webhookhub/internal/application/dto"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

// GetHealthUseCase never fails on a storage outage; it reports a degraded
// status instead so the probe can still answer.
type GetHealthUseCase interface {
	Execute(ctx context.Context, command dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError)
}
