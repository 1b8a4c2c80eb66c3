package in

import (
	"context"

	"webhookhub/internal/application/dto"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type ProcessEventUseCase interface {
	Execute(ctx context.Context, command dto.ProcessEventCommand) (dto.DispatchReport, *apperrors.AppError)
}
