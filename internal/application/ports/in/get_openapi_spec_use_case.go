package in

import (
	"context"

	"webhookhub/internal/application/dto"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

// GetOpenAPISpecUseCase serves the API document behind the Swagger UI.
type GetOpenAPISpecUseCase interface {
	Execute(ctx context.Context, query dto.GetOpenAPISpecQuery) (dto.OpenAPISpecOutput, *apperrors.AppError)
}
