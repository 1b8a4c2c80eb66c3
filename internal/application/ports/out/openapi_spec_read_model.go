package out

import (
	"context"

	apperrors "webhookhub/internal/shared_kernel/errors"
)

// OpenAPISpecReadModel returns the raw document and its media type.
type OpenAPISpecReadModel interface {
	Read(ctx context.Context) ([]byte, string, *apperrors.AppError)
}
