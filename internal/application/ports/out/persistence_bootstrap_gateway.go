package out

import (
	"context"

	apperrors "webhookhub/internal/shared_kernel/errors"
)

type PersistenceBootstrapGateway interface {
	CheckReadiness(ctx context.Context) *apperrors.AppError
	RunMigrations(ctx context.Context) *apperrors.AppError
	// SeedEventTypes inserts the missing names and reports how many were new.
	SeedEventTypes(ctx context.Context, names []string) (int, *apperrors.AppError)
}
