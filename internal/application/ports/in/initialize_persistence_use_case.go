package in

import (
	"context"

	"webhookhub/internal/application/dto"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

// InitializePersistenceUseCase waits for the subscription store, migrates it
// and seeds the event-type catalogue before the server accepts traffic.
type InitializePersistenceUseCase interface {
	Execute(ctx context.Context, command dto.InitializePersistenceCommand) *apperrors.AppError
}
