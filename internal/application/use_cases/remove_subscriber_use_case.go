package use_cases

import (
	"context"

	"webhookhub/internal/application/dto"
	portsin "webhookhub/internal/application/ports/in"
	portsout "webhookhub/internal/application/ports/out"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type removeSubscriberUseCase struct {
	directory portsout.SubscriptionDirectory
}

func NewRemoveSubscriberUseCase(directory portsout.SubscriptionDirectory) portsin.RemoveSubscriberUseCase {
	return &removeSubscriberUseCase{
		directory: directory,
	}
}

func (u *removeSubscriberUseCase) Execute(ctx context.Context, command dto.RemoveSubscriberCommand) *apperrors.AppError {
	if u.directory == nil {
		return apperrors.NewInternal(
			"subscription_directory_missing",
			"subscription directory is required",
			nil,
		)
	}

	// Storage never assigns non-positive ids, so there is nothing to remove.
	if command.ID <= 0 {
		return nil
	}

	return u.directory.RemoveSubscriber(ctx, command.ID)
}
