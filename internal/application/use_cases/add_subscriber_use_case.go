package use_cases

import (
	"context"

	"webhookhub/internal/application/dto"
	portsin "webhookhub/internal/application/ports/in"
	portsout "webhookhub/internal/application/ports/out"
	valueobjects "webhookhub/internal/domain/value_objects"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type addSubscriberUseCase struct {
	directory portsout.SubscriptionDirectory
}

func NewAddSubscriberUseCase(directory portsout.SubscriptionDirectory) portsin.AddSubscriberUseCase {
	return &addSubscriberUseCase{
		directory: directory,
	}
}

func (u *addSubscriberUseCase) Execute(ctx context.Context, command dto.AddSubscriberCommand) (dto.SubscriberOutput, *apperrors.AppError) {
	if u.directory == nil {
		return dto.SubscriberOutput{}, apperrors.NewInternal(
			"subscription_directory_missing",
			"subscription directory is required",
			nil,
		)
	}

	url, appErr := valueobjects.NewSubscriberURL(command.URL)
	if appErr != nil {
		return dto.SubscriberOutput{}, appErr
	}
	if command.EventTypeID <= 0 {
		return dto.SubscriberOutput{}, apperrors.NewValidation(
			"invalid_request",
			"eventTypeId must be greater than zero",
			map[string]any{"field": "eventTypeId"},
		)
	}

	subscriber, appErr := u.directory.AddSubscriber(ctx, url.String(), command.EventTypeID)
	if appErr != nil {
		return dto.SubscriberOutput{}, appErr
	}

	return toSubscriberOutput(subscriber), nil
}
