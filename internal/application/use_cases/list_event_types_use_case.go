package use_cases

import (
	"context"

	"webhookhub/internal/application/dto"
	portsin "webhookhub/internal/application/ports/in"
	portsout "webhookhub/internal/application/ports/out"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type listEventTypesUseCase struct {
	directory portsout.SubscriptionDirectory
}

func NewListEventTypesUseCase(directory portsout.SubscriptionDirectory) portsin.ListEventTypesUseCase {
	return &listEventTypesUseCase{
		directory: directory,
	}
}

func (u *listEventTypesUseCase) Execute(ctx context.Context, _ dto.ListEventTypesQuery) ([]dto.EventTypeOutput, *apperrors.AppError) {
	if u.directory == nil {
		return nil, apperrors.NewInternal(
			"subscription_directory_missing",
			"subscription directory is required",
			nil,
		)
	}

	eventTypes, appErr := u.directory.ListAllEventTypes(ctx)
	if appErr != nil {
		return nil, appErr
	}

	output := make([]dto.EventTypeOutput, 0, len(eventTypes))
	for _, eventType := range eventTypes {
		output = append(output, dto.EventTypeOutput{
			ID:        eventType.ID,
			EventType: eventType.Name,
		})
	}
	return output, nil
}
