package use_cases

import (
	"context"

	"webhookhub/internal/application/dto"
	portsin "webhookhub/internal/application/ports/in"
	portsout "webhookhub/internal/application/ports/out"
	"webhookhub/internal/domain/entities"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type listSubscribersUseCase struct {
	directory portsout.SubscriptionDirectory
}

func NewListSubscribersUseCase(directory portsout.SubscriptionDirectory) portsin.ListSubscribersUseCase {
	return &listSubscribersUseCase{
		directory: directory,
	}
}

func (u *listSubscribersUseCase) Execute(ctx context.Context, _ dto.ListSubscribersQuery) ([]dto.SubscriberOutput, *apperrors.AppError) {
	if u.directory == nil {
		return nil, apperrors.NewInternal(
			"subscription_directory_missing",
			"subscription directory is required",
			nil,
		)
	}

	subscribers, appErr := u.directory.ListAllSubscribers(ctx)
	if appErr != nil {
		return nil, appErr
	}

	output := make([]dto.SubscriberOutput, 0, len(subscribers))
	for _, subscriber := range subscribers {
		output = append(output, toSubscriberOutput(subscriber))
	}
	return output, nil
}

func toSubscriberOutput(subscriber entities.Subscriber) dto.SubscriberOutput {
	return dto.SubscriberOutput{
		ID:          subscriber.ID,
		URL:         subscriber.URL,
		EventTypeID: subscriber.EventTypeID,
		EventType:   subscriber.EventType,
	}
}
