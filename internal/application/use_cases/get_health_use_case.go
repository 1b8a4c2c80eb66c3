package use_cases

import (
	"context"
	"time"

	"webhookhub/internal/application/dto"
	portsin "webhookhub/internal/application/ports/in"
	portsout "webhookhub/internal/application/ports/out"
	valueobjects "webhookhub/internal/domain/value_objects"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

const healthProbeTimeout = 2 * time.Second

type getHealthUseCase struct {
	catalog portsout.EventTypeCatalog
}

func NewGetHealthUseCase(catalog portsout.EventTypeCatalog) portsin.GetHealthUseCase {
	return &getHealthUseCase{
		catalog: catalog,
	}
}

func (u *getHealthUseCase) Execute(ctx context.Context, _ dto.GetHealthCommand) (dto.HealthOutput, *apperrors.AppError) {
	if u.catalog == nil {
		return dto.HealthOutput{}, apperrors.NewInternal(
			"event_type_catalog_missing",
			"event type catalog is required",
			nil,
		)
	}

	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	eventTypes, appErr := u.catalog.ListAllEventTypes(probeCtx)
	status := valueobjects.NewHealthStatus(appErr == nil)
	if !status.IsHealthy() {
		return dto.HealthOutput{
			Status:  status.String(),
			Storage: dto.HealthStorageUnavailable,
		}, nil
	}

	return dto.HealthOutput{
		Status:     status.String(),
		Storage:    dto.HealthStorageReachable,
		EventTypes: len(eventTypes),
	}, nil
}
