package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"webhookhub/internal/application/dto"
	portsin "webhookhub/internal/application/ports/in"
	valueobjects "webhookhub/internal/domain/value_objects"
)

type HealthController struct {
	useCase portsin.GetHealthUseCase
	logger  logrus.FieldLogger
}

func NewHealthController(useCase portsin.GetHealthUseCase, logger logrus.FieldLogger) *HealthController {
	return &HealthController{
		useCase: useCase,
		logger:  logger,
	}
}

func (c *HealthController) GetHealth(w http.ResponseWriter, r *http.Request) {
	output, appErr := c.useCase.Execute(r.Context(), dto.GetHealthCommand{})
	if appErr != nil {
		logRequestError(c.logger, r, "/healthz", appErr)
		writeAppError(w, appErr)
		return
	}

	if !valueobjects.HealthStatus(output.Status).IsHealthy() {
		c.logger.WithField("storage", output.Storage).Warn("health probe degraded")
		writeJSON(w, http.StatusServiceUnavailable, output)
		return
	}

	writeJSON(w, http.StatusOK, output)
}
