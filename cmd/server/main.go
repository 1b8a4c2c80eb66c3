package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"webhookhub/internal/application/dto"
	"webhookhub/internal/infrastructure/config"
	"webhookhub/internal/infrastructure/di"
	"webhookhub/internal/infrastructure/logging"
	"webhookhub/internal/infrastructure/telemetry"
)

const serviceName = "webhookhub"

func main() {
	cfg, cfgErr := config.LoadConfig()
	if cfgErr != nil {
		logrus.WithFields(logrus.Fields{
			"code":     cfgErr.Code,
			"metadata": cfgErr.Metadata,
		}).Error("startup config error: " + cfgErr.Message)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	logger.WithFields(logrus.Fields{
		"storage_driver":       cfg.StorageDriver,
		"subscriber_cache":     cfg.RedisURL != "",
		"delivery_timeout":     cfg.DeliveryTimeout.String(),
		"dispatch_concurrency": cfg.DispatchMaxConcurrency,
	}).Info("webhook dispatch config loaded")

	tracing := telemetry.Setup(serviceName, cfg.TracingEnabled, logger)
	defer func() {
		if err := tracing.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Warn("tracer shutdown warning")
		}
	}()

	container, buildErr := di.Build(cfg, logger)
	if buildErr != nil {
		logger.WithError(buildErr).Error("dependency wiring error")
		os.Exit(1)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.WithError(err).Warn("resource close warning")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if container.InitializePersistenceUseCase != nil {
		logger.WithField("database_target", cfg.DatabaseTarget).Info("persistence initialization starting")
		persistenceErr := container.InitializePersistenceUseCase.Execute(ctx, dto.InitializePersistenceCommand{
			ReadinessTimeout:       cfg.DBReadinessTimeout,
			ReadinessRetryInterval: cfg.DBReadinessRetryInterval,
			EventTypes:             cfg.EventTypes,
		})
		if persistenceErr != nil {
			logger.WithFields(logrus.Fields{
				"code":     persistenceErr.Code,
				"metadata": persistenceErr.Details,
			}).Error("persistence initialization failed: " + persistenceErr.Message)
			os.Exit(1)
		}
		logger.WithField("database_target", cfg.DatabaseTarget).Info("persistence initialization completed")
	}

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- container.Server.Start()
	}()

	select {
	case err := <-serverErrCh:
		if err != nil {
			logger.WithError(err).Error("server startup failed")
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := container.Server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("graceful shutdown failed")
			os.Exit(1)
		}

		if err := <-serverErrCh; err != nil {
			logger.WithError(err).Error("server stopped with error")
			os.Exit(1)
		}

		logger.Info("server stopped")
	}
}
