package di

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"webhookhub/internal/adapters/inbound/http/controllers"
	httpRouter "webhookhub/internal/adapters/inbound/http/router"
	"webhookhub/internal/adapters/outbound/docs"
	"webhookhub/internal/adapters/outbound/observability"
	"webhookhub/internal/adapters/outbound/persistence/memory"
	postgresqlbootstrap "webhookhub/internal/adapters/outbound/persistence/postgresql/bootstrap"
	postgresqlshared "webhookhub/internal/adapters/outbound/persistence/postgresql/shared"
	postgresqlsubscription "webhookhub/internal/adapters/outbound/persistence/postgresql/subscription"
	"webhookhub/internal/adapters/outbound/persistence/rediscache"
	webhookhttp "webhookhub/internal/adapters/outbound/webhook/http"
	portsin "webhookhub/internal/application/ports/in"
	portsout "webhookhub/internal/application/ports/out"
	"webhookhub/internal/application/use_cases"
	"webhookhub/internal/infrastructure/config"
	"webhookhub/internal/infrastructure/httpserver"
)

type Container struct {
	Database     *sql.DB
	Redis        *redis.Client
	Server       *httpserver.Server
	Registry     *prometheus.Registry
	Directory    portsout.SubscriptionDirectory
	ProcessEvent portsin.ProcessEventUseCase
	// InitializePersistenceUseCase is nil for storage backends without a
	// bootstrap step.
	InitializePersistenceUseCase portsin.InitializePersistenceUseCase
}

// StorageBackend is the directory plus whatever it needs to be closed or
// bootstrapped.
type StorageBackend struct {
	Directory        portsout.SubscriptionDirectory
	BootstrapGateway portsout.PersistenceBootstrapGateway
	Database         *sql.DB
}

type StorageBackendBuilder func(cfg config.Config, logger logrus.FieldLogger) (StorageBackend, error)

var storageBackendBuilders = map[string]StorageBackendBuilder{
	config.StorageDriverMemory: func(cfg config.Config, _ logrus.FieldLogger) (StorageBackend, error) {
		return StorageBackend{Directory: memory.NewDirectory(cfg.EventTypes...)}, nil
	},
	config.StorageDriverPostgres: func(cfg config.Config, logger logrus.FieldLogger) (StorageBackend, error) {
		databasePool, err := postgresqlshared.NewDatabasePool(cfg.DatabaseURL, cfg.DatabaseTarget, logger)
		if err != nil {
			return StorageBackend{}, fmt.Errorf("open database pool: %w", err)
		}

		return StorageBackend{
			Directory: postgresqlsubscription.NewDirectory(databasePool),
			BootstrapGateway: postgresqlbootstrap.NewGateway(
				cfg.DatabaseURL,
				cfg.DatabaseTarget,
				cfg.MigrationsPath,
				logger,
			),
			Database: databasePool,
		}, nil
	},
}

var storageBackendBuildersMu sync.RWMutex

func RegisterStorageBackendBuilder(driver string, builder StorageBackendBuilder) {
	normalizedDriver := strings.ToLower(strings.TrimSpace(driver))
	if normalizedDriver == "" || builder == nil {
		return
	}

	storageBackendBuildersMu.Lock()
	defer storageBackendBuildersMu.Unlock()
	storageBackendBuilders[normalizedDriver] = builder
}

func Build(cfg config.Config, logger logrus.FieldLogger) (Container, error) {
	storage, buildErr := buildStorageBackend(cfg, logger)
	if buildErr != nil {
		return Container{}, buildErr
	}

	directory := storage.Directory
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOptions, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			closeDatabase(storage.Database, logger)
			return Container{}, fmt.Errorf("parse redis url: %w", err)
		}
		redisClient = redis.NewClient(redisOptions)
		directory = rediscache.NewDirectory(
			directory,
			redisClient,
			cfg.SubscriberCacheTTL,
			rediscache.WithLogger(logger.WithField("component", "subscriber_cache")),
		)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deliveryGateway := webhookhttp.NewGateway(webhookhttp.Config{Timeout: cfg.DeliveryTimeout})
	outcomeRecorder := observability.NewMultiRecorder(
		observability.NewLogRecorder(logger.WithField("component", "dispatch")),
		observability.NewMetricsRecorder(registry),
	)

	healthUseCase := use_cases.NewGetHealthUseCase(storage.Directory)
	openAPIReadModel := docs.NewFileOpenAPISpecReadModel(cfg.OpenAPISpecPath)
	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(openAPIReadModel)
	processEventUseCase := use_cases.NewProcessEventUseCase(
		directory,
		deliveryGateway,
		outcomeRecorder,
		use_cases.NewSystemClock(),
		cfg.DispatchMaxConcurrency,
	)

	var initializePersistenceUseCase portsin.InitializePersistenceUseCase
	if storage.BootstrapGateway != nil {
		initializePersistenceUseCase = use_cases.NewInitializePersistenceUseCase(storage.BootstrapGateway)
	}

	healthController := controllers.NewHealthController(healthUseCase, logger)
	swaggerController := controllers.NewSwaggerController(openAPIUseCase, logger)
	webhooksController := controllers.NewWebhooksController(
		use_cases.NewListSubscribersUseCase(directory),
		use_cases.NewAddSubscriberUseCase(directory),
		use_cases.NewRemoveSubscriberUseCase(directory),
		use_cases.NewListEventTypesUseCase(directory),
		processEventUseCase,
		logger,
	)

	router := httpRouter.New(httpRouter.Dependencies{
		HealthController:   healthController,
		SwaggerController:  swaggerController,
		WebhooksController: webhooksController,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		HTTPMetrics:        httpRouter.NewHTTPMetrics(registry),
	})

	server := httpserver.New(cfg.Address(), router, logger)

	return Container{
		Database:                     storage.Database,
		Redis:                        redisClient,
		Server:                       server,
		Registry:                     registry,
		Directory:                    directory,
		ProcessEvent:                 processEventUseCase,
		InitializePersistenceUseCase: initializePersistenceUseCase,
	}, nil
}

// Close releases the database pool and Redis client.
func (c Container) Close() error {
	var errs []error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if c.Database != nil {
		if err := c.Database.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return stderrors.Join(errs...)
}

func buildStorageBackend(cfg config.Config, logger logrus.FieldLogger) (StorageBackend, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.StorageDriver))

	storageBackendBuildersMu.RLock()
	builder, exists := storageBackendBuilders[driver]
	storageBackendBuildersMu.RUnlock()
	if !exists {
		return StorageBackend{}, fmt.Errorf("unsupported storage driver: %s", cfg.StorageDriver)
	}

	return builder(cfg, logger)
}

func closeDatabase(db *sql.DB, logger logrus.FieldLogger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.WithError(err).Warn("database close warning")
	}
}
