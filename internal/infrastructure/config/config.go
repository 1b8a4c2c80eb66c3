package config

import (
	stderrors "errors"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort                     = "8080"
	defaultOpenAPISpec              = "api/openapi.yaml"
	defaultShutdownTimeout          = 10 * time.Second
	defaultDBReadinessTimeout       = 30 * time.Second
	defaultDBReadinessRetryInterval = 2 * time.Second
	defaultMigrationsPath           = "internal/adapters/outbound/persistence/postgresql/migrations"
	defaultStorageDriver            = StorageDriverMemory
	defaultSubscriberCacheTTL       = 30 * time.Second
	defaultDeliveryTimeout          = 5 * time.Second
	defaultMaxConcurrency           = 16
	defaultEventTypes               = "OrderPlaced,OrderPaid,OrderCancelled"
	defaultLogLevel                 = "info"
	defaultLogFormat                = "json"
	defaultEnvFile                  = ".env"
)

const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

type ConfigError struct {
	Code     string
	Message  string
	Metadata map[string]string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}

	return e.Message
}

type Config struct {
	Port                     string
	OpenAPISpecPath          string
	ShutdownTimeout          time.Duration
	StorageDriver            string
	DatabaseURL              string
	DatabaseTarget           string
	DBReadinessTimeout       time.Duration
	DBReadinessRetryInterval time.Duration
	MigrationsPath           string
	RedisURL                 string
	SubscriberCacheTTL       time.Duration
	DeliveryTimeout          time.Duration
	DispatchMaxConcurrency   int
	EventTypes               []string
	LogLevel                 string
	LogFormat                string
	TracingEnabled           bool
}

func LoadConfig() (Config, *ConfigError) {
	if cfgErr := loadEnvFile(); cfgErr != nil {
		return Config{}, cfgErr
	}

	storageDriver := strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_DRIVER")))
	if storageDriver == "" {
		storageDriver = defaultStorageDriver
	}
	if storageDriver != StorageDriverMemory && storageDriver != StorageDriverPostgres {
		return Config{}, &ConfigError{
			Code:     "CONFIG_STORAGE_DRIVER_INVALID",
			Message:  "STORAGE_DRIVER must be memory or postgres",
			Metadata: map[string]string{"storage_driver": storageDriver},
		}
	}

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	databaseTarget := ""
	if storageDriver == StorageDriverPostgres {
		if databaseURL == "" {
			return Config{}, &ConfigError{
				Code:    "CONFIG_DATABASE_URL_REQUIRED",
				Message: "DATABASE_URL is required for postgres storage",
			}
		}

		target, parseErr := parseDatabaseTarget(databaseURL)
		if parseErr != nil {
			return Config{}, parseErr
		}
		databaseTarget = target
	}

	redisURL := strings.TrimSpace(os.Getenv("REDIS_URL"))
	if redisURL != "" {
		if parseErr := validateRedisURL(redisURL); parseErr != nil {
			return Config{}, parseErr
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	openAPISpecPath := os.Getenv("OPENAPI_SPEC_PATH")
	if openAPISpecPath == "" {
		openAPISpecPath = defaultOpenAPISpec
	}

	cacheTTL, cfgErr := durationEnv("SUBSCRIBER_CACHE_TTL", defaultSubscriberCacheTTL, true)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	deliveryTimeout, cfgErr := durationEnv("WEBHOOK_DELIVERY_TIMEOUT", defaultDeliveryTimeout, true)
	if cfgErr != nil {
		return Config{}, cfgErr
	}

	maxConcurrency := defaultMaxConcurrency
	if raw := strings.TrimSpace(os.Getenv("DISPATCH_MAX_CONCURRENCY")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return Config{}, &ConfigError{
				Code:     "CONFIG_DISPATCH_MAX_CONCURRENCY_INVALID",
				Message:  "DISPATCH_MAX_CONCURRENCY must be a positive integer",
				Metadata: map[string]string{"value": raw},
			}
		}
		maxConcurrency = parsed
	}

	eventTypes := parseEventTypes(os.Getenv("WEBHOOK_EVENT_TYPES"))
	if len(eventTypes) == 0 {
		eventTypes = parseEventTypes(defaultEventTypes)
	}

	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = defaultLogLevel
	}

	logFormat := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT")))
	if logFormat == "" {
		logFormat = defaultLogFormat
	}
	if logFormat != "json" && logFormat != "text" {
		return Config{}, &ConfigError{
			Code:     "CONFIG_LOG_FORMAT_INVALID",
			Message:  "LOG_FORMAT must be json or text",
			Metadata: map[string]string{"log_format": logFormat},
		}
	}

	tracingEnabled := true
	if raw := strings.TrimSpace(os.Getenv("TRACING_ENABLED")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, &ConfigError{
				Code:    "CONFIG_TRACING_ENABLED_INVALID",
				Message: "TRACING_ENABLED must be a boolean",
			}
		}
		tracingEnabled = parsed
	}

	return Config{
		Port:                     port,
		OpenAPISpecPath:          openAPISpecPath,
		ShutdownTimeout:          defaultShutdownTimeout,
		StorageDriver:            storageDriver,
		DatabaseURL:              databaseURL,
		DatabaseTarget:           databaseTarget,
		DBReadinessTimeout:       defaultDBReadinessTimeout,
		DBReadinessRetryInterval: defaultDBReadinessRetryInterval,
		MigrationsPath:           defaultMigrationsPath,
		RedisURL:                 redisURL,
		SubscriberCacheTTL:       cacheTTL,
		DeliveryTimeout:          deliveryTimeout,
		DispatchMaxConcurrency:   maxConcurrency,
		EventTypes:               eventTypes,
		LogLevel:                 logLevel,
		LogFormat:                logFormat,
		TracingEnabled:           tracingEnabled,
	}, nil
}

func (c Config) Address() string {
	return ":" + c.Port
}

// loadEnvFile applies ENV_FILE (default .env) without overriding variables
// already present in the environment. A missing file is not an error.
func loadEnvFile() *ConfigError {
	path := strings.TrimSpace(os.Getenv("ENV_FILE"))
	if path == "" {
		path = defaultEnvFile
	}

	if _, err := os.Stat(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &ConfigError{
			Code:     "CONFIG_ENV_FILE_UNREADABLE",
			Message:  "ENV_FILE could not be read",
			Metadata: map[string]string{"path": path},
		}
	}

	if err := godotenv.Load(path); err != nil {
		return &ConfigError{
			Code:     "CONFIG_ENV_FILE_INVALID",
			Message:  "ENV_FILE could not be parsed",
			Metadata: map[string]string{"path": path},
		}
	}
	return nil
}

func durationEnv(name string, fallback time.Duration, requirePositive bool) (time.Duration, *ConfigError) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback, nil
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed < 0 || (requirePositive && parsed == 0) {
		return 0, &ConfigError{
			Code:     "CONFIG_" + name + "_INVALID",
			Message:  name + " must be a valid duration",
			Metadata: map[string]string{"value": raw},
		}
	}
	return parsed, nil
}

func parseEventTypes(raw string) []string {
	seen := map[string]struct{}{}
	eventTypes := []string{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		eventTypes = append(eventTypes, name)
	}
	return eventTypes
}

func validateRedisURL(redisURL string) *ConfigError {
	parsed, err := url.Parse(redisURL)
	if err != nil || (parsed.Scheme != "redis" && parsed.Scheme != "rediss") || parsed.Host == "" {
		return &ConfigError{
			Code:    "CONFIG_REDIS_URL_INVALID",
			Message: "REDIS_URL must be a redis:// or rediss:// url",
		}
	}
	return nil
}

func parseDatabaseTarget(databaseURL string) (string, *ConfigError) {
	parsed, err := url.Parse(databaseURL)
	if err != nil {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_INVALID",
			Message: "DATABASE_URL is invalid",
		}
	}

	switch parsed.Scheme {
	case "postgres", "postgresql":
	default:
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_SCHEME_INVALID",
			Message: "DATABASE_URL must use postgres or postgresql scheme",
		}
	}

	if parsed.Host == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_URL_HOST_MISSING",
			Message: "DATABASE_URL host is required",
		}
	}

	databaseName := strings.TrimPrefix(parsed.Path, "/")
	if databaseName == "" {
		return "", &ConfigError{
			Code:    "CONFIG_DATABASE_NAME_MISSING",
			Message: "DATABASE_URL database name is required",
		}
	}

	return parsed.Host + "/" + databaseName, nil
}
