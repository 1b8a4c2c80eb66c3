package bootstrap

import (
	"context"
	"database/sql"
	stderrors "errors"
	"io"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"

	portsout "webhookhub/internal/application/ports/out"
	apperrors "webhookhub/internal/shared_kernel/errors"
)

type Gateway struct {
	databaseURL    string
	databaseTarget string
	migrationsPath string
	logger         logrus.FieldLogger
}

var _ portsout.PersistenceBootstrapGateway = (*Gateway)(nil)

func NewGateway(
	databaseURL string,
	databaseTarget string,
	migrationsPath string,
	logger logrus.FieldLogger,
) *Gateway {
	if logger == nil {
		discard := logrus.New()
		discard.Out = io.Discard
		logger = discard
	}

	return &Gateway{
		databaseURL:    databaseURL,
		databaseTarget: databaseTarget,
		migrationsPath: migrationsPath,
		logger:         logger.WithField("database_target", databaseTarget),
	}
}

func (g *Gateway) CheckReadiness(ctx context.Context) *apperrors.AppError {
	db, err := sql.Open("pgx", g.databaseURL)
	if err != nil {
		g.logger.WithError(err).Warn("database connection initialization failed")
		return apperrors.NewInternal(
			"DB_CONNECT_INIT_FAILED",
			"failed to initialize database connection",
			map[string]any{"database_target": g.databaseTarget},
		)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		g.logger.WithError(err).Warn("database readiness check failed")
		return apperrors.NewInternal(
			"DB_CONNECT_FAILED",
			"failed to connect to database",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	g.logger.Info("database readiness check succeeded")
	return nil
}

func (g *Gateway) RunMigrations(ctx context.Context) *apperrors.AppError {
	if err := ctx.Err(); err != nil {
		return apperrors.NewInternal(
			"DB_MIGRATION_CONTEXT_CANCELED",
			"migration context canceled",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	migrationsAbsPath, err := filepath.Abs(g.migrationsPath)
	if err != nil {
		return apperrors.NewInternal(
			"DB_MIGRATION_PATH_RESOLVE_FAILED",
			"failed to resolve migration path",
			map[string]any{"migrations_path": g.migrationsPath},
		)
	}

	sourceURL := "file://" + filepath.ToSlash(migrationsAbsPath)
	migrationRunner, err := migrate.New(sourceURL, g.databaseURL)
	if err != nil {
		g.logger.WithError(err).Warn("migration runner setup failed")
		return apperrors.NewInternal(
			"DB_MIGRATION_SETUP_FAILED",
			"failed to initialize migration runner",
			map[string]any{
				"database_target": g.databaseTarget,
				"migrations_path": g.migrationsPath,
			},
		)
	}

	defer func() {
		sourceErr, dbErr := migrationRunner.Close()
		if sourceErr != nil {
			g.logger.WithError(sourceErr).WithField("migrations_path", g.migrationsPath).Warn("migration source close warning")
		}
		if dbErr != nil {
			g.logger.WithError(dbErr).Warn("migration db close warning")
		}
	}()

	err = migrationRunner.Up()
	if err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		g.logger.WithError(err).Error("database migrations failed")
		return apperrors.NewInternal(
			"DB_MIGRATION_APPLY_FAILED",
			"failed to apply migrations",
			map[string]any{
				"database_target": g.databaseTarget,
				"migrations_path": g.migrationsPath,
			},
		)
	}

	if stderrors.Is(err, migrate.ErrNoChange) {
		g.logger.Info("database migrations up to date")
	} else {
		g.logger.Info("database migrations applied")
	}

	return nil
}

const seedEventTypeSQL = `
INSERT INTO app.event_types (name)
VALUES ($1)
ON CONFLICT (name) DO NOTHING
`

func (g *Gateway) SeedEventTypes(ctx context.Context, names []string) (int, *apperrors.AppError) {
	if len(names) == 0 {
		return 0, nil
	}

	db, err := sql.Open("pgx", g.databaseURL)
	if err != nil {
		g.logger.WithError(err).Warn("database connection initialization failed")
		return 0, apperrors.NewInternal(
			"DB_CONNECT_INIT_FAILED",
			"failed to initialize database connection",
			map[string]any{"database_target": g.databaseTarget},
		)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		g.logger.WithError(err).Warn("event type seed transaction failed to start")
		return 0, apperrors.NewInternal(
			"DB_EVENT_TYPE_SEED_FAILED",
			"failed to seed event types",
			map[string]any{"database_target": g.databaseTarget},
		)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	inserted := 0
	for _, name := range names {
		result, execErr := tx.ExecContext(ctx, seedEventTypeSQL, name)
		if execErr != nil {
			g.logger.WithError(execErr).WithField("event_type", name).Warn("event type seed failed")
			return 0, apperrors.NewInternal(
				"DB_EVENT_TYPE_SEED_FAILED",
				"failed to seed event types",
				map[string]any{
					"database_target": g.databaseTarget,
					"event_type":      name,
				},
			)
		}
		if affected, affectedErr := result.RowsAffected(); affectedErr == nil {
			inserted += int(affected)
		}
	}

	if err := tx.Commit(); err != nil {
		g.logger.WithError(err).Warn("event type seed commit failed")
		return 0, apperrors.NewInternal(
			"DB_EVENT_TYPE_SEED_FAILED",
			"failed to seed event types",
			map[string]any{"database_target": g.databaseTarget},
		)
	}

	g.logger.WithFields(logrus.Fields{
		"requested": len(names),
		"inserted":  inserted,
	}).Info("event types seeded")
	return inserted, nil
}
