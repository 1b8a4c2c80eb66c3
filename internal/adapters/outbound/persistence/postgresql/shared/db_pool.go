package shared

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sirupsen/logrus"
)

const (
	maxOpenConns    = 20
	maxIdleConns    = 20
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 30 * time.Minute
)

// NewDatabasePool opens the shared pool used by the subscription directory.
// sql.Open does not dial; reachability is checked by the bootstrap gateway.
func NewDatabasePool(databaseURL string, databaseTarget string, logger logrus.FieldLogger) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"database_target": databaseTarget,
			"max_open_conns":  maxOpenConns,
			"max_idle_conns":  maxIdleConns,
		}).Info("database pool initialized")
	}

	return db, nil
}
