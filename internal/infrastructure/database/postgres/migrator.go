package postgres

import (
	stderrors "errors"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/migrations"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// Migrator applies the embedded schema migrations against the connection's
// database.
type Migrator struct {
	m      *migrate.Migrate
	logger logging.Logger
}

// NewMigrator builds a migrator over the embedded migration files. It
// borrows the connection's pool through pgx's database/sql adapter; closing
// the migrator releases the adapter without touching the pool.
func NewMigrator(conn *Connection, logger logging.Logger) (*Migrator, error) {
	if conn == nil {
		return nil, errors.New(errors.ErrCodeDatabaseError, "postgres connection is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "loading embedded migrations failed")
	}

	db := stdlib.OpenDBFromPool(conn.Pool())
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "postgres migration driver failed")
	}

	m, err := migrate.NewWithInstance("iofs", src, "pgx", driver)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "migrator construction failed")
	}
	return &Migrator{m: m, logger: logger}, nil
}

// Up applies every pending migration. Already being up to date is not an
// error.
func (mg *Migrator) Up() error {
	if err := mg.m.Up(); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("database schema up to date")
			return nil
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "schema migration failed")
	}

	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	mg.logger.Info("database schema migrated",
		logging.Int("version", int(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}

// Down rolls every migration back. Intended for integration tests and
// disposable environments.
func (mg *Migrator) Down() error {
	if err := mg.m.Down(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "schema rollback failed")
	}
	return nil
}

// Version reports the applied migration version and whether a previous run
// left the schema dirty. A database with no applied migrations reports
// version 0 with no error.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, errors.ErrCodeDatabaseError, "migration version lookup failed")
	}
	return version, dirty, nil
}

// Close releases the migration source and the database/sql adapter.
func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	if srcErr != nil {
		return errors.Wrap(srcErr, errors.ErrCodeDatabaseError, "closing migration source failed")
	}
	if dbErr != nil {
		return errors.Wrap(dbErr, errors.ErrCodeDatabaseError, "closing migration database handle failed")
	}
	return nil
}
