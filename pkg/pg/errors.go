package pg

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToOpenDBConnection = errors.New("pg.failed_to_open_connection")
	ErrEmptyConnectionString    = errors.New("pg.empty_connection_string")
	ErrHealthcheckFailed        = errors.New("pg.healthcheck_failed")
	ErrFailedToParseDBConfig    = errors.New("pg.failed_to_parse_config")
	ErrFailedToApplyMigrations  = errors.New("pg.failed_to_apply_migrations")
	ErrMigrationsDirNotFound    = errors.New("pg.migrations_dir_not_found")
	ErrMigrationPathNotProvided = errors.New("pg.migration_path_not_provided")
)

// IsNotFoundError reports whether err is pgx.ErrNoRows.
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError reports a unique constraint violation (SQLSTATE 23505).
func IsDuplicateKeyError(err error) bool {
	return hasCode(err, "23505")
}

// IsForeignKeyViolationError reports a referential integrity violation (SQLSTATE 23503).
func IsForeignKeyViolationError(err error) bool {
	return hasCode(err, "23503")
}

func hasCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
