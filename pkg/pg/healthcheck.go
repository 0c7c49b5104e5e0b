package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Healthcheck returns a check that pings the pool behind a pgstore. The idrole
// health command runs it for --store postgres, and the pgstore tests run it
// after applying the schema; failures are joined with ErrHealthcheckFailed.
func Healthcheck(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
