// Package pg connects to PostgreSQL with pgx/v5 and applies goose migrations.
//
// Config is populated from PG_* environment variables. Connect opens a
// *pgxpool.Pool and retries until the database answers a ping. Migrate runs
// goose migrations either from disk or from an embedded filesystem, so a
// storage package can ship its own schema:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, pgstore.Migrations, log); err != nil {
//	    return err
//	}
//
// The Is*Error helpers classify pgx and PostgreSQL errors (no rows, unique
// violation, foreign key violation) so stores can map them to domain errors.
package pg
