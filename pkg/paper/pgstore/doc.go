// Package pgstore implements paper.Store on PostgreSQL with pgx/v5.
//
// The schema ships embedded in Migrations and is applied with pg.Migrate.
// ReadSnapshot runs in a read-only REPEATABLE READ transaction, so an identity
// context is always built from one committed state even while papers are being
// written. Driver and network failures are joined with paper.ErrStorage;
// missing rows and constraint violations map to the paper package's not-found
// and duplicate errors.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	if err := pg.Migrate(ctx, pool, cfg, pgstore.Migrations, log); err != nil {
//	    return err
//	}
//	store := pgstore.New(pool)
package pgstore
