package pgstore

import (
	"context"
	"embed"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/pg"
)

// Migrations holds the schema; pass it to pg.Migrate with MigrationsPath "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// querier is satisfied by *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements paper.Store on PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
	reader
}

var _ paper.Store = (*Store)(nil)

// New creates a Store over the pool. The schema must already be migrated.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, reader: reader{q: pool}}
}

// InsertIdentity stores a new identity.
func (s *Store) InsertIdentity(ctx context.Context, identity *paper.Identity) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO identities (id, kind, display_name, email, phone, verified_at, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		identity.ID, string(identity.Kind), identity.DisplayName, identity.Email, identity.Phone,
		identity.VerifiedAt, identity.Active, identity.CreatedAt,
	)
	return mapWriteError(err)
}

// InsertPaper stores a new paper.
func (s *Store) InsertPaper(ctx context.Context, p *paper.Paper) error {
	return insertPaper(ctx, s.pool, p)
}

// InsertBusinessRegistration stores the business and its registration paper
// in one transaction.
func (s *Store) InsertBusinessRegistration(ctx context.Context, reg *paper.BusinessRegistration, p *paper.Paper) error {
	err := pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO business_registrations (id, owner_id, legal_name, business_type, registration_number, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			reg.ID, reg.OwnerID, reg.LegalName, string(reg.BusinessType), reg.RegistrationNumber, reg.CreatedAt,
		)
		if err != nil {
			return mapWriteError(err)
		}
		return insertPaper(ctx, tx, p)
	})
	if err != nil && !isMapped(err) {
		return errors.Join(paper.ErrStorage, err)
	}
	return err
}

// DeactivatePaper clears the active flag of a paper owned by the identity.
func (s *Store) DeactivatePaper(ctx context.Context, identityID, paperID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE papers SET active = FALSE WHERE id = $1 AND identity_id = $2`,
		paperID, identityID,
	)
	if err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return paper.ErrPaperNotFound
	}
	return nil
}

// DeactivateIdentity clears the active flag of an identity.
func (s *Store) DeactivateIdentity(ctx context.Context, identityID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE identities SET active = FALSE WHERE id = $1`, identityID)
	if err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return paper.ErrIdentityNotFound
	}
	return nil
}

// ReadSnapshot runs fn inside a read-only REPEATABLE READ transaction, so
// every read it makes sees the same committed state.
func (s *Store) ReadSnapshot(ctx context.Context, fn func(ctx context.Context, r paper.Reader) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, reader{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	return nil
}

func insertPaper(ctx context.Context, q querier, p *paper.Paper) error {
	var businessID *uuid.UUID
	if p.HasBusiness() {
		businessID = &p.BusinessID
	}
	var payload any
	if len(p.Payload) > 0 {
		payload = p.Payload
	}

	_, err := q.Exec(ctx, `
		INSERT INTO papers (id, identity_id, paper_type, business_id, payload, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.IdentityID, string(p.Type), businessID, payload, p.Active, p.CreatedAt,
	)
	return mapWriteError(err)
}

func mapWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case pg.IsDuplicateKeyError(err):
		return paper.ErrDuplicate
	case pg.IsForeignKeyViolationError(err):
		return paper.ErrIdentityNotFound
	default:
		return errors.Join(paper.ErrStorage, err)
	}
}

func isMapped(err error) bool {
	return errors.Is(err, paper.ErrStorage) ||
		errors.Is(err, paper.ErrDuplicate) ||
		errors.Is(err, paper.ErrIdentityNotFound)
}
