package pgstore

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/pg"
)

// reader implements paper.Reader over a pool or a transaction.
type reader struct {
	q querier
}

// GetIdentity returns the identity or paper.ErrIdentityNotFound.
func (r reader) GetIdentity(ctx context.Context, identityID uuid.UUID) (*paper.Identity, error) {
	var (
		identity paper.Identity
		kind     string
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, kind, display_name, email, phone, verified_at, active, created_at
		FROM identities WHERE id = $1`, identityID,
	).Scan(
		&identity.ID, &kind, &identity.DisplayName, &identity.Email, &identity.Phone,
		&identity.VerifiedAt, &identity.Active, &identity.CreatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, paper.ErrIdentityNotFound
		}
		return nil, errors.Join(paper.ErrStorage, err)
	}
	identity.Kind = paper.IdentityKind(kind)
	return &identity, nil
}

// GetPapersForIdentity returns every paper of the identity ordered by creation time.
func (r reader) GetPapersForIdentity(ctx context.Context, identityID uuid.UUID) ([]paper.Paper, error) {
	if err := r.requireIdentity(ctx, identityID); err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, identity_id, paper_type, business_id, payload, active, created_at
		FROM papers WHERE identity_id = $1
		ORDER BY created_at, id`, identityID)
	if err != nil {
		return nil, errors.Join(paper.ErrStorage, err)
	}

	papers, err := pgx.CollectRows(rows, scanPaper)
	if err != nil {
		return nil, errors.Join(paper.ErrStorage, err)
	}
	return papers, nil
}

// GetBusinessRegistrationsForIdentity returns the businesses the identity owns.
func (r reader) GetBusinessRegistrationsForIdentity(ctx context.Context, identityID uuid.UUID) ([]paper.BusinessRegistration, error) {
	if err := r.requireIdentity(ctx, identityID); err != nil {
		return nil, err
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, owner_id, legal_name, business_type, registration_number, created_at
		FROM business_registrations WHERE owner_id = $1
		ORDER BY created_at, id`, identityID)
	if err != nil {
		return nil, errors.Join(paper.ErrStorage, err)
	}

	regs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (paper.BusinessRegistration, error) {
		var (
			reg          paper.BusinessRegistration
			businessType string
		)
		err := row.Scan(&reg.ID, &reg.OwnerID, &reg.LegalName, &businessType, &reg.RegistrationNumber, &reg.CreatedAt)
		reg.BusinessType = paper.BusinessType(businessType)
		return reg, err
	})
	if err != nil {
		return nil, errors.Join(paper.ErrStorage, err)
	}
	return regs, nil
}

func (r reader) requireIdentity(ctx context.Context, identityID uuid.UUID) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM identities WHERE id = $1)`, identityID).Scan(&exists); err != nil {
		return errors.Join(paper.ErrStorage, err)
	}
	if !exists {
		return paper.ErrIdentityNotFound
	}
	return nil
}

func scanPaper(row pgx.CollectableRow) (paper.Paper, error) {
	var (
		p          paper.Paper
		paperType  string
		businessID uuid.NullUUID
	)
	if err := row.Scan(&p.ID, &p.IdentityID, &paperType, &businessID, &p.Payload, &p.Active, &p.CreatedAt); err != nil {
		return paper.Paper{}, err
	}
	p.Type = paper.Type(paperType)
	if businessID.Valid {
		p.BusinessID = businessID.UUID
	}
	return p, nil
}
