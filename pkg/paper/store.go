package paper

import (
	"context"

	"github.com/google/uuid"
)

// Reader is the read side of the paper store.
type Reader interface {
	// GetIdentity returns the identity or ErrIdentityNotFound.
	GetIdentity(ctx context.Context, identityID uuid.UUID) (*Identity, error)

	// GetPapersForIdentity returns every paper owned by the identity, active or not,
	// ordered by creation time.
	GetPapersForIdentity(ctx context.Context, identityID uuid.UUID) ([]Paper, error)

	// GetBusinessRegistrationsForIdentity returns the businesses owned by the identity.
	GetBusinessRegistrationsForIdentity(ctx context.Context, identityID uuid.UUID) ([]BusinessRegistration, error)
}

// Store defines the persistence contract the engine depends on.
type Store interface {
	Reader

	// InsertIdentity stores a new identity.
	InsertIdentity(ctx context.Context, identity *Identity) error

	// InsertPaper stores a new paper.
	InsertPaper(ctx context.Context, paper *Paper) error

	// InsertBusinessRegistration stores a business together with the
	// business_registration paper that created it. Both are written or neither is.
	InsertBusinessRegistration(ctx context.Context, reg *BusinessRegistration, paper *Paper) error

	// DeactivatePaper clears the active flag of a paper owned by the identity.
	DeactivatePaper(ctx context.Context, identityID, paperID uuid.UUID) error

	// DeactivateIdentity clears the active flag of an identity.
	DeactivateIdentity(ctx context.Context, identityID uuid.UUID) error

	// ReadSnapshot runs fn against a Reader that observes a single consistent
	// state of the store. Writes committed while fn runs are not visible to it.
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context, r Reader) error) error
}
