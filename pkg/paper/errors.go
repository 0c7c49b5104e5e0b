package paper

import "errors"

// Domain errors for paper operations.
var (
	// ErrInvalidPaper is returned when a paper fails validation before it is stored.
	ErrInvalidPaper = errors.New("paper.invalid_paper")

	// ErrInvalidBusiness is returned when a business registration fails validation.
	ErrInvalidBusiness = errors.New("paper.invalid_business")

	// ErrInvalidIdentity is returned when an identity fails validation.
	ErrInvalidIdentity = errors.New("paper.invalid_identity")

	// ErrIdentityNotFound is returned when the identity does not exist.
	ErrIdentityNotFound = errors.New("paper.identity_not_found")

	// ErrIdentityInactive is returned when writing papers for a deactivated identity.
	ErrIdentityInactive = errors.New("paper.identity_inactive")

	// ErrPaperNotFound is returned when the paper does not exist or belongs to another identity.
	ErrPaperNotFound = errors.New("paper.paper_not_found")

	// ErrDuplicate is returned when a record with the same id already exists.
	ErrDuplicate = errors.New("paper.duplicate")

	// ErrStorage wraps failures of the underlying storage engine.
	ErrStorage = errors.New("paper.storage_failure")
)
