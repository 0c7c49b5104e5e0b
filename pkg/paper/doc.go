// Package paper defines identities, papers and business registrations, the
// storage contract the role engine reads them through, and the service that
// validates and writes them.
//
// A paper is an immutable document recording a verified fact about its owner:
// a business registration, an employment contract, a delegation of authority,
// a franchise agreement or a platform administrator appointment. Papers are
// never deleted; deactivation is the only mutation, and it is how roles are
// revoked.
//
// # Storage
//
// Store is the contract every backend implements. MemoryStore keeps records in
// memory and is suitable for tests and single-process tools. The pgstore and
// mongostore subpackages implement the same contract on PostgreSQL and
// MongoDB, and papertest holds the checks all of them pass. ReadSnapshot gives a
// reader that observes one consistent state, which is what the identity
// package uses to build an authorization context.
//
// # Writing papers
//
//	store := paper.NewMemoryStore()
//	svc := paper.NewService(store, paper.WithLogger(log))
//
//	id, err := svc.RegisterIdentity(ctx, paper.IdentityFields{
//		Kind:        paper.KindPersonal,
//		DisplayName: "Jane Roe",
//	})
//
//	biz, err := svc.CreateBusinessRegistration(ctx, id.ID, paper.BusinessFields{
//		LegalName:    "Roe Bakery",
//		BusinessType: paper.BusinessSoleProprietorship,
//	})
//
//	contract, err := svc.CreatePaper(ctx, workerID, paper.TypeEmploymentContract, biz.ID, nil)
//
// # Events
//
// Every successful write is announced through a Publisher so session layers
// can rebuild stale contexts. The redispub subpackage publishes them on a
// Redis channel. Publishing failures are logged and never fail the write.
//
// # Error Handling
//
// Validation failures are returned as ErrInvalidPaper, ErrInvalidBusiness or
// ErrInvalidIdentity joined with validator.ValidationErrors describing the
// offending fields. Storage failures from the database backends are joined with ErrStorage.
// Nothing is written when validation fails.
package paper
