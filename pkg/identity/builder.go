package identity

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/smartplace/idrole/pkg/logger"
	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/roles"
)

// SnapshotReader runs reads against one consistent state of the paper store.
// paper.Store implementations satisfy it.
type SnapshotReader interface {
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context, r paper.Reader) error) error
}

// Builder assembles authorization contexts from the paper store.
// It never writes and keeps no state between calls.
type Builder struct {
	store  SnapshotReader
	logger *slog.Logger
}

// NewBuilder creates a Builder reading from store.
func NewBuilder(store SnapshotReader, opts ...Option) *Builder {
	cfg := &builderConfig{logger: slog.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Builder{
		store:  store,
		logger: cfg.logger.With(logger.Component("identity")),
	}
}

// BuildContext reads the identity, its papers and its businesses in one
// snapshot and computes its roles.
// Store errors are returned unchanged. A deactivated identity yields
// ErrIdentityInactive.
func (b *Builder) BuildContext(ctx context.Context, identityID uuid.UUID) (*Context, error) {
	var (
		identity   *paper.Identity
		papers     []paper.Paper
		businesses []paper.BusinessRegistration
	)

	err := b.store.ReadSnapshot(ctx, func(ctx context.Context, r paper.Reader) error {
		var err error
		if identity, err = r.GetIdentity(ctx, identityID); err != nil {
			return err
		}
		if papers, err = r.GetPapersForIdentity(ctx, identityID); err != nil {
			return err
		}
		businesses, err = r.GetBusinessRegistrationsForIdentity(ctx, identityID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if !identity.Active {
		return nil, errors.Join(ErrIdentityInactive, paper.ErrIdentityInactive)
	}

	for _, p := range roles.Unrecognized(papers) {
		b.logger.WarnContext(ctx, "ignoring paper of unrecognized type",
			logger.IdentityID(identityID),
			logger.PaperID(p.ID),
			logger.PaperType(string(p.Type)),
		)
	}

	active := paper.ActiveOnly(papers)
	assignments := roles.Compute(active)
	available := availableRoles(assignments)

	b.logger.DebugContext(ctx, "identity context built",
		logger.IdentityID(identityID),
		logger.Count(len(assignments)),
		logger.Role(roles.Primary(available)),
	)

	return &Context{
		Identity:              *identity,
		Papers:                active,
		BusinessRegistrations: businesses,
		Assignments:           assignments,
		AvailableRoles:        available,
		PrimaryRole:           roles.Primary(available),
	}, nil
}

// SwitchContext builds the context of the identity and narrows it to the
// business. It returns ErrAccessDenied when the identity holds no role there.
// Nothing is stored; switching again is just another call.
func (b *Builder) SwitchContext(ctx context.Context, identityID, businessID uuid.UUID) (*Switch, error) {
	ic, err := b.BuildContext(ctx, identityID)
	if err != nil {
		return nil, err
	}

	sw, err := ic.Switch(businessID)
	if err != nil {
		b.logger.InfoContext(ctx, "business context switch denied",
			logger.IdentityID(identityID),
			logger.BusinessID(businessID),
		)
		return nil, err
	}
	return sw, nil
}
