// Package papertest holds the behaviour every paper.Store must share, so
// each backend runs the same checks.
package papertest

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartplace/idrole/pkg/identity"
	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/roles"
)

// Clock returns a clock that advances one millisecond per call, starting at a
// whole second. Backends that keep millisecond precision round-trip it exactly.
func Clock() func() time.Time {
	base := time.Now().UTC().Truncate(time.Second)
	var n atomic.Int64
	return func() time.Time {
		return base.Add(time.Duration(n.Add(1)) * time.Millisecond)
	}
}

// RunStoreContract exercises store through paper.Service and
// identity.Builder. Every subtest registers its own identities, so a shared
// database does not need to be empty.
func RunStoreContract(t *testing.T, store paper.Store) {
	t.Helper()

	svc := paper.NewService(store, paper.WithClock(Clock()))
	ctx := context.Background()

	register := func(t *testing.T) uuid.UUID {
		t.Helper()
		id, err := svc.RegisterIdentity(ctx, paper.IdentityFields{
			Kind:        paper.KindPersonal,
			DisplayName: "Store Contract",
			Email:       "contract@example.com",
		})
		require.NoError(t, err)
		return id.ID
	}

	t.Run("identity round trip", func(t *testing.T) {
		id := register(t)

		got, err := store.GetIdentity(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		assert.Equal(t, paper.KindPersonal, got.Kind)
		assert.Equal(t, "contract@example.com", got.Email)
		assert.True(t, got.Active)
		assert.Nil(t, got.VerifiedAt)
	})

	t.Run("unknown identity", func(t *testing.T) {
		_, err := store.GetIdentity(ctx, uuid.New())
		assert.ErrorIs(t, err, paper.ErrIdentityNotFound)

		_, err = store.GetPapersForIdentity(ctx, uuid.New())
		assert.ErrorIs(t, err, paper.ErrIdentityNotFound)

		_, err = store.GetBusinessRegistrationsForIdentity(ctx, uuid.New())
		assert.ErrorIs(t, err, paper.ErrIdentityNotFound)
	})

	t.Run("papers are ordered and keep their payload", func(t *testing.T) {
		id := register(t)
		biz := uuid.New()

		first, err := svc.CreatePaper(ctx, id, paper.TypeEmploymentContract, biz, map[string]any{"position": "barista"})
		require.NoError(t, err)
		second, err := svc.CreatePaper(ctx, id, paper.TypeAuthorityDelegation, biz, nil)
		require.NoError(t, err)

		papers, err := store.GetPapersForIdentity(ctx, id)
		require.NoError(t, err)
		require.Len(t, papers, 2)
		assert.Equal(t, first.ID, papers[0].ID)
		assert.Equal(t, second.ID, papers[1].ID)
		assert.Equal(t, biz, papers[0].BusinessID)
		assert.Equal(t, "barista", papers[0].Payload["position"])
		assert.Empty(t, papers[1].Payload)
		assert.True(t, first.CreatedAt.Equal(papers[0].CreatedAt))
	})

	t.Run("global paper has no business", func(t *testing.T) {
		id := register(t)
		_, err := svc.CreatePaper(ctx, id, paper.TypeAdminAppointment, uuid.Nil, nil)
		require.NoError(t, err)

		papers, err := store.GetPapersForIdentity(ctx, id)
		require.NoError(t, err)
		require.Len(t, papers, 1)
		assert.False(t, papers[0].HasBusiness())
	})

	t.Run("duplicate ids", func(t *testing.T) {
		id := register(t)
		p := &paper.Paper{
			ID:         uuid.New(),
			IdentityID: id,
			Type:       paper.TypeEmploymentContract,
			BusinessID: uuid.New(),
			Active:     true,
			CreatedAt:  time.Now().UTC(),
		}
		require.NoError(t, store.InsertPaper(ctx, p))
		assert.ErrorIs(t, store.InsertPaper(ctx, p), paper.ErrDuplicate)

		existing, err := store.GetIdentity(ctx, id)
		require.NoError(t, err)
		assert.ErrorIs(t, store.InsertIdentity(ctx, existing), paper.ErrDuplicate)
	})

	t.Run("paper for missing identity", func(t *testing.T) {
		p := &paper.Paper{
			ID:         uuid.New(),
			IdentityID: uuid.New(),
			Type:       paper.TypeAdminAppointment,
			Active:     true,
			CreatedAt:  time.Now().UTC(),
		}
		assert.ErrorIs(t, store.InsertPaper(ctx, p), paper.ErrIdentityNotFound)
	})

	t.Run("business registration is atomic", func(t *testing.T) {
		id := register(t)

		reg, err := svc.CreateBusinessRegistration(ctx, id, paper.BusinessFields{
			LegalName:    "Harbor Bakery",
			BusinessType: paper.BusinessCorporation,
		})
		require.NoError(t, err)

		regs, err := store.GetBusinessRegistrationsForIdentity(ctx, id)
		require.NoError(t, err)
		require.Len(t, regs, 1)
		assert.Equal(t, reg.ID, regs[0].ID)
		assert.Equal(t, paper.BusinessCorporation, regs[0].BusinessType)

		// a colliding paper id must leave no second business behind
		papers, err := store.GetPapersForIdentity(ctx, id)
		require.NoError(t, err)
		dupe := papers[0]
		err = store.InsertBusinessRegistration(ctx, &paper.BusinessRegistration{
			ID:           uuid.New(),
			OwnerID:      id,
			LegalName:    "Ghost Bakery",
			BusinessType: paper.BusinessCorporation,
			CreatedAt:    time.Now().UTC(),
		}, &dupe)
		assert.ErrorIs(t, err, paper.ErrDuplicate)

		regs, err = store.GetBusinessRegistrationsForIdentity(ctx, id)
		require.NoError(t, err)
		assert.Len(t, regs, 1)
	})

	t.Run("deactivate", func(t *testing.T) {
		id := register(t)
		p, err := svc.CreatePaper(ctx, id, paper.TypeEmploymentContract, uuid.New(), nil)
		require.NoError(t, err)

		require.NoError(t, store.DeactivatePaper(ctx, id, p.ID))
		papers, err := store.GetPapersForIdentity(ctx, id)
		require.NoError(t, err)
		assert.False(t, papers[0].Active)

		assert.ErrorIs(t, store.DeactivatePaper(ctx, uuid.New(), p.ID), paper.ErrPaperNotFound)
		assert.ErrorIs(t, store.DeactivateIdentity(ctx, uuid.New()), paper.ErrIdentityNotFound)

		require.NoError(t, store.DeactivateIdentity(ctx, id))
		got, err := store.GetIdentity(ctx, id)
		require.NoError(t, err)
		assert.False(t, got.Active)
	})

	t.Run("snapshot returns the callback error", func(t *testing.T) {
		sentinel := errors.New("stop")
		err := store.ReadSnapshot(ctx, func(context.Context, paper.Reader) error { return sentinel })
		assert.ErrorIs(t, err, sentinel)
	})

	t.Run("build and switch context", func(t *testing.T) {
		builder := identity.NewBuilder(store)
		id := register(t)

		reg, err := svc.CreateBusinessRegistration(ctx, id, paper.BusinessFields{
			LegalName:    "Night Owl Diner",
			BusinessType: paper.BusinessSoleProprietorship,
		})
		require.NoError(t, err)
		elsewhere := uuid.New()
		_, err = svc.CreatePaper(ctx, id, paper.TypeEmploymentContract, elsewhere, nil)
		require.NoError(t, err)

		ictx, err := builder.BuildContext(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, roles.Owner, ictx.PrimaryRole)
		assert.True(t, roles.Has(ictx.Assignments, roles.Owner, roles.ScopedTo(reg.ID)))
		assert.True(t, roles.Has(ictx.Assignments, roles.Worker, roles.ScopedTo(elsewhere)))
		require.Len(t, ictx.BusinessRegistrations, 1)

		sw, err := builder.SwitchContext(ctx, id, elsewhere)
		require.NoError(t, err)
		assert.Equal(t, roles.Worker, sw.PrimaryRole)
	})
}

// RunIsolatedSnapshot checks that writes committed while a snapshot is open
// stay invisible to it. Stores that block writers during a snapshot, such as
// paper.MemoryStore, cannot run it.
func RunIsolatedSnapshot(t *testing.T, store paper.Store) {
	t.Helper()

	svc := paper.NewService(store, paper.WithClock(Clock()))
	ctx := context.Background()

	id, err := svc.RegisterIdentity(ctx, paper.IdentityFields{Kind: paper.KindPersonal, DisplayName: "Snapshot"})
	require.NoError(t, err)
	_, err = svc.CreatePaper(ctx, id.ID, paper.TypeEmploymentContract, uuid.New(), nil)
	require.NoError(t, err)

	err = store.ReadSnapshot(ctx, func(ctx context.Context, r paper.Reader) error {
		before, err := r.GetPapersForIdentity(ctx, id.ID)
		if err != nil {
			return err
		}

		if _, err := svc.CreatePaper(context.Background(), id.ID, paper.TypeAuthorityDelegation, uuid.New(), nil); err != nil {
			return err
		}

		after, err := r.GetPapersForIdentity(ctx, id.ID)
		if err != nil {
			return err
		}
		assert.Len(t, after, len(before))
		return nil
	})
	require.NoError(t, err)

	papers, err := store.GetPapersForIdentity(ctx, id.ID)
	require.NoError(t, err)
	assert.Len(t, papers, 2)
}
