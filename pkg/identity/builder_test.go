package identity_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartplace/idrole/pkg/identity"
	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/permission"
	"github.com/smartplace/idrole/pkg/roles"
)

type fixture struct {
	store   *paper.MemoryStore
	service *paper.Service
	builder *identity.Builder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := paper.NewMemoryStore()
	return &fixture{
		store:   store,
		service: paper.NewService(store),
		builder: identity.NewBuilder(store),
	}
}

func (f *fixture) person(t *testing.T) uuid.UUID {
	t.Helper()
	id, err := f.service.RegisterIdentity(context.Background(), paper.IdentityFields{
		Kind:        paper.KindPersonal,
		DisplayName: "Test Person",
	})
	require.NoError(t, err)
	return id.ID
}

func (f *fixture) business(t *testing.T, ownerID uuid.UUID) uuid.UUID {
	t.Helper()
	reg, err := f.service.CreateBusinessRegistration(context.Background(), ownerID, paper.BusinessFields{
		LegalName:    "Corner Cafe",
		BusinessType: paper.BusinessSoleProprietorship,
	})
	require.NoError(t, err)
	return reg.ID
}

func (f *fixture) paper(t *testing.T, identityID uuid.UUID, pt paper.Type, businessID uuid.UUID) *paper.Paper {
	t.Helper()
	p, err := f.service.CreatePaper(context.Background(), identityID, pt, businessID, nil)
	require.NoError(t, err)
	return p
}

func TestBuildContext_NoPapers(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	id := f.person(t)

	ic, err := f.builder.BuildContext(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, ic.Identity.ID)
	assert.Empty(t, ic.Papers)
	assert.Empty(t, ic.Assignments)
	assert.Equal(t, []roles.Role{roles.Seeker}, ic.AvailableRoles)
	assert.Equal(t, roles.Seeker, ic.PrimaryRole)
}

func TestBuildContext_BusinessRegistration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	id := f.person(t)
	bizX := f.business(t, id)
	bizY := uuid.New()

	ic, err := f.builder.BuildContext(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, []roles.Role{roles.Owner}, ic.AvailableRoles)
	assert.Equal(t, roles.Owner, ic.PrimaryRole)
	assert.True(t, roles.Has(ic.Assignments, roles.Owner, roles.ScopedTo(bizX)))
	require.Len(t, ic.BusinessRegistrations, 1)
	assert.Equal(t, bizX, ic.BusinessRegistrations[0].ID)
	assert.Equal(t, []uuid.UUID{bizX}, ic.Businesses())

	resolver, err := permission.NewResolver(ctx, permission.DefaultMatrixSource())
	require.NoError(t, err)
	assert.True(t, resolver.HasPermission(ic.Subject(), permission.ResourceOrganization, permission.ActionManage, permission.InBusiness(bizX)))
	assert.False(t, resolver.HasPermission(ic.Subject(), permission.ResourceOrganization, permission.ActionManage, permission.InBusiness(bizY)))
}

func TestBuildContext_ManagerRevokedWithContract(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newFixture(t)
	owner := f.person(t)
	biz := f.business(t, owner)
	employee := f.person(t)

	contract := f.paper(t, employee, paper.TypeEmploymentContract, biz)
	f.paper(t, employee, paper.TypeAuthorityDelegation, biz)

	ic, err := f.builder.BuildContext(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, []roles.Role{roles.Manager, roles.Worker}, ic.AvailableRoles)
	assert.Equal(t, roles.Manager, ic.PrimaryRole)

	require.NoError(t, f.service.DeactivatePaper(ctx, employee, contract.ID))

	ic, err = f.builder.BuildContext(ctx, employee)
	require.NoError(t, err)
	assert.Empty(t, ic.Assignments)
	assert.Equal(t, roles.Seeker, ic.PrimaryRole)
	assert.Len(t, ic.Papers, 1, "only active papers are kept")
}

func TestBuildContext_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unknown identity", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		_, err := f.builder.BuildContext(ctx, uuid.New())
		assert.True(t, errors.Is(err, paper.ErrIdentityNotFound))
	})

	t.Run("deactivated identity", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		id := f.person(t)
		require.NoError(t, f.service.DeactivateIdentity(ctx, id))

		_, err := f.builder.BuildContext(ctx, id)
		assert.True(t, errors.Is(err, identity.ErrIdentityInactive))
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		t.Parallel()

		boom := errors.Join(paper.ErrStorage, errors.New("connection reset"))
		builder := identity.NewBuilder(failingStore{err: boom})

		_, err := builder.BuildContext(ctx, uuid.New())
		assert.ErrorIs(t, err, boom)
		assert.True(t, errors.Is(err, paper.ErrStorage))
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		f := newFixture(t)
		id := f.person(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := f.builder.BuildContext(cctx, id)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestBuildContext_UnrecognizedPaperLogged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := paper.NewMemoryStore()
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	builder := identity.NewBuilder(store, identity.WithLogger(log))

	id := uuid.New()
	require.NoError(t, store.InsertIdentity(ctx, &paper.Identity{ID: id, Kind: paper.KindPersonal, DisplayName: "x", Active: true}))
	require.NoError(t, store.InsertPaper(ctx, &paper.Paper{
		ID:         uuid.New(),
		IdentityID: id,
		Type:       paper.Type("library_card"),
		BusinessID: uuid.New(),
		Active:     true,
		CreatedAt:  time.Now(),
	}))

	ic, err := builder.BuildContext(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, roles.Seeker, ic.PrimaryRole)
	assert.Contains(t, buf.String(), "ignoring paper of unrecognized type")
	assert.Contains(t, buf.String(), "library_card")
}

type failingStore struct {
	err error
}

func (s failingStore) ReadSnapshot(ctx context.Context, fn func(ctx context.Context, r paper.Reader) error) error {
	return s.err
}
