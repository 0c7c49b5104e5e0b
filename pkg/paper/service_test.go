package paper_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/validator"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []paper.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event paper.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []paper.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []paper.EventType
	for _, e := range p.events {
		result = append(result, e.Type)
	}
	return result
}

func newService(t *testing.T, opts ...paper.ServiceOption) (*paper.Service, *paper.MemoryStore, *recordingPublisher) {
	t.Helper()
	store := paper.NewMemoryStore()
	pub := &recordingPublisher{}
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	opts = append([]paper.ServiceOption{
		paper.WithPublisher(pub),
		paper.WithClock(func() time.Time { return now }),
	}, opts...)
	return paper.NewService(store, opts...), store, pub
}

func registerPerson(t *testing.T, svc *paper.Service) *paper.Identity {
	t.Helper()
	id, err := svc.RegisterIdentity(context.Background(), paper.IdentityFields{
		Kind:        paper.KindPersonal,
		DisplayName: "  Jane Roe ",
		Email:       "jane@example.com",
	})
	require.NoError(t, err)
	return id
}

func TestService_RegisterIdentity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stores active identity", func(t *testing.T) {
		t.Parallel()

		svc, store, pub := newService(t)
		id := registerPerson(t, svc)

		assert.Equal(t, "Jane Roe", id.DisplayName)
		assert.True(t, id.Active)

		stored, err := store.GetIdentity(ctx, id.ID)
		require.NoError(t, err)
		assert.Equal(t, *id, *stored)
		assert.Equal(t, []paper.EventType{paper.EventIdentityRegistered}, pub.types())
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		t.Parallel()

		svc, _, pub := newService(t)
		_, err := svc.RegisterIdentity(ctx, paper.IdentityFields{
			Kind:  paper.IdentityKind("robot"),
			Email: "not-an-email",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, paper.ErrInvalidIdentity))

		verrs := validator.ExtractValidationErrors(err)
		assert.True(t, verrs.Has("kind"))
		assert.True(t, verrs.Has("display_name"))
		assert.True(t, verrs.Has("email"))
		assert.Empty(t, pub.types())
	})
}

func TestService_CreatePaper(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name       string
		paperType  paper.Type
		business   bool
		payload    map[string]any
		wantErr    error
		wantFields []string
	}{
		{
			name:      "employment contract",
			paperType: paper.TypeEmploymentContract,
			business:  true,
		},
		{
			name:      "franchise agreement with party",
			paperType: paper.TypeFranchiseAgreement,
			business:  true,
			payload:   map[string]any{paper.PayloadParty: "franchisee"},
		},
		{
			name:      "admin appointment without business",
			paperType: paper.TypeAdminAppointment,
		},
		{
			name:       "unknown type",
			paperType:  paper.Type("library_card"),
			business:   true,
			wantErr:    paper.ErrInvalidPaper,
			wantFields: []string{"type"},
		},
		{
			name:       "business scoped type without business",
			paperType:  paper.TypeAuthorityDelegation,
			wantErr:    paper.ErrInvalidPaper,
			wantFields: []string{"business_id"},
		},
		{
			name:       "platform type with business",
			paperType:  paper.TypeAdminAppointment,
			business:   true,
			wantErr:    paper.ErrInvalidPaper,
			wantFields: []string{"business_id"},
		},
		{
			name:       "franchise agreement without party",
			paperType:  paper.TypeFranchiseAgreement,
			business:   true,
			wantErr:    paper.ErrInvalidPaper,
			wantFields: []string{paper.PayloadParty},
		},
		{
			name:       "business registration for a business not owned",
			paperType:  paper.TypeBusinessRegistration,
			business:   true,
			wantErr:    paper.ErrInvalidPaper,
			wantFields: []string{"business_id"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc, store, pub := newService(t)
			id := registerPerson(t, svc)

			var businessID uuid.UUID
			if tt.business {
				businessID = uuid.New()
			}

			p, err := svc.CreatePaper(ctx, id.ID, tt.paperType, businessID, tt.payload)
			papers, listErr := store.GetPapersForIdentity(ctx, id.ID)
			require.NoError(t, listErr)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				verrs := validator.ExtractValidationErrors(err)
				for _, field := range tt.wantFields {
					assert.True(t, verrs.Has(field), field)
				}
				assert.Empty(t, papers, "nothing is written on validation failure")
				assert.Equal(t, []paper.EventType{paper.EventIdentityRegistered}, pub.types())
				return
			}

			require.NoError(t, err)
			assert.True(t, p.Active)
			assert.Equal(t, tt.paperType, p.Type)
			require.Len(t, papers, 1)
			assert.Equal(t, *p, papers[0])
			assert.Equal(t, []paper.EventType{paper.EventIdentityRegistered, paper.EventPaperCreated}, pub.types())
		})
	}
}

func TestService_CreatePaper_Identity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("unknown identity", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t)
		_, err := svc.CreatePaper(ctx, uuid.New(), paper.TypeEmploymentContract, uuid.New(), nil)
		assert.True(t, errors.Is(err, paper.ErrIdentityNotFound))
	})

	t.Run("deactivated identity", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t)
		id := registerPerson(t, svc)
		require.NoError(t, svc.DeactivateIdentity(ctx, id.ID))

		_, err := svc.CreatePaper(ctx, id.ID, paper.TypeEmploymentContract, uuid.New(), nil)
		assert.True(t, errors.Is(err, paper.ErrIdentityInactive))
	})

	t.Run("payload is copied", func(t *testing.T) {
		t.Parallel()

		svc, store, _ := newService(t)
		id := registerPerson(t, svc)
		payload := map[string]any{paper.PayloadParty: "franchisor"}

		p, err := svc.CreatePaper(ctx, id.ID, paper.TypeFranchiseAgreement, uuid.New(), payload)
		require.NoError(t, err)
		payload[paper.PayloadParty] = "franchisee"

		papers, err := store.GetPapersForIdentity(ctx, id.ID)
		require.NoError(t, err)
		assert.Equal(t, paper.PartyFranchisor, papers[0].Party())
		assert.Equal(t, paper.PartyFranchisor, p.Party())
	})
}

func TestService_CreateBusinessRegistration(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("stores business and registration paper", func(t *testing.T) {
		t.Parallel()

		svc, store, pub := newService(t)
		id := registerPerson(t, svc)

		// "Cafe" with a combining acute accent normalizes to the precomposed form.
		reg, err := svc.CreateBusinessRegistration(ctx, id.ID, paper.BusinessFields{
			LegalName:          " Cafe\u0301 Roe ",
			BusinessType:       paper.BusinessSoleProprietorship,
			RegistrationNumber: "123-45-67890",
		})
		require.NoError(t, err)
		assert.Equal(t, "Caf\u00e9 Roe", reg.LegalName)
		assert.Equal(t, id.ID, reg.OwnerID)

		regs, err := store.GetBusinessRegistrationsForIdentity(ctx, id.ID)
		require.NoError(t, err)
		assert.Equal(t, []paper.BusinessRegistration{*reg}, regs)

		papers, err := store.GetPapersForIdentity(ctx, id.ID)
		require.NoError(t, err)
		require.Len(t, papers, 1)
		assert.Equal(t, paper.TypeBusinessRegistration, papers[0].Type)
		assert.Equal(t, reg.ID, papers[0].BusinessID)

		assert.Equal(t, []paper.EventType{paper.EventIdentityRegistered, paper.EventBusinessRegistered}, pub.types())
	})

	t.Run("registration paper for an owned business", func(t *testing.T) {
		t.Parallel()

		svc, _, _ := newService(t)
		id := registerPerson(t, svc)
		reg, err := svc.CreateBusinessRegistration(ctx, id.ID, paper.BusinessFields{
			LegalName:    "Roe Bakery",
			BusinessType: paper.BusinessCorporation,
		})
		require.NoError(t, err)

		_, err = svc.CreatePaper(ctx, id.ID, paper.TypeBusinessRegistration, reg.ID, nil)
		assert.NoError(t, err)
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		t.Parallel()

		svc, store, _ := newService(t)
		id := registerPerson(t, svc)
		_, err := svc.CreateBusinessRegistration(ctx, id.ID, paper.BusinessFields{
			LegalName:          "   ",
			BusinessType:       paper.BusinessType("cooperative"),
			RegistrationNumber: "0123456789012345678901234567890123456789",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, paper.ErrInvalidBusiness))

		verrs := validator.ExtractValidationErrors(err)
		assert.ElementsMatch(t, []string{"legal_name", "business_type", "registration_number"}, verrs.Fields())

		regs, err := store.GetBusinessRegistrationsForIdentity(ctx, id.ID)
		require.NoError(t, err)
		assert.Empty(t, regs)
	})
}

func TestService_Deactivate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store, pub := newService(t)
	id := registerPerson(t, svc)

	p, err := svc.CreatePaper(ctx, id.ID, paper.TypeEmploymentContract, uuid.New(), nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeactivatePaper(ctx, id.ID, p.ID))
	papers, err := store.GetPapersForIdentity(ctx, id.ID)
	require.NoError(t, err)
	assert.False(t, papers[0].Active, "deactivated, not deleted")

	err = svc.DeactivatePaper(ctx, uuid.New(), p.ID)
	assert.True(t, errors.Is(err, paper.ErrPaperNotFound), "papers of other identities are not found")

	require.NoError(t, svc.DeactivateIdentity(ctx, id.ID))
	stored, err := store.GetIdentity(ctx, id.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	assert.Equal(t, []paper.EventType{
		paper.EventIdentityRegistered,
		paper.EventPaperCreated,
		paper.EventPaperDeactivated,
		paper.EventIdentityDeactivated,
	}, pub.types())
}

func TestService_PublishFailureDoesNotFailWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pub := &recordingPublisher{err: errors.New("broker down")}
	store := paper.NewMemoryStore()
	svc := paper.NewService(store, paper.WithPublisher(pub))

	id, err := svc.RegisterIdentity(ctx, paper.IdentityFields{Kind: paper.KindCorporation, DisplayName: "Acme"})
	require.NoError(t, err)

	_, err = svc.CreatePaper(ctx, id.ID, paper.TypeEmploymentContract, uuid.New(), nil)
	require.NoError(t, err)
	assert.Len(t, pub.types(), 2)
}

func TestService_IDGenerator(t *testing.T) {
	t.Parallel()

	fixed := uuid.MustParse("0b9f3c2e-1d2a-4c55-9a7e-2f0d6b3c1a99")
	svc, _, _ := newService(t, paper.WithIDGenerator(func() uuid.UUID { return fixed }))

	id := registerPerson(t, svc)
	assert.Equal(t, fixed, id.ID)

	_, err := svc.RegisterIdentity(context.Background(), paper.IdentityFields{Kind: paper.KindPersonal, DisplayName: "Again"})
	assert.True(t, errors.Is(err, paper.ErrDuplicate))
}
