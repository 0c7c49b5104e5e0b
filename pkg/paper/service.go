package paper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/smartplace/idrole/pkg/logger"
	"github.com/smartplace/idrole/pkg/validator"
)

const (
	maxDisplayNameLen        = 120
	maxLegalNameLen          = 200
	maxRegistrationNumberLen = 32
)

// IdentityFields are the caller-supplied fields of a new identity.
type IdentityFields struct {
	Kind        IdentityKind
	DisplayName string
	Email       string
	Phone       string
	VerifiedAt  *time.Time
}

// BusinessFields are the caller-supplied fields of a new business registration.
type BusinessFields struct {
	LegalName          string
	BusinessType       BusinessType
	RegistrationNumber string
	Payload            map[string]any
}

// Service validates and writes papers, businesses and identities through a Store.
// It never computes roles; read paths go through the identity package.
type Service struct {
	store     Store
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
	newID     func() uuid.UUID
}

// NewService creates a Service over the given store.
func NewService(store Store, opts ...ServiceOption) *Service {
	cfg := defaultServiceConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Service{
		store:     store,
		publisher: cfg.publisher,
		logger:    cfg.logger.With(logger.Component("paper")),
		now:       cfg.now,
		newID:     cfg.newID,
	}
}

// RegisterIdentity validates and stores a new active identity.
func (s *Service) RegisterIdentity(ctx context.Context, fields IdentityFields) (*Identity, error) {
	if err := validateIdentity(fields); err != nil {
		return nil, errors.Join(ErrInvalidIdentity, err)
	}

	identity := &Identity{
		ID:          s.newID(),
		Kind:        fields.Kind,
		DisplayName: strings.TrimSpace(fields.DisplayName),
		Email:       strings.TrimSpace(fields.Email),
		Phone:       strings.TrimSpace(fields.Phone),
		VerifiedAt:  fields.VerifiedAt,
		Active:      true,
		CreatedAt:   s.now(),
	}
	if err := s.store.InsertIdentity(ctx, identity); err != nil {
		return nil, err
	}

	s.publish(ctx, Event{Type: EventIdentityRegistered, IdentityID: identity.ID, OccurredAt: identity.CreatedAt})
	return identity, nil
}

// CreatePaper validates the paper type and its business reference, then stores
// a new active paper for the identity.
// A business_registration paper must reference a business the identity owns;
// use CreateBusinessRegistration to create both at once.
func (s *Service) CreatePaper(ctx context.Context, identityID uuid.UUID, paperType Type, businessID uuid.UUID, payload map[string]any) (*Paper, error) {
	p := &Paper{
		ID:         s.newID(),
		IdentityID: identityID,
		Type:       paperType,
		BusinessID: businessID,
		Payload:    clonePayload(payload),
		Active:     true,
		CreatedAt:  s.now(),
	}
	if err := validatePaper(p); err != nil {
		return nil, errors.Join(ErrInvalidPaper, err)
	}

	if err := s.requireActiveIdentity(ctx, identityID); err != nil {
		return nil, err
	}

	if paperType == TypeBusinessRegistration {
		if err := s.requireOwnedBusiness(ctx, identityID, businessID); err != nil {
			return nil, err
		}
	}

	if err := s.store.InsertPaper(ctx, p); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "paper created",
		logger.IdentityID(identityID),
		logger.PaperID(p.ID),
		logger.PaperType(string(p.Type)),
	)
	s.publish(ctx, Event{
		Type:       EventPaperCreated,
		IdentityID: identityID,
		PaperID:    p.ID,
		PaperType:  p.Type,
		BusinessID: p.BusinessID,
		OccurredAt: p.CreatedAt,
	})
	return p, nil
}

// CreateBusinessRegistration validates the business fields and stores the
// business together with the business_registration paper that makes the
// identity its owner.
func (s *Service) CreateBusinessRegistration(ctx context.Context, identityID uuid.UUID, fields BusinessFields) (*BusinessRegistration, error) {
	legalName := normalizeName(fields.LegalName)
	registrationNumber := strings.TrimSpace(fields.RegistrationNumber)

	if err := validator.Apply(
		validator.NonNilUUID("identity_id", identityID),
		validator.RequiredString("legal_name", legalName),
		validator.MaxLenString("legal_name", legalName, maxLegalNameLen),
		validator.InList("business_type", fields.BusinessType, BusinessTypes()),
		validator.MaxLenString("registration_number", registrationNumber, maxRegistrationNumberLen),
	); err != nil {
		return nil, errors.Join(ErrInvalidBusiness, err)
	}

	if err := s.requireActiveIdentity(ctx, identityID); err != nil {
		return nil, err
	}

	now := s.now()
	reg := &BusinessRegistration{
		ID:                 s.newID(),
		OwnerID:            identityID,
		LegalName:          legalName,
		BusinessType:       fields.BusinessType,
		RegistrationNumber: registrationNumber,
		CreatedAt:          now,
	}
	p := &Paper{
		ID:         s.newID(),
		IdentityID: identityID,
		Type:       TypeBusinessRegistration,
		BusinessID: reg.ID,
		Payload:    clonePayload(fields.Payload),
		Active:     true,
		CreatedAt:  now,
	}

	if err := s.store.InsertBusinessRegistration(ctx, reg, p); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "business registered",
		logger.IdentityID(identityID),
		logger.BusinessID(reg.ID),
		logger.PaperID(p.ID),
	)
	s.publish(ctx, Event{
		Type:       EventBusinessRegistered,
		IdentityID: identityID,
		PaperID:    p.ID,
		PaperType:  p.Type,
		BusinessID: reg.ID,
		OccurredAt: now,
	})
	return reg, nil
}

// DeactivatePaper marks a paper inactive. Roles the paper justified disappear
// on the next context build.
func (s *Service) DeactivatePaper(ctx context.Context, identityID, paperID uuid.UUID) error {
	if err := s.store.DeactivatePaper(ctx, identityID, paperID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "paper deactivated",
		logger.IdentityID(identityID),
		logger.PaperID(paperID),
	)
	s.publish(ctx, Event{
		Type:       EventPaperDeactivated,
		IdentityID: identityID,
		PaperID:    paperID,
		OccurredAt: s.now(),
	})
	return nil
}

// DeactivateIdentity marks an identity inactive. Its papers are kept.
func (s *Service) DeactivateIdentity(ctx context.Context, identityID uuid.UUID) error {
	if err := s.store.DeactivateIdentity(ctx, identityID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "identity deactivated", logger.IdentityID(identityID))
	s.publish(ctx, Event{Type: EventIdentityDeactivated, IdentityID: identityID, OccurredAt: s.now()})
	return nil
}

func (s *Service) requireActiveIdentity(ctx context.Context, identityID uuid.UUID) error {
	identity, err := s.store.GetIdentity(ctx, identityID)
	if err != nil {
		return err
	}
	if !identity.Active {
		return ErrIdentityInactive
	}
	return nil
}

func (s *Service) requireOwnedBusiness(ctx context.Context, identityID, businessID uuid.UUID) error {
	regs, err := s.store.GetBusinessRegistrationsForIdentity(ctx, identityID)
	if err != nil {
		return err
	}
	for _, reg := range regs {
		if reg.ID == businessID {
			return nil
		}
	}
	return errors.Join(ErrInvalidPaper, validator.ValidationErrors{{
		Field:          "business_id",
		Message:        "must reference a business owned by the identity",
		TranslationKey: "validation.business_not_owned",
		TranslationValues: map[string]any{
			"field": "business_id",
		},
	}})
}

// publish delivers the event; the write it describes is already committed,
// so failures are logged and swallowed.
func (s *Service) publish(ctx context.Context, event Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish paper event",
			logger.Event(string(event.Type)),
			logger.IdentityID(event.IdentityID),
			logger.Error(err),
		)
	}
}

func validateIdentity(fields IdentityFields) error {
	displayName := strings.TrimSpace(fields.DisplayName)
	rules := []validator.Rule{
		validator.InList("kind", fields.Kind, IdentityKinds()),
		validator.RequiredString("display_name", displayName),
		validator.MaxLenString("display_name", displayName, maxDisplayNameLen),
	}
	if email := strings.TrimSpace(fields.Email); email != "" {
		rules = append(rules, validator.ValidEmail("email", email))
	}
	if phone := strings.TrimSpace(fields.Phone); phone != "" {
		rules = append(rules, validator.ValidPhone("phone", phone))
	}
	return validator.Apply(rules...)
}

func validatePaper(p *Paper) error {
	rules := []validator.Rule{
		validator.NonNilUUID("identity_id", p.IdentityID),
		validator.InList("type", p.Type, All()),
	}
	if !p.Type.Valid() {
		return validator.Apply(rules...)
	}

	if p.Type.BusinessScoped() {
		rules = append(rules, validator.NonNilUUID("business_id", p.BusinessID))
	} else {
		rules = append(rules, forbiddenBusiness(p.Type, p.BusinessID))
	}

	if p.Type == TypeFranchiseAgreement {
		rules = append(rules, validator.InList(PayloadParty, p.Party(), Parties()))
	}

	return validator.Apply(rules...)
}

func forbiddenBusiness(t Type, businessID uuid.UUID) validator.Rule {
	return validator.Rule{
		Check: func() bool {
			return businessID == uuid.Nil
		},
		Error: validator.ValidationError{
			Field:          "business_id",
			Message:        fmt.Sprintf("must be empty for %s papers", t),
			TranslationKey: "validation.business_forbidden",
			TranslationValues: map[string]any{
				"field": "business_id",
				"type":  string(t),
			},
		},
	}
}

func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func clonePayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	clone := make(map[string]any, len(payload))
	maps.Copy(clone, payload)
	return clone
}
