package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/smartplace/idrole/pkg/paper"
)

var errInvalidFixture = errors.New("idrole.invalid_fixture")

// fixture is the YAML document accepted by --seed. Records are written
// straight to the store with the ids they carry, so later commands in the same
// run can refer to them.
type fixture struct {
	Identities []struct {
		ID          uuid.UUID          `yaml:"id"`
		Kind        paper.IdentityKind `yaml:"kind"`
		DisplayName string             `yaml:"display_name"`
		Email       string             `yaml:"email"`
		Inactive    bool               `yaml:"inactive"`
	} `yaml:"identities"`

	Businesses []struct {
		ID           uuid.UUID          `yaml:"id"`
		OwnerID      uuid.UUID          `yaml:"owner_id"`
		LegalName    string             `yaml:"legal_name"`
		BusinessType paper.BusinessType `yaml:"business_type"`
		PaperID      uuid.UUID          `yaml:"paper_id"`
		CreatedAt    time.Time          `yaml:"created_at"`
	} `yaml:"businesses"`

	Papers []struct {
		ID         uuid.UUID      `yaml:"id"`
		IdentityID uuid.UUID      `yaml:"identity_id"`
		Type       paper.Type     `yaml:"type"`
		BusinessID uuid.UUID      `yaml:"business_id"`
		Payload    map[string]any `yaml:"payload"`
		Inactive   bool           `yaml:"inactive"`
		CreatedAt  time.Time      `yaml:"created_at"`
	} `yaml:"papers"`
}

func seedFile(ctx context.Context, store paper.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Join(errInvalidFixture, err)
	}
	defer f.Close()

	var fx fixture
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fx); err != nil {
		return errors.Join(errInvalidFixture, err)
	}
	return seed(ctx, store, fx)
}

func seed(ctx context.Context, store paper.Store, fx fixture) error {
	epoch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	or := func(t time.Time, i int) time.Time {
		if t.IsZero() {
			return epoch.Add(time.Duration(i) * time.Minute)
		}
		return t
	}

	for _, rec := range fx.Identities {
		if err := store.InsertIdentity(ctx, &paper.Identity{
			ID:          rec.ID,
			Kind:        rec.Kind,
			DisplayName: rec.DisplayName,
			Email:       rec.Email,
			Active:      true,
			CreatedAt:   epoch,
		}); err != nil {
			return fmt.Errorf("identity %s: %w", rec.ID, err)
		}
	}

	for i, rec := range fx.Businesses {
		createdAt := or(rec.CreatedAt, i)
		reg := &paper.BusinessRegistration{
			ID:           rec.ID,
			OwnerID:      rec.OwnerID,
			LegalName:    rec.LegalName,
			BusinessType: rec.BusinessType,
			CreatedAt:    createdAt,
		}
		p := &paper.Paper{
			ID:         rec.PaperID,
			IdentityID: rec.OwnerID,
			Type:       paper.TypeBusinessRegistration,
			BusinessID: rec.ID,
			Active:     true,
			CreatedAt:  createdAt,
		}
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if err := store.InsertBusinessRegistration(ctx, reg, p); err != nil {
			return fmt.Errorf("business %s: %w", rec.ID, err)
		}
	}

	for i, rec := range fx.Papers {
		p := &paper.Paper{
			ID:         rec.ID,
			IdentityID: rec.IdentityID,
			Type:       rec.Type,
			BusinessID: rec.BusinessID,
			Payload:    rec.Payload,
			Active:     true,
			CreatedAt:  or(rec.CreatedAt, len(fx.Businesses)+i),
		}
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		if err := store.InsertPaper(ctx, p); err != nil {
			return fmt.Errorf("paper %s: %w", p.ID, err)
		}
		if rec.Inactive {
			if err := store.DeactivatePaper(ctx, p.IdentityID, p.ID); err != nil {
				return fmt.Errorf("paper %s: %w", p.ID, err)
			}
		}
	}

	// identities are deactivated last so their papers can still be written
	for _, rec := range fx.Identities {
		if rec.Inactive {
			if err := store.DeactivateIdentity(ctx, rec.ID); err != nil {
				return fmt.Errorf("identity %s: %w", rec.ID, err)
			}
		}
	}
	return nil
}
