package paper

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// IdentityKind describes what kind of verified person or legal entity an identity is.
// The kind is fixed at registration.
type IdentityKind string

const (
	KindPersonal              IdentityKind = "personal"
	KindBusinessOwner         IdentityKind = "business_owner"
	KindCorporation           IdentityKind = "corporation"
	KindFranchiseHeadquarters IdentityKind = "franchise_headquarters"
)

// IdentityKinds returns every known identity kind.
func IdentityKinds() []IdentityKind {
	return []IdentityKind{KindPersonal, KindBusinessOwner, KindCorporation, KindFranchiseHeadquarters}
}

// Valid reports whether k belongs to the closed enumeration.
func (k IdentityKind) Valid() bool {
	return slices.Contains(IdentityKinds(), k)
}

// Identity is a verified person or legal entity. Identities are never deleted,
// only deactivated.
type Identity struct {
	ID          uuid.UUID    `json:"id"`
	Kind        IdentityKind `json:"kind"`
	DisplayName string       `json:"display_name"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	VerifiedAt  *time.Time   `json:"verified_at,omitempty"`
	Active      bool         `json:"active"`
	CreatedAt   time.Time    `json:"created_at"`
}

// BusinessType classifies a registered business.
type BusinessType string

const (
	BusinessSoleProprietorship    BusinessType = "sole_proprietorship"
	BusinessCorporation           BusinessType = "corporation"
	BusinessFranchiseHeadquarters BusinessType = "franchise_headquarters"
	BusinessFranchiseBranch       BusinessType = "franchise_branch"
)

// BusinessTypes returns every known business type.
func BusinessTypes() []BusinessType {
	return []BusinessType{
		BusinessSoleProprietorship,
		BusinessCorporation,
		BusinessFranchiseHeadquarters,
		BusinessFranchiseBranch,
	}
}

// BusinessRegistration is a business entity created together with a
// business_registration paper.
type BusinessRegistration struct {
	ID                 uuid.UUID    `json:"id"`
	OwnerID            uuid.UUID    `json:"owner_id"`
	LegalName          string       `json:"legal_name"`
	BusinessType       BusinessType `json:"business_type"`
	RegistrationNumber string       `json:"registration_number,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
}
