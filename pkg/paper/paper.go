package paper

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Type identifies the kind of fact a paper records.
// The set is closed: a paper with a type outside All() is treated as
// unrecognized by every consumer.
type Type string

const (
	// TypeBusinessRegistration records that the holder registered a business.
	TypeBusinessRegistration Type = "business_registration"

	// TypeEmploymentContract records an employment relation with a business.
	TypeEmploymentContract Type = "employment_contract"

	// TypeAuthorityDelegation records authority delegated to the holder inside a business.
	TypeAuthorityDelegation Type = "authority_delegation"

	// TypeFranchiseAgreement records a franchise agreement. The payload key
	// PayloadParty tells which side of the agreement the holder is on.
	TypeFranchiseAgreement Type = "franchise_agreement"

	// TypeAdminAppointment appoints the holder as a platform administrator.
	TypeAdminAppointment Type = "admin_appointment"
)

// All returns every known paper type in a stable order.
func All() []Type {
	return []Type{
		TypeBusinessRegistration,
		TypeEmploymentContract,
		TypeAuthorityDelegation,
		TypeFranchiseAgreement,
		TypeAdminAppointment,
	}
}

// Valid reports whether t belongs to the closed enumeration.
func (t Type) Valid() bool {
	return slices.Contains(All(), t)
}

// BusinessScoped reports whether papers of this type must reference a business.
// Platform-level types must not.
func (t Type) BusinessScoped() bool {
	return t != TypeAdminAppointment
}

func (t Type) String() string { return string(t) }

// PayloadParty is the payload key holding the franchise agreement side.
const PayloadParty = "party"

// Party is the side of a franchise agreement the holder is on.
type Party string

const (
	// PartyFranchisor is the granting side of a franchise agreement.
	PartyFranchisor Party = "franchisor"
	// PartyFranchisee is the receiving side of a franchise agreement.
	PartyFranchisee Party = "franchisee"
)

// Parties returns the valid franchise parties.
func Parties() []Party {
	return []Party{PartyFranchisor, PartyFranchisee}
}

// Paper is an immutable fact-bearing document owned by exactly one identity.
// Only the Active flag changes after creation.
type Paper struct {
	ID         uuid.UUID      `json:"id"`
	IdentityID uuid.UUID      `json:"identity_id"`
	Type       Type           `json:"type"`
	BusinessID uuid.UUID      `json:"business_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	Active     bool           `json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Party returns the franchise party recorded in the payload.
// Returns an empty Party for papers that carry none.
func (p Paper) Party() Party {
	if p.Payload == nil {
		return ""
	}
	switch v := p.Payload[PayloadParty].(type) {
	case string:
		return Party(v)
	case Party:
		return v
	default:
		return ""
	}
}

// HasBusiness reports whether the paper references a business.
func (p Paper) HasBusiness() bool {
	return p.BusinessID != uuid.Nil
}

// ActiveOnly returns the active papers in their original order.
func ActiveOnly(papers []Paper) []Paper {
	result := make([]Paper, 0, len(papers))
	for _, p := range papers {
		if p.Active {
			result = append(result, p)
		}
	}
	return result
}
