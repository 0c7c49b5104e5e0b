package mongostore

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/smartplace/idrole/pkg/paper"
)

// Ids are stored as canonical strings so documents stay readable in the shell.

type identityDoc struct {
	ID          string     `bson:"_id"`
	Kind        string     `bson:"kind"`
	DisplayName string     `bson:"display_name"`
	Email       string     `bson:"email,omitempty"`
	Phone       string     `bson:"phone,omitempty"`
	VerifiedAt  *time.Time `bson:"verified_at,omitempty"`
	Active      bool       `bson:"active"`
	CreatedAt   time.Time  `bson:"created_at"`
}

type businessDoc struct {
	ID                 string    `bson:"_id"`
	OwnerID            string    `bson:"owner_id"`
	LegalName          string    `bson:"legal_name"`
	BusinessType       string    `bson:"business_type"`
	RegistrationNumber string    `bson:"registration_number,omitempty"`
	CreatedAt          time.Time `bson:"created_at"`
}

type paperDoc struct {
	ID         string    `bson:"_id"`
	IdentityID string    `bson:"identity_id"`
	Type       string    `bson:"paper_type"`
	BusinessID string    `bson:"business_id,omitempty"`
	Payload    bson.M    `bson:"payload,omitempty"`
	Active     bool      `bson:"active"`
	CreatedAt  time.Time `bson:"created_at"`
}

func fromIdentity(i *paper.Identity) identityDoc {
	return identityDoc{
		ID:          i.ID.String(),
		Kind:        string(i.Kind),
		DisplayName: i.DisplayName,
		Email:       i.Email,
		Phone:       i.Phone,
		VerifiedAt:  i.VerifiedAt,
		Active:      i.Active,
		CreatedAt:   i.CreatedAt,
	}
}

func (d identityDoc) toIdentity() (*paper.Identity, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, err
	}
	return &paper.Identity{
		ID:          id,
		Kind:        paper.IdentityKind(d.Kind),
		DisplayName: d.DisplayName,
		Email:       d.Email,
		Phone:       d.Phone,
		VerifiedAt:  d.VerifiedAt,
		Active:      d.Active,
		CreatedAt:   d.CreatedAt,
	}, nil
}

func fromBusiness(r *paper.BusinessRegistration) businessDoc {
	return businessDoc{
		ID:                 r.ID.String(),
		OwnerID:            r.OwnerID.String(),
		LegalName:          r.LegalName,
		BusinessType:       string(r.BusinessType),
		RegistrationNumber: r.RegistrationNumber,
		CreatedAt:          r.CreatedAt,
	}
}

func (d businessDoc) toBusiness() (paper.BusinessRegistration, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return paper.BusinessRegistration{}, err
	}
	owner, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return paper.BusinessRegistration{}, err
	}
	return paper.BusinessRegistration{
		ID:                 id,
		OwnerID:            owner,
		LegalName:          d.LegalName,
		BusinessType:       paper.BusinessType(d.BusinessType),
		RegistrationNumber: d.RegistrationNumber,
		CreatedAt:          d.CreatedAt,
	}, nil
}

func fromPaper(p *paper.Paper) paperDoc {
	d := paperDoc{
		ID:         p.ID.String(),
		IdentityID: p.IdentityID.String(),
		Type:       string(p.Type),
		Active:     p.Active,
		CreatedAt:  p.CreatedAt,
	}
	if p.HasBusiness() {
		d.BusinessID = p.BusinessID.String()
	}
	if len(p.Payload) > 0 {
		d.Payload = bson.M(p.Payload)
	}
	return d
}

func (d paperDoc) toPaper() (paper.Paper, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return paper.Paper{}, err
	}
	owner, err := uuid.Parse(d.IdentityID)
	if err != nil {
		return paper.Paper{}, err
	}
	p := paper.Paper{
		ID:         id,
		IdentityID: owner,
		Type:       paper.Type(d.Type),
		Active:     d.Active,
		CreatedAt:  d.CreatedAt,
	}
	if d.BusinessID != "" {
		if p.BusinessID, err = uuid.Parse(d.BusinessID); err != nil {
			return paper.Paper{}, err
		}
	}
	if len(d.Payload) > 0 {
		p.Payload = plainMap(d.Payload)
	}
	return p, nil
}

// plainMap converts decoded BSON containers to the map and slice types the
// rest of the module expects.
func plainMap(m bson.M) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch x := v.(type) {
	case bson.M:
		return plainMap(x)
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case bson.A:
		out := make([]any, len(x))
		for i := range x {
			out[i] = plainValue(x[i])
		}
		return out
	default:
		return v
	}
}
