package identity

import (
	"slices"

	"github.com/google/uuid"

	"github.com/smartplace/idrole/pkg/paper"
	"github.com/smartplace/idrole/pkg/permission"
	"github.com/smartplace/idrole/pkg/roles"
)

// Context is everything needed to authorize an identity, built from one
// consistent read of its papers.
type Context struct {
	Identity paper.Identity `json:"identity"`
	// Papers holds the active papers only.
	Papers                []paper.Paper                `json:"papers"`
	BusinessRegistrations []paper.BusinessRegistration `json:"business_registrations"`
	Assignments           []roles.Assignment           `json:"assignments"`
	// AvailableRoles is the distinct roles of Assignments, highest authority
	// first, or just seeker when there are none.
	AvailableRoles []roles.Role `json:"available_roles"`
	PrimaryRole    roles.Role   `json:"primary_role"`
}

// Subject returns the permission subject of the context.
// An identity without assignments is checked as a global seeker.
func (c *Context) Subject() permission.Subject {
	return subjectOf(c.Identity.ID, c.Assignments)
}

// Businesses returns the businesses the identity holds a role in.
func (c *Context) Businesses() []uuid.UUID {
	return roles.Businesses(c.Assignments)
}

// Switch is the view of a context inside one business.
type Switch struct {
	IdentityID uuid.UUID `json:"identity_id"`
	Business   uuid.UUID `json:"business"`
	// Assignments holds the assignments scoped to Business plus the global ones.
	Assignments    []roles.Assignment `json:"assignments"`
	AvailableRoles []roles.Role       `json:"available_roles"`
	PrimaryRole    roles.Role         `json:"primary_role"`
}

// Subject returns the permission subject restricted to the business.
func (s *Switch) Subject() permission.Subject {
	return subjectOf(s.IdentityID, s.Assignments)
}

func subjectOf(identityID uuid.UUID, assignments []roles.Assignment) permission.Subject {
	if len(assignments) == 0 {
		assignments = []roles.Assignment{{Role: roles.Seeker, Scope: roles.Global()}}
	}
	return permission.SubjectOf(identityID, assignments)
}

func availableRoles(assignments []roles.Assignment) []roles.Role {
	available := roles.Distinct(assignments)
	if len(available) == 0 {
		return []roles.Role{roles.Seeker}
	}
	return available
}

// Switch narrows the context to one business. It fails with ErrAccessDenied
// unless some assignment is scoped to that business; global assignments alone
// give no standing in a business.
func (c *Context) Switch(businessID uuid.UUID) (*Switch, error) {
	if businessID == uuid.Nil {
		return nil, ErrAccessDenied
	}

	scope := roles.ScopedTo(businessID)
	if !slices.ContainsFunc(c.Assignments, func(a roles.Assignment) bool { return a.Scope == scope }) {
		return nil, ErrAccessDenied
	}

	assignments := roles.InScope(c.Assignments, scope)
	available := availableRoles(assignments)
	return &Switch{
		IdentityID:     c.Identity.ID,
		Business:       businessID,
		Assignments:    assignments,
		AvailableRoles: available,
		PrimaryRole:    roles.Primary(available),
	}, nil
}
