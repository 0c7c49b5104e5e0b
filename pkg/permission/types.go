package permission

import (
	"slices"

	"github.com/google/uuid"

	"github.com/smartplace/idrole/pkg/roles"
)

// MaxInheritanceDepth is the maximum allowed depth of role inheritance in the matrix.
const MaxInheritanceDepth = 10

// Resource is something an action is performed on.
type Resource string

const (
	ResourceOrganization Resource = "organization"
	ResourceEmployee     Resource = "employee"
	ResourceAttendance   Resource = "attendance"
	ResourceSchedule     Resource = "schedule"
	ResourcePayroll      Resource = "payroll"
	ResourceReport       Resource = "report"
	ResourceFranchise    Resource = "franchise"
	ResourceJobPosting   Resource = "job_posting"
	ResourceProfile      Resource = "profile"
	ResourcePlatform     Resource = "platform"
)

// Resources returns every known resource.
func Resources() []Resource {
	return []Resource{
		ResourceOrganization,
		ResourceEmployee,
		ResourceAttendance,
		ResourceSchedule,
		ResourcePayroll,
		ResourceReport,
		ResourceFranchise,
		ResourceJobPosting,
		ResourceProfile,
		ResourcePlatform,
	}
}

// Valid reports whether r belongs to the closed enumeration.
func (r Resource) Valid() bool { return slices.Contains(Resources(), r) }

// Action is an operation on a resource.
type Action string

const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionManage  Action = "manage"
	ActionApprove Action = "approve"
	ActionInvite  Action = "invite"
	ActionApply   Action = "apply"
)

// Actions returns every known action.
func Actions() []Action {
	return []Action{
		ActionView,
		ActionCreate,
		ActionUpdate,
		ActionDelete,
		ActionManage,
		ActionApprove,
		ActionInvite,
		ActionApply,
	}
}

// Valid reports whether a belongs to the closed enumeration.
func (a Action) Valid() bool { return slices.Contains(Actions(), a) }

// Permission formats the "resource.action" string grants are matched against.
func Permission(resource Resource, action Action) string {
	return string(resource) + patternDelimiter + string(action)
}

// Grant allows the permissions matching Pattern.
type Grant struct {
	// Pattern is "resource.action", "resource.*" or "*".
	Pattern string `yaml:"permission" json:"permission"`
	// BusinessScoped grants only apply inside a business the role is held in.
	BusinessScoped bool `yaml:"business_scoped,omitempty" json:"business_scoped,omitempty"`
	// SelfOnly grants only apply when the target user is the subject itself.
	SelfOnly bool `yaml:"self_only,omitempty" json:"self_only,omitempty"`
}

// RoleGrants is the matrix entry of one role.
type RoleGrants struct {
	Inherits []roles.Role `yaml:"inherits,omitempty"`
	Grants   []Grant      `yaml:"grants,omitempty"`
}

// Matrix maps every role to its grants.
type Matrix map[roles.Role]RoleGrants

// Subject is who a permission check is about.
type Subject struct {
	IdentityID  uuid.UUID
	Assignments []roles.Assignment
}

// SubjectOf builds a subject from computed assignments.
func SubjectOf(identityID uuid.UUID, assignments []roles.Assignment) Subject {
	return Subject{IdentityID: identityID, Assignments: slices.Clone(assignments)}
}

// Context narrows a permission check. The zero value asks about no business
// and no target user.
type Context struct {
	// Business is where the action happens. Global means no business.
	Business roles.Scope
	// TargetUserID is the identity the action is about, if any.
	TargetUserID uuid.UUID
}

// InBusiness returns a Context for an action inside the business.
func InBusiness(businessID uuid.UUID) Context {
	return Context{Business: roles.ScopedTo(businessID)}
}

// ForUser returns a copy of c targeting the identity.
func (c Context) ForUser(identityID uuid.UUID) Context {
	c.TargetUserID = identityID
	return c
}
