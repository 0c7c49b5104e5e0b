package permission

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/smartplace/idrole/pkg/roles"
)

// Resolver answers permission questions against a validated matrix.
// It is immutable after construction and safe for concurrent use.
type Resolver struct {
	// grants holds the direct and inherited grants of every role.
	grants map[roles.Role][]Grant
	// sortedRoles lists all roles sorted by inheritance (base roles first).
	sortedRoles []roles.Role
}

// NewResolver loads the matrix from source, validates it and precomputes the
// inherited grants of every role.
func NewResolver(ctx context.Context, source MatrixSource) (*Resolver, error) {
	matrix, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	if err := validateMatrix(matrix); err != nil {
		return nil, err
	}

	grants := make(map[roles.Role][]Grant, len(matrix))
	for role := range matrix {
		grants[role] = normalizeGrants(collectGrants(role, matrix, make(map[roles.Role]bool), 0))
	}

	return &Resolver{
		grants:      grants,
		sortedRoles: sortRolesByInheritance(matrix),
	}, nil
}

// HasPermission reports whether the subject may perform action on resource.
//
// An admin assignment allows everything. Otherwise some assignment must hold
// a grant matching the permission whose conditions hold: business scoped
// grants need pctx.Business to be the very business the assignment is scoped
// to, and self-only grants need pctx.TargetUserID to be the subject.
// Unknown resources and actions are denied.
func (r *Resolver) HasPermission(subject Subject, resource Resource, action Action, pctx Context) bool {
	if roles.HasRole(subject.Assignments, roles.Admin) {
		return true
	}

	if !resource.Valid() || !action.Valid() {
		return false
	}

	permission := Permission(resource, action)
	for _, a := range subject.Assignments {
		for _, g := range r.grants[a.Role] {
			if matchPattern(permission, g.Pattern) && conditionsHold(g, a, subject.IdentityID, pctx) {
				return true
			}
		}
	}
	return false
}

// Authorize is HasPermission returning ErrPermissionDenied instead of false.
func (r *Resolver) Authorize(subject Subject, resource Resource, action Action, pctx Context) error {
	if !r.HasPermission(subject, resource, action, pctx) {
		return ErrPermissionDenied
	}
	return nil
}

// HasPermissionFromContext checks the subject stored in ctx.
// A context without a subject is denied.
func (r *Resolver) HasPermissionFromContext(ctx context.Context, resource Resource, action Action, pctx Context) bool {
	subject, ok := SubjectFromContext(ctx)
	if !ok {
		return false
	}
	return r.HasPermission(subject, resource, action, pctx)
}

// AuthorizeFromContext checks the subject stored in ctx.
func (r *Resolver) AuthorizeFromContext(ctx context.Context, resource Resource, action Action, pctx Context) error {
	subject, ok := SubjectFromContext(ctx)
	if !ok {
		return errors.Join(ErrSubjectNotInContext, ErrPermissionDenied)
	}
	return r.Authorize(subject, resource, action, pctx)
}

// Permissions returns the direct and inherited grants of role, sorted by pattern.
func (r *Resolver) Permissions(role roles.Role) []Grant {
	return slices.Clone(r.grants[role])
}

// Roles returns all roles of the matrix sorted by inheritance (base roles first).
func (r *Resolver) Roles() []roles.Role {
	return slices.Clone(r.sortedRoles)
}

func conditionsHold(g Grant, a roles.Assignment, identityID uuid.UUID, pctx Context) bool {
	if g.BusinessScoped && (pctx.Business.IsGlobal() || a.Scope != pctx.Business) {
		return false
	}
	if g.SelfOnly && (pctx.TargetUserID == uuid.Nil || pctx.TargetUserID != identityID) {
		return false
	}
	return true
}

// collectGrants recursively collects the grants of a role, including inherited ones.
func collectGrants(role roles.Role, matrix Matrix, visited map[roles.Role]bool, depth int) []Grant {
	if depth > MaxInheritanceDepth || visited[role] {
		return nil
	}
	visited[role] = true

	entry, exists := matrix[role]
	if !exists {
		return nil
	}

	result := slices.Clone(entry.Grants)
	for _, parent := range entry.Inherits {
		result = append(result, collectGrants(parent, matrix, visited, depth+1)...)
	}
	return result
}

// validateMatrix checks that every role has an entry, that entries only name
// known roles and permissions, and that inheritance is acyclic and shallow.
func validateMatrix(matrix Matrix) error {
	for role, entry := range matrix {
		if !role.Valid() {
			return errors.Join(ErrInvalidMatrix, ErrUnknownRole, fmt.Errorf("matrix entry for unknown role %q", role))
		}
		for _, parent := range entry.Inherits {
			if _, ok := matrix[parent]; !ok {
				return errors.Join(ErrInvalidMatrix, ErrUnknownRole,
					fmt.Errorf("role %q inherits from %q which has no entry", role, parent))
			}
		}
		for _, g := range entry.Grants {
			if !validPattern(g.Pattern) {
				return errors.Join(ErrInvalidMatrix, fmt.Errorf("role %q grants invalid permission %q", role, g.Pattern))
			}
		}
	}

	for _, role := range roles.All() {
		if _, ok := matrix[role]; !ok {
			return errors.Join(ErrInvalidMatrix, fmt.Errorf("role %q has no entry", role))
		}
	}

	for role := range matrix {
		if err := checkCircularInheritance(role, matrix, []roles.Role{role}); err != nil {
			return err
		}
	}

	depths := make(map[roles.Role]int, len(matrix))
	for role := range matrix {
		if depth := calculateRoleDepth(role, matrix, depths); depth > MaxInheritanceDepth {
			return errors.Join(ErrCircularInheritance,
				fmt.Errorf("inheritance depth exceeds maximum allowed depth of %d", MaxInheritanceDepth))
		}
	}

	return nil
}

// checkCircularInheritance performs DFS to detect circular inheritance.
func checkCircularInheritance(role roles.Role, matrix Matrix, path []roles.Role) error {
	for _, parent := range matrix[role].Inherits {
		if slices.Contains(path, parent) {
			return errors.Join(ErrCircularInheritance,
				fmt.Errorf("circular inheritance detected: %s -> %s", role, parent))
		}
		if err := checkCircularInheritance(parent, matrix, append(slices.Clone(path), parent)); err != nil {
			return err
		}
	}
	return nil
}

// calculateRoleDepth computes the inheritance depth of a role.
// Must be called on an acyclic matrix.
func calculateRoleDepth(role roles.Role, matrix Matrix, depths map[roles.Role]int) int {
	if d, ok := depths[role]; ok {
		return d
	}
	maxDepth := 0
	for _, parent := range matrix[role].Inherits {
		if d := calculateRoleDepth(parent, matrix, depths) + 1; d > maxDepth {
			maxDepth = d
		}
	}
	depths[role] = maxDepth
	return maxDepth
}

// sortRolesByInheritance returns roles sorted by inheritance depth, then precedence.
func sortRolesByInheritance(matrix Matrix) []roles.Role {
	depths := make(map[roles.Role]int, len(matrix))
	result := make([]roles.Role, 0, len(matrix))
	for role := range matrix {
		calculateRoleDepth(role, matrix, depths)
		result = append(result, role)
	}

	slices.SortFunc(result, func(a, b roles.Role) int {
		if d := depths[a] - depths[b]; d != 0 {
			return d
		}
		return a.Rank() - b.Rank()
	})
	return result
}
