package roles

import (
	"slices"

	"github.com/google/uuid"
)

// Assignment is a computed (role, scope, justifying papers) tuple.
// It is a view over papers and is never stored as the source of truth.
type Assignment struct {
	Role  Role  `json:"role"`
	Scope Scope `json:"scope"`
	// Sources lists the ids of the active papers that justify the assignment,
	// the directly qualifying paper first.
	Sources []uuid.UUID `json:"sources"`
}

type assignmentKey struct {
	role  Role
	scope Scope
}

func (a Assignment) key() assignmentKey {
	return assignmentKey{role: a.Role, scope: a.Scope}
}

// Has reports whether the assignments include role in exactly scope.
func Has(assignments []Assignment, role Role, scope Scope) bool {
	return slices.ContainsFunc(assignments, func(a Assignment) bool {
		return a.Role == role && a.Scope == scope
	})
}

// HasRole reports whether the assignments include role in any scope.
func HasRole(assignments []Assignment, role Role) bool {
	return slices.ContainsFunc(assignments, func(a Assignment) bool {
		return a.Role == role
	})
}

// Distinct returns the distinct roles of the assignments, highest authority first.
func Distinct(assignments []Assignment) []Role {
	result := make([]Role, 0, len(assignments))
	for _, a := range assignments {
		if !slices.Contains(result, a.Role) {
			result = append(result, a.Role)
		}
	}
	SortByPrecedence(result)
	return result
}

// InScope returns the assignments that apply inside scope: those scoped to it
// and the global ones.
func InScope(assignments []Assignment, scope Scope) []Assignment {
	var result []Assignment
	for _, a := range assignments {
		if a.Scope.Contains(scope) {
			result = append(result, a)
		}
	}
	return result
}

// Businesses returns the distinct businesses the assignments are scoped to, sorted by id.
func Businesses(assignments []Assignment) []uuid.UUID {
	var result []uuid.UUID
	for _, a := range assignments {
		if id, ok := a.Scope.Business(); ok && !slices.Contains(result, id) {
			result = append(result, id)
		}
	}
	slices.SortFunc(result, compareIDs)
	return result
}

func sortAssignments(assignments []Assignment) {
	slices.SortFunc(assignments, func(a, b Assignment) int {
		if d := a.Role.Rank() - b.Role.Rank(); d != 0 {
			return d
		}
		return a.Scope.compare(b.Scope)
	})
}

func compareIDs(a, b uuid.UUID) int {
	return slices.Compare(a[:], b[:])
}
