package permission

import "errors"

// Domain errors for permission resolution.
var (
	// ErrPermissionDenied is returned by Authorize when no grant allows the action.
	ErrPermissionDenied = errors.New("permission.denied")

	// ErrSubjectNotInContext is returned when no subject is stored in the context.
	ErrSubjectNotInContext = errors.New("permission.subject_not_in_context")

	// ErrInvalidMatrix is returned when the permission matrix fails validation.
	ErrInvalidMatrix = errors.New("permission.invalid_matrix")

	// ErrUnknownRole is returned when the matrix names a role outside the role enumeration.
	ErrUnknownRole = errors.New("permission.unknown_role")

	// ErrCircularInheritance is returned when matrix roles inherit from each other in a cycle.
	ErrCircularInheritance = errors.New("permission.circular_inheritance")
)
