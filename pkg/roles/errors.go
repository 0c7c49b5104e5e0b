package roles

import "errors"

var (
	// ErrInvalidTable is returned when the prerequisite table is inconsistent
	// with the role or paper type enumerations.
	ErrInvalidTable = errors.New("roles.invalid_table")

	// ErrCircularDependency is returned when prerequisite rows depend on each other in a cycle.
	ErrCircularDependency = errors.New("roles.circular_dependency")
)
