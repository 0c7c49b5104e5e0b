package identity

import "errors"

var (
	// ErrAccessDenied is returned by SwitchContext when the identity holds no
	// role in the requested business.
	ErrAccessDenied = errors.New("identity.access_denied")

	// ErrIdentityInactive is returned when building a context for a deactivated identity.
	ErrIdentityInactive = errors.New("identity.inactive")
)
