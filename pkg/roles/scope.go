package roles

import (
	"fmt"

	"github.com/google/uuid"
)

const globalText = "global"

// Scope is where a role assignment applies: globally or inside one business.
// The zero value is Global. Build scoped values with ScopedTo.
type Scope struct {
	business uuid.UUID
}

// Global returns the scope of roles that are not tied to a business.
func Global() Scope {
	return Scope{}
}

// ScopedTo returns the scope of a single business.
// Panics on uuid.Nil: a business scope always names a business.
func ScopedTo(businessID uuid.UUID) Scope {
	if businessID == uuid.Nil {
		panic("roles: ScopedTo requires a business id")
	}
	return Scope{business: businessID}
}

// IsGlobal reports whether the scope is Global.
func (s Scope) IsGlobal() bool {
	return s.business == uuid.Nil
}

// Business returns the business id of a scoped value.
// Returns false for Global.
func (s Scope) Business() (uuid.UUID, bool) {
	return s.business, s.business != uuid.Nil
}

// Contains reports whether s covers other: Global covers every scope, a
// business scope covers only itself.
func (s Scope) Contains(other Scope) bool {
	return s.IsGlobal() || s == other
}

func (s Scope) String() string {
	if s.IsGlobal() {
		return globalText
	}
	return s.business.String()
}

// MarshalText encodes Global as "global" and business scopes as the business id.
func (s Scope) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the output of MarshalText.
func (s *Scope) UnmarshalText(text []byte) error {
	if string(text) == globalText || len(text) == 0 {
		*s = Global()
		return nil
	}
	id, err := uuid.ParseBytes(text)
	if err != nil {
		return fmt.Errorf("roles: invalid scope %q: %w", text, err)
	}
	if id == uuid.Nil {
		*s = Global()
		return nil
	}
	*s = ScopedTo(id)
	return nil
}

// ParseScope parses a scope from its text form.
func ParseScope(s string) (Scope, error) {
	var scope Scope
	err := scope.UnmarshalText([]byte(s))
	return scope, err
}

// compare orders Global first, then business scopes by id bytes.
func (s Scope) compare(other Scope) int {
	switch {
	case s.IsGlobal() && other.IsGlobal():
		return 0
	case s.IsGlobal():
		return -1
	case other.IsGlobal():
		return 1
	}
	return compareIDs(s.business, other.business)
}
