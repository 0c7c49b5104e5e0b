package roles

import (
	"slices"
)

// Role is a named authorization tier derived from papers.
type Role string

const (
	// Admin is the top-tier platform administrator. Permission checks grant it
	// everything.
	Admin Role = "admin"
	// Franchisor grants franchises of a business it heads.
	Franchisor Role = "franchisor"
	// Franchisee owns a business operating under a franchise agreement.
	Franchisee Role = "franchisee"
	// Owner registered the business.
	Owner Role = "owner"
	// Manager holds delegated authority inside a business it works for or owns.
	Manager Role = "manager"
	// Worker is employed by the business.
	Worker Role = "worker"
	// Seeker is the default for identities with no other role.
	Seeker Role = "seeker"
)

// precedence orders roles from highest to lowest authority.
// It is the only place primacy is decided.
var precedence = []Role{Admin, Franchisor, Franchisee, Owner, Manager, Worker, Seeker}

// All returns every role, highest authority first.
func All() []Role {
	return slices.Clone(precedence)
}

// Valid reports whether r belongs to the closed enumeration.
func (r Role) Valid() bool {
	return slices.Contains(precedence, r)
}

// Rank returns the position of r in the precedence order; lower is higher
// authority. Unknown roles rank after every known role.
func (r Role) Rank() int {
	if i := slices.Index(precedence, r); i >= 0 {
		return i
	}
	return len(precedence)
}

func (r Role) String() string { return string(r) }

// Primary returns the highest-authority role in the list, or Seeker when the
// list holds no known role.
func Primary(roles []Role) Role {
	best := Seeker
	for _, r := range roles {
		if r.Valid() && r.Rank() < best.Rank() {
			best = r
		}
	}
	return best
}

// SortByPrecedence sorts roles in place, highest authority first.
func SortByPrecedence(roles []Role) {
	slices.SortStableFunc(roles, func(a, b Role) int {
		return a.Rank() - b.Rank()
	})
}
