package roles

import (
	"errors"
	"fmt"
	"slices"

	"github.com/smartplace/idrole/pkg/paper"
)

// Prerequisite declares what earns a role.
// A row matches an active paper of type Paper (and franchise Party, when set).
// When RequiresAny is not empty, the identity must also already hold at least
// one of those roles in the same scope the paper would grant.
type Prerequisite struct {
	Role  Role
	Paper paper.Type
	Party paper.Party
	// Scoped rows grant the role inside the business the paper references.
	// Unscoped rows grant it globally.
	Scoped      bool
	RequiresAny []Role
	// Hidden rows are never advertised as reachable by AnalyzePotential.
	Hidden bool
}

func (p Prerequisite) matches(pp paper.Paper) bool {
	if pp.Type != p.Paper {
		return false
	}
	if p.Party != "" && pp.Party() != p.Party {
		return false
	}
	if p.Scoped && !pp.HasBusiness() {
		return false
	}
	return true
}

func (p Prerequisite) scopeOf(pp paper.Paper) Scope {
	if p.Scoped {
		return ScopedTo(pp.BusinessID)
	}
	return Global()
}

// defaultRows is the prerequisite table. Order here does not matter; rows are
// evaluated in dependency order.
var defaultRows = []Prerequisite{
	{Role: Admin, Paper: paper.TypeAdminAppointment, Hidden: true},
	{Role: Owner, Paper: paper.TypeBusinessRegistration, Scoped: true},
	{Role: Worker, Paper: paper.TypeEmploymentContract, Scoped: true},
	{Role: Franchisor, Paper: paper.TypeFranchiseAgreement, Party: paper.PartyFranchisor, Scoped: true},
	{Role: Manager, Paper: paper.TypeAuthorityDelegation, Scoped: true, RequiresAny: []Role{Owner, Worker}},
	{Role: Franchisee, Paper: paper.TypeFranchiseAgreement, Party: paper.PartyFranchisee, Scoped: true, RequiresAny: []Role{Owner}},
}

// table holds defaultRows in evaluation order. Package initialization panics
// if the rows fall out of sync with the Role or paper.Type enumerations.
var table = mustOrder(defaultRows)

// Table returns the prerequisite rows in evaluation order.
func Table() []Prerequisite {
	result := make([]Prerequisite, len(table))
	for i, row := range table {
		row.RequiresAny = slices.Clone(row.RequiresAny)
		result[i] = row
	}
	return result
}

func mustOrder(rows []Prerequisite) []Prerequisite {
	ordered, err := OrderTable(rows)
	if err != nil {
		panic(err)
	}
	return ordered
}

// OrderTable validates rows and returns them sorted so every row comes after
// the rows of the roles it requires.
//
// Rows are valid when every role except Seeker has exactly one row, every
// paper type is consumed by some row, required roles exist and share the
// row's scoping, the paper type's business scoping matches the row, and the
// requirements contain no cycle.
func OrderTable(rows []Prerequisite) ([]Prerequisite, error) {
	byRole := make(map[Role]Prerequisite, len(rows))
	for _, row := range rows {
		if !row.Role.Valid() || row.Role == Seeker {
			return nil, errors.Join(ErrInvalidTable, fmt.Errorf("row for role %q is not allowed", row.Role))
		}
		if _, dup := byRole[row.Role]; dup {
			return nil, errors.Join(ErrInvalidTable, fmt.Errorf("role %q has more than one row", row.Role))
		}
		if !row.Paper.Valid() {
			return nil, errors.Join(ErrInvalidTable, fmt.Errorf("role %q uses unknown paper type %q", row.Role, row.Paper))
		}
		if row.Scoped != row.Paper.BusinessScoped() {
			return nil, errors.Join(ErrInvalidTable, fmt.Errorf("role %q scoping disagrees with paper type %q", row.Role, row.Paper))
		}
		byRole[row.Role] = row
	}

	for _, role := range All() {
		if _, ok := byRole[role]; !ok && role != Seeker {
			return nil, errors.Join(ErrInvalidTable, fmt.Errorf("role %q has no row", role))
		}
	}

	for _, t := range paper.All() {
		if !slices.ContainsFunc(rows, func(row Prerequisite) bool { return row.Paper == t }) {
			return nil, errors.Join(ErrInvalidTable, fmt.Errorf("paper type %q earns no role", t))
		}
	}

	for _, row := range rows {
		for _, req := range row.RequiresAny {
			dep, ok := byRole[req]
			if !ok {
				return nil, errors.Join(ErrInvalidTable, fmt.Errorf("role %q requires %q which has no row", row.Role, req))
			}
			if dep.Scoped != row.Scoped {
				return nil, errors.Join(ErrInvalidTable, fmt.Errorf("role %q and its requirement %q differ in scoping", row.Role, req))
			}
		}
		if err := checkCircularDependency(row.Role, byRole, []Role{row.Role}); err != nil {
			return nil, err
		}
	}

	depths := make(map[Role]int, len(rows))
	for _, row := range rows {
		calculateDepth(row.Role, byRole, depths)
	}

	ordered := slices.Clone(rows)
	slices.SortFunc(ordered, func(a, b Prerequisite) int {
		if d := depths[a.Role] - depths[b.Role]; d != 0 {
			return d
		}
		return a.Role.Rank() - b.Role.Rank()
	})
	return ordered, nil
}

// checkCircularDependency walks requirements depth-first and fails when a role
// reappears on the current path.
func checkCircularDependency(role Role, byRole map[Role]Prerequisite, path []Role) error {
	for _, req := range byRole[role].RequiresAny {
		if slices.Contains(path, req) {
			return errors.Join(ErrCircularDependency,
				fmt.Errorf("circular requirement detected: %s -> %s", role, req))
		}
		if err := checkCircularDependency(req, byRole, append(slices.Clone(path), req)); err != nil {
			return err
		}
	}
	return nil
}

// calculateDepth returns the length of the longest requirement chain below role.
// Must be called on an acyclic table.
func calculateDepth(role Role, byRole map[Role]Prerequisite, depths map[Role]int) int {
	if d, ok := depths[role]; ok {
		return d
	}
	maxDepth := 0
	for _, req := range byRole[role].RequiresAny {
		if d := calculateDepth(req, byRole, depths) + 1; d > maxDepth {
			maxDepth = d
		}
	}
	depths[role] = maxDepth
	return maxDepth
}
