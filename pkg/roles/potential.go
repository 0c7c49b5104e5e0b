package roles

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/smartplace/idrole/pkg/paper"
)

// Potential is the result of AnalyzePotential.
type Potential struct {
	Current   []Assignment    `json:"current"`
	Potential []PotentialRole `json:"potential"`
}

// PotentialRole is a role one more paper away.
type PotentialRole struct {
	Role Role `json:"role"`
	// Scope is the business the role would be held in. It is meaningless
	// when AnyBusiness is set.
	Scope Scope `json:"scope"`
	// AnyBusiness marks roles whose paper may reference any business, such as
	// registering a new one.
	AnyBusiness bool     `json:"any_business,omitempty"`
	NextStep    NextStep `json:"next_step"`
}

// NextStep describes the paper that would earn a potential role.
type NextStep struct {
	PaperType paper.Type  `json:"paper_type"`
	Party     paper.Party `json:"party,omitempty"`
	Rationale string      `json:"rationale"`
}

// AnalyzePotential reports the roles currently held and the roles that adding
// exactly one paper would earn, with the paper each one needs.
//
// Rows without role requirements are reported once, for any business, when the
// role is held nowhere. Rows with requirements are checked against every
// business the identity already has an active paper for: each paper type a
// visible row consumes is tried in turn, the row's own type first, and the
// first single paper that earns the role is reported. Hidden rows are never
// reported or suggested. Lookahead is a single paper.
func AnalyzePotential(papers []paper.Paper) Potential {
	base := effective(papers)
	current := evaluate(base)
	result := Potential{Current: current, Potential: []PotentialRole{}}

	businesses := referencedBusinesses(base)
	next := nextCreatedAt(base)

	for _, row := range table {
		if row.Hidden {
			continue
		}

		if len(row.RequiresAny) == 0 {
			if !HasRole(current, row.Role) {
				result.Potential = append(result.Potential, PotentialRole{
					Role:        row.Role,
					AnyBusiness: true,
					NextStep:    nextStep(row, "for any business"),
				})
			}
			continue
		}

		var scopes []Scope
		if row.Scoped {
			for _, id := range businesses {
				scopes = append(scopes, ScopedTo(id))
			}
		} else {
			scopes = []Scope{Global()}
		}

		for _, scope := range scopes {
			if Has(current, row.Role, scope) {
				continue
			}
			step, ok := firstEarning(row, scope, base, next)
			if !ok {
				continue
			}

			where := "globally"
			if !scope.IsGlobal() {
				where = "for business " + scope.String()
			}
			result.Potential = append(result.Potential, PotentialRole{
				Role:     row.Role,
				Scope:    scope,
				NextStep: nextStep(step, where),
			})
		}
	}

	slices.SortFunc(result.Potential, func(a, b PotentialRole) int {
		if d := a.Role.Rank() - b.Role.Rank(); d != 0 {
			return d
		}
		switch {
		case a.AnyBusiness && !b.AnyBusiness:
			return -1
		case b.AnyBusiness && !a.AnyBusiness:
			return 1
		}
		return a.Scope.compare(b.Scope)
	})
	return result
}

func nextStep(row Prerequisite, where string) NextStep {
	rationale := "add " + row.Paper.String()
	if row.Party != "" {
		rationale += fmt.Sprintf(" (party %s)", row.Party)
	}
	return NextStep{
		PaperType: row.Paper,
		Party:     row.Party,
		Rationale: rationale + " " + where,
	}
}

// firstEarning returns the candidate whose paper, added alone in scope, makes
// row.Role held there.
func firstEarning(row Prerequisite, scope Scope, base []paper.Paper, createdAt time.Time) (Prerequisite, bool) {
	for _, candidate := range candidates(row, scope) {
		p := hypothetical(candidate, scope, createdAt)
		simulated := evaluate(effective(append(slices.Clone(base), p)))
		if Has(simulated, row.Role, scope) {
			return candidate, true
		}
	}
	return Prerequisite{}, false
}

// candidates lists the papers worth trying for row in scope: row itself, then
// every other visible row with the same scoping, one per paper type and party.
func candidates(row Prerequisite, scope Scope) []Prerequisite {
	result := []Prerequisite{row}
	for _, other := range table {
		if other.Hidden || other.Scoped == scope.IsGlobal() {
			continue
		}
		if slices.ContainsFunc(result, func(c Prerequisite) bool {
			return c.Paper == other.Paper && c.Party == other.Party
		}) {
			continue
		}
		result = append(result, other)
	}
	return result
}

// hypothetical builds the paper a row consumes in scope, created after every
// existing paper so it wins supersession.
func hypothetical(row Prerequisite, scope Scope, createdAt time.Time) paper.Paper {
	p := paper.Paper{
		Type:      row.Paper,
		Active:    true,
		CreatedAt: createdAt,
	}
	if id, ok := scope.Business(); ok {
		p.BusinessID = id
	}
	if row.Party != "" {
		p.Payload = map[string]any{paper.PayloadParty: string(row.Party)}
	}
	return p
}

func referencedBusinesses(papers []paper.Paper) []uuid.UUID {
	var result []uuid.UUID
	for _, p := range papers {
		if p.HasBusiness() && !slices.Contains(result, p.BusinessID) {
			result = append(result, p.BusinessID)
		}
	}
	slices.SortFunc(result, compareIDs)
	return result
}

func nextCreatedAt(papers []paper.Paper) time.Time {
	var latest time.Time
	for _, p := range papers {
		if p.CreatedAt.After(latest) {
			latest = p.CreatedAt
		}
	}
	return latest.Add(time.Nanosecond)
}
