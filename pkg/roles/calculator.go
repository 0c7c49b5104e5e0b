package roles

import (
	"slices"

	"github.com/google/uuid"

	"github.com/smartplace/idrole/pkg/paper"
)

// Compute derives the role assignments justified by papers.
//
// Inactive papers and papers of unrecognized type are ignored. Among papers
// sharing type, business and franchise party, only the most recently created
// one counts. The result is sorted by precedence, then scope, and depends on
// nothing but the input.
func Compute(papers []paper.Paper) []Assignment {
	return evaluate(effective(papers))
}

// Unrecognized returns the papers whose type is outside the paper.Type
// enumeration. Compute ignores them; callers usually log them.
func Unrecognized(papers []paper.Paper) []paper.Paper {
	var result []paper.Paper
	for _, p := range papers {
		if !p.Type.Valid() {
			result = append(result, p)
		}
	}
	return result
}

type supersessionKey struct {
	paperType paper.Type
	business  uuid.UUID
	party     paper.Party
}

// effective returns the active, recognized, non-superseded papers, newest first.
func effective(papers []paper.Paper) []paper.Paper {
	latest := make(map[supersessionKey]paper.Paper, len(papers))
	for _, p := range papers {
		if !p.Active || !p.Type.Valid() {
			continue
		}
		key := supersessionKey{paperType: p.Type, business: p.BusinessID, party: p.Party()}
		if cur, ok := latest[key]; !ok || newer(p, cur) {
			latest[key] = p
		}
	}

	result := make([]paper.Paper, 0, len(latest))
	for _, p := range latest {
		result = append(result, p)
	}
	slices.SortFunc(result, func(a, b paper.Paper) int {
		switch {
		case newer(a, b):
			return -1
		case newer(b, a):
			return 1
		}
		return 0
	})
	return result
}

// newer reports whether a supersedes b: later CreatedAt, ties broken by the
// larger id.
func newer(a, b paper.Paper) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return compareIDs(a.ID, b.ID) > 0
}

// evaluate applies the table in dependency order. Each row only sees the
// assignments produced by rows evaluated before it.
func evaluate(papers []paper.Paper) []Assignment {
	var result []Assignment
	index := make(map[assignmentKey]int)

	for _, row := range table {
		for _, p := range papers {
			if !row.matches(p) {
				continue
			}
			scope := row.scopeOf(p)
			key := assignmentKey{role: row.Role, scope: scope}
			if _, held := index[key]; held {
				continue
			}

			sources, ok := requiredSources(row, scope, result, index)
			if !ok {
				continue
			}

			index[key] = len(result)
			result = append(result, Assignment{
				Role:    row.Role,
				Scope:   scope,
				Sources: appendUnique([]uuid.UUID{p.ID}, sources...),
			})
		}
	}

	sortAssignments(result)
	return result
}

// requiredSources returns the sources of the required roles already held in
// scope, highest authority first. ok is false when the row has requirements
// and none of them is held.
func requiredSources(row Prerequisite, scope Scope, held []Assignment, index map[assignmentKey]int) (sources []uuid.UUID, ok bool) {
	if len(row.RequiresAny) == 0 {
		return nil, true
	}

	required := slices.Clone(row.RequiresAny)
	SortByPrecedence(required)
	for _, role := range required {
		if i, found := index[assignmentKey{role: role, scope: scope}]; found {
			sources = appendUnique(sources, held[i].Sources...)
			ok = true
		}
	}
	return sources, ok
}

func appendUnique(dst []uuid.UUID, ids ...uuid.UUID) []uuid.UUID {
	for _, id := range ids {
		if !slices.Contains(dst, id) {
			dst = append(dst, id)
		}
	}
	return dst
}
