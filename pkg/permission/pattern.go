package permission

import (
	"cmp"
	"slices"
	"strings"
)

const (
	patternWildcard  = "*"
	patternDelimiter = "."
)

// matchPattern reports whether permission is allowed by pattern.
//
// Pattern matching rules:
// - Direct match: "report.view" matches "report.view"
// - Global wildcard: "*" matches any permission
// - Resource wildcard: "report.*" matches any action on report
func matchPattern(permission, pattern string) bool {
	if permission == pattern || pattern == patternWildcard {
		return true
	}

	if prefix, ok := strings.CutSuffix(pattern, patternDelimiter+patternWildcard); ok {
		return strings.HasPrefix(permission, prefix+patternDelimiter)
	}

	return false
}

// validPattern reports whether pattern names known resources and actions.
func validPattern(pattern string) bool {
	if pattern == patternWildcard {
		return true
	}

	resource, action, ok := strings.Cut(pattern, patternDelimiter)
	if !ok || !Resource(resource).Valid() {
		return false
	}
	return action == patternWildcard || Action(action).Valid()
}

// normalizeGrants removes duplicate grants and sorts them by pattern.
func normalizeGrants(grants []Grant) []Grant {
	if len(grants) == 0 {
		return nil
	}

	result := slices.Clone(grants)
	slices.SortFunc(result, func(a, b Grant) int {
		return cmp.Or(
			cmp.Compare(a.Pattern, b.Pattern),
			compareBool(a.BusinessScoped, b.BusinessScoped),
			compareBool(a.SelfOnly, b.SelfOnly),
		)
	})
	return slices.Compact(result)
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
