package validator

import (
	"fmt"
	"slices"
)

// InList fails when value is not one of allowed.
func InList[T comparable](field string, value T, allowed []T) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(allowed, value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be one of: %v", allowed),
			TranslationKey: "validation.in_list",
			TranslationValues: map[string]any{
				"field":          field,
				"allowed_values": allowed,
			},
		},
	}
}
