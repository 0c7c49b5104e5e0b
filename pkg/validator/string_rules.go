package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// RequiredString fails when value is empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:             field,
			Message:           "field is required",
			TranslationKey:    "validation.required",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// MinLenString counts characters, not bytes.
func MinLenString(field, value string, min int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) >= min
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at least %d characters long", min),
			TranslationKey: "validation.min_length",
			TranslationValues: map[string]any{
				"field": field,
				"min":   min,
			},
		},
	}
}

// MaxLenString counts characters, not bytes.
func MaxLenString(field, value string, max int) Rule {
	return Rule{
		Check: func() bool {
			return utf8.RuneCountInString(value) <= max
		},
		Error: ValidationError{
			Field:          field,
			Message:        fmt.Sprintf("must be at most %d characters long", max),
			TranslationKey: "validation.max_length",
			TranslationValues: map[string]any{
				"field": field,
				"max":   max,
			},
		},
	}
}
