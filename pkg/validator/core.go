package validator

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError describes one failed rule. TranslationKey and
// TranslationValues let callers render the message in another language.
type ValidationError struct {
	Field             string         `json:"field"`
	Message           string         `json:"message"`
	TranslationKey    string         `json:"translation_key,omitempty"`
	TranslationValues map[string]any `json:"translation_values,omitempty"`
}

// ValidationErrors collects every failed rule of one Apply call.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	parts := make([]string, 0, len(ve))
	for _, err := range ve {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether any error belongs to field.
func (ve ValidationErrors) Has(field string) bool {
	for _, err := range ve {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Get returns the messages recorded for field.
func (ve ValidationErrors) Get(field string) []string {
	var messages []string
	for _, err := range ve {
		if err.Field == field {
			messages = append(messages, err.Message)
		}
	}
	return messages
}

// Fields returns the failing fields in first-seen order.
func (ve ValidationErrors) Fields() []string {
	var fields []string
	seen := make(map[string]bool)
	for _, err := range ve {
		if !seen[err.Field] {
			fields = append(fields, err.Field)
			seen[err.Field] = true
		}
	}
	return fields
}

// Rule pairs a check with the error reported when it fails.
type Rule struct {
	Check func() bool
	Error ValidationError
}

// Apply runs every rule and returns ValidationErrors for the failing ones,
// or nil when all pass.
func Apply(rules ...Rule) error {
	var errs ValidationErrors
	for _, rule := range rules {
		if !rule.Check() {
			errs = append(errs, rule.Error)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ExtractValidationErrors finds ValidationErrors anywhere in err's tree.
func ExtractValidationErrors(err error) ValidationErrors {
	var ve ValidationErrors
	if err != nil && errors.As(err, &ve) {
		return ve
	}
	return nil
}

// IsValidationError reports whether err carries ValidationErrors.
func IsValidationError(err error) bool {
	return ExtractValidationErrors(err) != nil
}
