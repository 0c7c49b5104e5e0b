package validator

import "github.com/google/uuid"

func NonNilUUID(field string, value uuid.UUID) Rule {
	return Rule{
		Check: func() bool {
			return value != uuid.Nil
		},
		Error: ValidationError{
			Field:             field,
			Message:           "UUID cannot be nil",
			TranslationKey:    "validation.uuid_not_nil",
			TranslationValues: map[string]any{"field": field},
		},
	}
}
