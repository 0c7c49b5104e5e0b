package validator

import (
	"net/mail"
	"regexp"
	"strings"
)

// E.164 with an optional leading plus
var phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// ValidEmail accepts a bare RFC 5322 address whose domain has a dot.
func ValidEmail(field, value string) Rule {
	return Rule{
		Check: func() bool {
			if strings.TrimSpace(value) == "" {
				return false
			}
			addr, err := mail.ParseAddress(value)
			if err != nil || addr.Address != value {
				return false
			}

			local, domain, ok := strings.Cut(addr.Address, "@")
			if !ok || local == "" || !strings.Contains(domain, ".") {
				return false
			}
			for part := range strings.SplitSeq(domain, ".") {
				if part == "" {
					return false
				}
			}
			return true
		},
		Error: ValidationError{
			Field:             field,
			Message:           "must be a valid email address",
			TranslationKey:    "validation.email",
			TranslationValues: map[string]any{"field": field},
		},
	}
}

// ValidPhone accepts international numbers; spaces and dashes are ignored.
func ValidPhone(field, value string) Rule {
	return Rule{
		Check: func() bool {
			cleaned := strings.NewReplacer(" ", "", "-", "").Replace(value)
			if len(cleaned) < 7 {
				return false
			}
			return phoneRegex.MatchString(cleaned)
		},
		Error: ValidationError{
			Field:             field,
			Message:           "must be a valid phone number in international format",
			TranslationKey:    "validation.phone",
			TranslationValues: map[string]any{"field": field},
		},
	}
}
