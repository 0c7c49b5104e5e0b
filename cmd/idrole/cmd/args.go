package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var errInvalidArgument = errors.New("idrole.invalid_argument")

func parseID(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s: %w", errInvalidArgument, name, err)
	}
	return id, nil
}

// parseOptionalID treats an empty value as uuid.Nil.
func parseOptionalID(name, value string) (uuid.UUID, error) {
	if strings.TrimSpace(value) == "" {
		return uuid.Nil, nil
	}
	return parseID(name, value)
}

// parsePayload turns key=value pairs into a payload map.
func parsePayload(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	payload := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: payload entry %q is not key=value", errInvalidArgument, pair)
		}
		payload[key] = value
	}
	return payload, nil
}
