package usecases

import (
	"regexp"
	"strings"

	"charter-ops.backend/internal/domain/entities"
	"charter-ops.backend/internal/domain/errors"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// RenderBody substitutes every {{key}} placeholder in body with the textual
// form of the matching variable value. Deterministic: no clock, randomness or
// I/O is consulted, so the same (body, values) pair always renders the same
// output.
func RenderBody(body string, values entities.VariableValues) (string, error) {
	var unresolved string
	rendered := placeholderPattern.ReplaceAllStringFunc(body, func(match string) string {
		key := placeholderKey(match)
		value, ok := values[key]
		if !ok {
			if unresolved == "" {
				unresolved = key
			}
			return match
		}
		return value.Text()
	})
	if unresolved != "" {
		return "", errors.UnresolvedPlaceholder(unresolved)
	}
	return rendered, nil
}

// PlaceholderKeys lists the distinct variable keys referenced in body,
// in order of first appearance
func PlaceholderKeys(body string) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, match := range placeholderPattern.FindAllString(body, -1) {
		key := placeholderKey(match)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

func placeholderKey(match string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}"))
}
