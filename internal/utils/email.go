package utils

import (
	"strings"
)

// ExtractEmailAddress strips an optional display name from a
// "Display Name <addr@domain>" value and lowercases the result.
func ExtractEmailAddress(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.Contains(raw, "<") && strings.Contains(raw, ">") {
		startIdx := strings.LastIndex(raw, "<") + 1
		endIdx := strings.LastIndex(raw, ">")
		if startIdx > 0 && endIdx > startIdx {
			raw = raw[startIdx:endIdx]
		}
	}

	return strings.ToLower(strings.TrimSpace(raw))
}
