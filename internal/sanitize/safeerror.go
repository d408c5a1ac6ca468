package sanitize

import "strings"

// sensitiveKeySubstrings flags detail keys that must never reach a
// client-visible response, matched case-insensitively as substrings.
var sensitiveKeySubstrings = []string{
	"password", "token", "secret", "key", "credential",
	"auth", "cookie", "session", "stack", "trace",
}

// SafeDetails is an error payload that has passed through the safe formatter
// and can be written to a client response.
type SafeDetails struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// SafeError sanitizes an error message and optional structured detail for
// client visibility: the message goes through the cleaning pipeline, and any
// detail entry whose key matches the sensitive-key heuristic is dropped.
// Surviving detail values are sanitized too.
func SafeError(message string, details map[string]string) SafeDetails {
	safe := SafeDetails{Message: Clean(message)}
	if len(details) == 0 {
		return safe
	}

	cleaned := make(map[string]string)
	for key, value := range details {
		if isSensitiveKey(key) {
			continue
		}
		cleaned[Clean(key)] = Clean(value)
	}
	if len(cleaned) > 0 {
		safe.Details = cleaned
	}
	return safe
}

func isSensitiveKey(key string) bool {
	k := strings.ToLower(key)
	for _, needle := range sensitiveKeySubstrings {
		if strings.Contains(k, needle) {
			return true
		}
	}
	return false
}
