package sanitize

import (
	"net/url"
	"strings"
)

// dangerousSchemes are protocol prefixes stripped before URL parsing.
var dangerousSchemes = []string{"javascript:", "data:", "vbscript:"}

// SanitizeURL accepts only http and https URLs. Dangerous protocol prefixes
// are stripped first; anything that then fails strict parsing, or carries a
// non-http scheme or no host, yields an empty result rather than a
// partially-cleaned one.
func SanitizeURL(raw string) string {
	s := strings.TrimSpace(raw)

	for changed := true; changed; {
		changed = false
		for _, scheme := range dangerousSchemes {
			if len(s) >= len(scheme) && strings.EqualFold(s[:len(scheme)], scheme) {
				s = strings.TrimSpace(s[len(scheme):])
				changed = true
			}
		}
	}

	parsed, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	if parsed.Host == "" {
		return ""
	}
	return parsed.String()
}
