package sanitize

import "regexp"

// sqlPatterns are common injection idioms. Detection only: persistence must
// still use parameterized queries, this signal just feeds logging and metrics.
var sqlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bunion\s+(all\s+)?select\b`),
	regexp.MustCompile(`(?i)\bdrop\s+table\b`),
	regexp.MustCompile(`(?i)\bor\s+1\s*=\s*1\b`),
	regexp.MustCompile(`(?i)'\s*or\s*'[^']*'\s*=\s*'`),
	regexp.MustCompile(`--`),
	regexp.MustCompile(`/\*`),
	regexp.MustCompile(`(?i);\s*(drop|delete|insert|update)\b`),
}

// LooksLikeSQLInjection reports whether input matches a known SQL-injection
// idiom. Pure function, no shared state.
func LooksLikeSQLInjection(input string) bool {
	for _, p := range sqlPatterns {
		if p.MatchString(input) {
			return true
		}
	}
	return false
}
