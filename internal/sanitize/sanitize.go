// Package sanitize defends structured form fields against markup, script,
// protocol and SQL-pattern injection before they reach validation or storage.
//
// Two independent layers are provided: the cleaning pipeline (Sanitize/Clean),
// which transforms untrusted input, and schema validation (ValidateFields),
// which enforces acceptance rules on the raw, pre-sanitized value. The
// submission flow applies both; neither substitutes for the other.
package sanitize

import (
	"strings"
	"unicode/utf8"
)

// MaxFieldLength is the hard post-cleaning ceiling for any single field,
// independent of field-specific limits.
const MaxFieldLength = 2000

// Result is the outcome of running the pipeline over one field.
type Result struct {
	// Cleaned is the input after all transformation stages.
	Cleaned string
	// Rejected is true when a hard-reject rule matched: the value exceeded
	// MaxFieldLength even after cleaning, or was not structurally valid text.
	Rejected bool
}

// Sanitize runs the full pipeline over one field, in fixed stage order:
// control-character strip, dangerous-pattern strip, entity encoding of
// residual markup-significant characters, residual tag strip, then trim and
// length cap. The pipeline is idempotent: sanitizing an already-sanitized
// value yields the same value.
func Sanitize(input string) Result {
	if !utf8.ValidString(input) {
		return Result{Rejected: true}
	}

	s := stripControl(input)
	s = stripDangerous(s)
	s = encodeMarkup(s)
	s = residualTag.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	if len(s) > MaxFieldLength {
		return Result{Cleaned: truncate(s, MaxFieldLength), Rejected: true}
	}
	return Result{Cleaned: s}
}

// Clean is the convenience form of Sanitize for callers that only need the
// transformed value.
func Clean(input string) string {
	return Sanitize(input).Cleaned
}

// stripControl removes non-printable control characters except tab, newline
// and carriage return.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '\t', '\n', '\r':
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}

// entities maps markup-significant characters to their HTML-safe equivalents.
// Named (non-numeric) entities are used so the numeric-entity strip rule and
// a second encoding pass both leave them alone.
var entities = map[byte]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'"':  "&quot;",
	'\'': "&apos;",
	'/':  "&sol;",
}

// encodeMarkup entity-encodes & < > " ' and / so any surviving fragment cannot
// be interpreted as markup. An ampersand already starting one of the
// pipeline's own entities is left untouched, which is what makes the pipeline
// idempotent (no double-encoding drift).
func encodeMarkup(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '&' && ownEntityAt(s, i) {
			b.WriteByte(c)
			continue
		}
		if rep, ok := entities[c]; ok {
			b.WriteString(rep)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ownEntityNames are the entity bodies this pipeline emits, checked when
// deciding whether an ampersand was already encoded by a previous pass.
var ownEntityNames = []string{"amp;", "lt;", "gt;", "quot;", "apos;", "sol;"}

func ownEntityAt(s string, i int) bool {
	rest := s[i+1:]
	for _, name := range ownEntityNames {
		if strings.HasPrefix(rest, name) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
