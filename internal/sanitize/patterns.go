package sanitize

import "regexp"

// rule is one entry of the dangerous-pattern catalogue: matches are removed,
// not merely flagged. The catalogue is ordered data so it can be extended
// without touching the pipeline control flow.
type rule struct {
	name        string
	pattern     *regexp.Regexp
	replacement string
}

// dangerousPatterns is the fixed catalogue of high-risk markup, protocol and
// CSS payloads stripped by the second pipeline stage.
var dangerousPatterns = []rule{
	{name: "script_tag", pattern: regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)},
	{name: "iframe_tag", pattern: regexp.MustCompile(`(?is)<iframe[^>]*>.*?</iframe>`)},
	{name: "object_tag", pattern: regexp.MustCompile(`(?is)<object[^>]*>.*?</object>`)},
	{name: "embed_tag", pattern: regexp.MustCompile(`(?is)<embed[^>]*>.*?</embed>`)},
	{name: "form_tag", pattern: regexp.MustCompile(`(?is)<form[^>]*>.*?</form>`)},
	{name: "button_tag", pattern: regexp.MustCompile(`(?is)<button[^>]*>.*?</button>`)},
	{name: "input_tag", pattern: regexp.MustCompile(`(?i)<input[^>]*>`)},
	{name: "event_handler", pattern: regexp.MustCompile(`(?i)\son\w+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)},
	{name: "javascript_uri", pattern: regexp.MustCompile(`(?i)javascript\s*:`)},
	{name: "vbscript_uri", pattern: regexp.MustCompile(`(?i)vbscript\s*:`)},
	{name: "data_html_uri", pattern: regexp.MustCompile(`(?i)data\s*:\s*text/html`)},
	{name: "css_expression", pattern: regexp.MustCompile(`(?i)expression\s*\(`)},
	{name: "css_import", pattern: regexp.MustCompile(`(?i)@import`)},
	{name: "numeric_entity", pattern: regexp.MustCompile(`(?i)&#x?[0-9a-f]+;?`)},
}

// residualTag matches anything still shaped like a tag after encoding.
var residualTag = regexp.MustCompile(`(?s)<[^>]*>`)

// stripDangerous applies the catalogue until a fixpoint is reached, so
// removals cannot splice two fragments into a fresh match ("javajavascript:script:").
// Each pass removes characters, which bounds the iteration count.
func stripDangerous(s string) string {
	for {
		prev := s
		for _, r := range dangerousPatterns {
			s = r.pattern.ReplaceAllString(s, r.replacement)
		}
		if s == prev {
			return s
		}
	}
}
