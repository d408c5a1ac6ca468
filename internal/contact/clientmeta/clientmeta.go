// Package clientmeta derives a coarse, human-readable device summary from a
// request's User-Agent. The summary is stored alongside a submission for abuse
// triage; the raw User-Agent string is deliberately not retained.
package clientmeta

import (
	"strings"

	"github.com/mssola/useragent"
)

// Summarize extracts a "Browser on OS" display string from a User-Agent value,
// e.g. "Chrome on macOS" or "Safari on iPhone" for mobile platforms.
func Summarize(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		platform := ua.Platform()
		if platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}

	return strings.TrimSpace(browser + " on " + os)
}
