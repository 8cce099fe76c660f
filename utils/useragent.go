package utils

import (
	"fmt"
	"strings"

	ua "github.com/mileusna/useragent"
)

// ParseUserAgent extracts browser, OS and device class from a User-Agent
// string for session display names.
func ParseUserAgent(userAgent string) (browser, os, device string) {
	if userAgent == "" {
		return "Unknown Browser", "Unknown OS", "Desktop"
	}

	parsed := ua.Parse(userAgent)

	browser = parsed.Name
	if browser == "" {
		browser = "Unknown Browser"
	}

	os = parsed.OS
	if os == "" {
		os = "Unknown OS"
	}

	device = "Desktop"
	switch {
	case parsed.Mobile && strings.Contains(userAgent, "iPhone"):
		device = "iPhone"
	case parsed.Mobile:
		device = "Mobile"
	case parsed.Tablet:
		device = "Tablet"
	}

	return strings.TrimSpace(browser), strings.TrimSpace(os), device
}

// SessionDisplayName builds the human-readable name shown in the sessions
// list, e.g. "Safari on iOS (iPhone)".
func SessionDisplayName(userAgent string) string {
	browser, os, device := ParseUserAgent(userAgent)
	return fmt.Sprintf("%s on %s (%s)", browser, os, device)
}
