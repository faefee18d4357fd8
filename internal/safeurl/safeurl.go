// Package safeurl vets and sanitizes source URLs. Guide and playlist sources
// come from environment configuration, so anything that is not plain
// http/https (file://, ftp://, data:) is rejected before it reaches a fetch.
package safeurl

import "net/url"

// IsFetchable reports whether u is an absolute http or https URL with a host.
func IsFetchable(u string) bool {
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

// Redact returns u stripped of userinfo and query values for log lines.
// Invalid input is returned unchanged; it is already headed for an error.
func Redact(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return u
	}
	parsed.User = nil
	if parsed.RawQuery != "" {
		parsed.RawQuery = ""
		parsed.Fragment = ""
		return parsed.String() + "?..."
	}
	return parsed.String()
}
