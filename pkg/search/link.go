package search

import (
	"net/http"
	"regexp"
	"strings"
)

// totalResultsHeader carries the total hit count on search responses.
const totalResultsHeader = "x-total-results"

// nextLinkPattern matches a URL enclosed in <...> followed by rel="next",
// the RFC 5988 subset UniProt emits.
var nextLinkPattern = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="next"`)

// NextPageURL extracts the rel="next" URL from a Link response header.
// The header lookup is case-insensitive and other link relations are
// ignored. Returns false when the header is missing, malformed, or has
// no next relation; it never fails.
func NextPageURL(header http.Header) (string, bool) {
	link := headerValue(header, "Link")
	if link == "" {
		return "", false
	}

	match := nextLinkPattern.FindStringSubmatch(link)
	if match == nil {
		return "", false
	}

	return match[1], true
}

// headerValue looks up a header by name, scanning all keys
// case-insensitively. Header-name casing is not guaranteed when
// responses pass through caches or proxies.
func headerValue(header http.Header, name string) string {
	if v := header.Get(name); v != "" {
		return v
	}
	for key, values := range header {
		if strings.EqualFold(key, name) && len(values) > 0 {
			return values[0]
		}
	}
	return ""
}
