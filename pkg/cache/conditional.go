package cache

import (
	"net/http"
)

// ShouldRevalidate determines if a stale-but-revalidatable entry can be
// refreshed with a conditional request instead of a full refetch.
func ShouldRevalidate(entry *Entry) bool {
	if entry == nil {
		return false
	}
	return entry.ETag != ""
}

// ConditionalHeader returns the request headers for revalidating the entry
// (If-None-Match with the stored ETag). Returns nil when the entry cannot
// be revalidated.
func ConditionalHeader(entry *Entry) http.Header {
	if !ShouldRevalidate(entry) {
		return nil
	}

	header := make(http.Header)
	header.Set("If-None-Match", entry.ETag)
	return header
}
