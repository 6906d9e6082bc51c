package cache

import (
	"net/http"
	"time"
)

const (
	// DefaultTTL is the fallback TTL when the response carries no usable
	// expiry information. UniProt data is release-stable, so this errs on
	// the long side compared to a typical API cache.
	DefaultTTL = 15 * time.Minute
)

// Entry represents a cached UniProt response.
type Entry struct {
	// Data is the response body
	Data []byte `json:"data"`

	// ETag for conditional requests (If-None-Match)
	ETag string `json:"etag"`

	// Expires is when the cache entry becomes stale
	Expires time.Time `json:"expires"`

	// StatusCode is the HTTP status code of the cached response
	StatusCode int `json:"status_code"`

	// Header holds the response headers (Link, x-total-results, ...)
	Header http.Header `json:"header"`

	// CachedAt is when the response was cached
	CachedAt time.Time `json:"cached_at"`
}

// NewEntry builds a cache entry from a raw response. Expiry is taken from
// the Expires header when present and parseable, otherwise DefaultTTL.
func NewEntry(statusCode int, body []byte, header http.Header) *Entry {
	return &Entry{
		Data:       body,
		ETag:       header.Get("ETag"),
		Expires:    parseExpires(header),
		StatusCode: statusCode,
		Header:     header.Clone(),
		CachedAt:   time.Now(),
	}
}

// IsExpired returns true if the cache entry has expired.
func (e *Entry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}

// parseExpires parses the Expires header, falling back to DefaultTTL when
// the header is absent, unparseable, or already in the past.
func parseExpires(header http.Header) time.Time {
	expiresStr := header.Get("Expires")
	if expiresStr == "" {
		return time.Now().Add(DefaultTTL)
	}

	expires, err := http.ParseTime(expiresStr)
	if err != nil {
		return time.Now().Add(DefaultTTL)
	}

	if expires.Before(time.Now()) {
		return time.Now()
	}

	return expires
}
