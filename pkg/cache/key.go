package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached UniProt response. It is derived from the full
// request URL so that two requests differing in any query parameter
// (fields, format, size, ...) never collide.
type Key struct {
	// Path is the URL path (e.g. "/uniprotkb/search")
	Path string

	// Query holds the query parameters
	Query url.Values
}

// NewKey builds a key from a raw request URL. An unparseable URL degrades
// to using the raw string as the path, which still yields a usable key.
func NewKey(rawURL string) Key {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Key{Path: rawURL}
	}
	return Key{
		Path:  u.Path,
		Query: u.Query(),
	}
}

// String generates a deterministic cache key string.
// Format: uniprot:path:query1=val1:query2=val2
//
// Example:
//
//	uniprot:uniprotkb/search:format=json:query=insulin:size=25
func (k Key) String() string {
	parts := []string{"uniprot"}

	path := strings.Trim(k.Path, "/")
	if path != "" {
		parts = append(parts, path)
	}

	// Query params sorted for determinism
	if len(k.Query) > 0 {
		queryKeys := make([]string, 0, len(k.Query))
		for key := range k.Query {
			queryKeys = append(queryKeys, key)
		}
		sort.Strings(queryKeys)

		for _, key := range queryKeys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Query.Get(key)))
		}
	}

	return strings.Join(parts, ":")
}
