// Package cache provides Redis-backed caching of UniProt REST responses
// with ETag support for conditional requests.
//
// UniProt entries change only between releases (roughly every eight weeks),
// so cached responses stay valid for a long time. The cache stores whole
// response bodies keyed by the request URL and revalidates them with
// If-None-Match when an ETag was returned.
//
// Cursor-hop responses are deliberately not cached: cursors are short-lived
// and a stale cursor URL is worse than a refetch.
//
// Usage:
//
//	mgr := cache.NewManager(redisClient)
//
//	key := cache.NewKey("https://rest.uniprot.org/uniprotkb/P12345.json")
//	entry, err := mgr.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//	    // fetch upstream, then:
//	    mgr.Set(ctx, key, cache.NewEntry(resp.StatusCode, resp.Body, resp.Header))
//	}
package cache
