package transport

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seqworks/uniprot-client/pkg/cache"
)

// CachedTransport decorates a Transport with a Redis-backed response cache
// and ETag-based conditional requests for GETs. POSTs pass through
// untouched. The two transports are interchangeable wherever a Transport
// is consumed.
type CachedTransport struct {
	next   Transport
	cache  *cache.Manager
	logger zerolog.Logger
}

// NewCachedTransport wraps next with the given cache manager.
func NewCachedTransport(next Transport, manager *cache.Manager) *CachedTransport {
	if next == nil {
		panic("transport cannot be nil")
	}
	if manager == nil {
		panic("cache manager cannot be nil")
	}

	return &CachedTransport{
		next:   next,
		cache:  manager,
		logger: log.With().Str("component", "cached-transport").Logger(),
	}
}

// Get serves from cache when possible, revalidating with If-None-Match
// when the cached entry carries an ETag. Cursor-carrying URLs bypass the
// cache entirely: cursors are short-lived and a stale one is worse than
// a refetch.
func (t *CachedTransport) Get(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	if hasCursor(rawURL) {
		return t.next.Get(ctx, rawURL, header)
	}

	key := cache.NewKey(rawURL)

	entry, err := t.cache.Get(ctx, key)
	if err != nil && err != cache.ErrCacheMiss {
		t.logger.Warn().Err(err).Str("url", rawURL).Msg("Cache get error")
	}

	if entry != nil && !cache.ShouldRevalidate(entry) {
		// Fresh entry without revalidation support: serve directly.
		t.logger.Debug().Str("url", rawURL).Msg("Cache hit")
		return entryToResponse(entry), nil
	}

	reqHeader := cloneHeader(header)
	if entry != nil {
		for k, vs := range cache.ConditionalHeader(entry) {
			for _, v := range vs {
				reqHeader.Set(k, v)
			}
		}
		cache.ConditionalRequestsSent.Inc()
		t.logger.Debug().
			Str("url", rawURL).
			Str("etag", entry.ETag).
			Msg("Making conditional request")
	}

	resp, err := t.next.Get(ctx, rawURL, reqHeader)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusNotModified && entry != nil {
		cache.NotModifiedResponses.Inc()
		t.logger.Debug().Str("url", rawURL).Msg("304 Not Modified - using cache")

		if expiresStr := resp.Header.Get("Expires"); expiresStr != "" {
			if newExpires, err := http.ParseTime(expiresStr); err == nil {
				if err := t.cache.UpdateTTL(ctx, key, newExpires); err != nil {
					t.logger.Warn().Err(err).Msg("Failed to update cache TTL")
				}
			}
		}

		return entryToResponse(entry), nil
	}

	if resp.StatusCode == http.StatusOK {
		newEntry := cache.NewEntry(resp.StatusCode, resp.Body, resp.Header)
		if newEntry.TTL() > 0 {
			if err := t.cache.Set(ctx, key, newEntry); err != nil {
				t.logger.Warn().Err(err).Msg("Failed to cache response")
			} else {
				t.logger.Debug().
					Str("url", rawURL).
					Dur("ttl", newEntry.TTL()).
					Msg("Cached response")
			}
		}
	}

	return resp, nil
}

// PostForm passes through to the underlying transport. ID mapping job
// submissions are not cacheable.
func (t *CachedTransport) PostForm(ctx context.Context, rawURL string, form url.Values, header http.Header) (*Response, error) {
	return t.next.PostForm(ctx, rawURL, form, header)
}

func hasCursor(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Query().Has("cursor")
}

// entryToResponse converts a cache entry back to a transport response.
func entryToResponse(entry *cache.Entry) *Response {
	return &Response{
		StatusCode: entry.StatusCode,
		Body:       entry.Data,
		Header:     entry.Header.Clone(),
	}
}

func cloneHeader(header http.Header) http.Header {
	cloned := make(http.Header, len(header))
	for k, vs := range header {
		for _, v := range vs {
			cloned.Add(k, v)
		}
	}
	return cloned
}
