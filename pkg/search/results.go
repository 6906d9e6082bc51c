package search

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/seqworks/uniprot-client/pkg/transport"
)

// iterState tracks the iterator through its lifecycle:
// NOT_STARTED -> HAS_BATCH -> ... -> EXHAUSTED.
type iterState int

const (
	stateNotStarted iterState = iota
	stateHasBatch
	stateExhausted
)

// SearchResults is a lazy, forward-only iterator over every record
// matching a query. Batches are fetched on demand and cursors followed
// transparently; the iterator never reads ahead past the current batch.
//
// A mid-stream protocol anomaly (non-success hop, unparseable or empty
// batch) ends the iteration without error. A hard transport failure also
// ends the iteration but is reported through Err, so callers can tell
// "no more results" from "something broke mid-stream".
//
// Usage:
//
//	results, err := client.Search(ctx, "organism_id:9606 AND reviewed:true", search.Options{Size: 500})
//	if err != nil {
//	    return err
//	}
//	for results.Next() {
//	    record := results.Record()
//	    ...
//	}
//	if err := results.Err(); err != nil {
//	    return err
//	}
//
// A SearchResults is single-use: to restart from the beginning, call
// Search again.
type SearchResults struct {
	client *Client
	ctx    context.Context
	query  string
	opts   Options

	state   iterState
	records []Record
	idx     int
	pos     int
	nextURL string
	err     error
}

// Search prepares a lazy iteration over all records matching query.
// No network call is made until the first Next.
func (c *Client) Search(ctx context.Context, query string, opts Options) (*SearchResults, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	return &SearchResults{
		client: c,
		ctx:    ctx,
		query:  query,
		opts:   opts,
		pos:    -1,
	}, nil
}

// Next advances to the next record, fetching a new batch only when the
// current one is fully consumed. It returns false when the iteration is
// over; check Err to distinguish exhaustion from a transport failure.
func (r *SearchResults) Next() bool {
	switch r.state {
	case stateExhausted:
		return false

	case stateNotStarted:
		if !r.fetchFirst() {
			return false
		}

	case stateHasBatch:
		if r.idx+1 < len(r.records) {
			r.idx++
			r.pos++
			return true
		}
		if r.nextURL == "" {
			r.state = stateExhausted
			return false
		}
		if !r.fetchNext() {
			return false
		}
	}

	r.idx = 0
	r.pos++
	return true
}

// Record returns the current record. Only valid after a true Next.
func (r *SearchResults) Record() Record {
	if r.state != stateHasBatch || r.idx >= len(r.records) {
		return nil
	}
	return r.records[r.idx]
}

// Index returns the 0-based position of the current record across all
// batches consumed so far. Returns -1 before the first record.
func (r *SearchResults) Index() int {
	return r.pos
}

// Err returns the error that ended the iteration, if any. A nil error
// after Next returns false means the result set is exhausted.
func (r *SearchResults) Err() error {
	return r.err
}

// fetchFirst issues the initial request built from query and options.
// Unlike cursor hops, a failure here is an error: the caller needs to
// know the very first call failed outright.
func (r *SearchResults) fetchFirst() bool {
	resp, err := r.client.transport.Get(r.ctx, r.client.searchURL(r.query, r.opts), nil)
	if err != nil {
		r.fail(err)
		return false
	}
	if !resp.IsSuccess() {
		r.fail(transport.NewAPIError(resp))
		return false
	}

	records, err := parseBatch(resp.Body)
	if err != nil {
		r.fail(fmt.Errorf("parse search results: %w", err))
		return false
	}
	if len(records) == 0 {
		r.state = stateExhausted
		return false
	}

	return r.advance(records, resp.Header)
}

// fetchNext follows the stored next-cursor URL. Protocol anomalies end
// the iteration gracefully; only transport failures surface through Err.
func (r *SearchResults) fetchNext() bool {
	resp, err := r.client.transport.Get(r.ctx, r.nextURL, nil)
	if err != nil {
		r.fail(err)
		return false
	}
	if !resp.IsSuccess() {
		r.client.logger.Warn().
			Int("status", resp.StatusCode).
			Int("position", r.pos).
			Msg("Cursor hop returned non-success status, ending iteration")
		r.state = stateExhausted
		return false
	}

	records, err := parseBatch(resp.Body)
	if err != nil {
		r.client.logger.Warn().
			Err(err).
			Int("position", r.pos).
			Msg("Cursor hop returned unparseable batch, ending iteration")
		r.state = stateExhausted
		return false
	}
	if len(records) == 0 {
		r.state = stateExhausted
		return false
	}

	return r.advance(records, resp.Header)
}

func (r *SearchResults) advance(records []Record, header http.Header) bool {
	r.records = records
	r.nextURL, _ = NextPageURL(header)
	r.state = stateHasBatch
	searchBatchesTotal.Inc()
	return true
}

func (r *SearchResults) fail(err error) {
	r.err = err
	r.state = stateExhausted
}

// Page is a single fetched batch with its response headers.
type Page struct {
	Records []Record
	Header  http.Header
}

// FirstPage performs a single fetch without iteration. Unlike the
// iterator's hops, any failure here is returned to the caller.
func (c *Client) FirstPage(ctx context.Context, query string, opts Options) (*Page, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	resp, err := c.transport.Get(ctx, c.searchURL(query, opts), nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, transport.NewAPIError(resp)
	}

	records, err := parseBatch(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}

	return &Page{
		Records: records,
		Header:  resp.Header,
	}, nil
}
