package search

import (
	"context"
	"errors"
	"time"

	"github.com/seqworks/uniprot-client/pkg/transport"
)

// allowedPageSizes is the fixed menu of page sizes for the offset view.
var allowedPageSizes = []int{10, 20, 50}

// DefaultPageSize is used when the requested page size is not on the menu.
const DefaultPageSize = 10

// PageLink maps a page number to its offset, for page-jump controls.
type PageLink struct {
	Page   int `json:"page"`
	Offset int `json:"offset"`
}

// PageView is the result of an offset-paginated request: one page of
// records plus the metadata a pagination UI needs to render navigation
// without further round trips.
type PageView struct {
	Records      []Record `json:"records"`
	Offset       int      `json:"offset"`
	PageSize     int      `json:"pageSize"`
	CurrentPage  int      `json:"currentPage"`
	TotalPages   int      `json:"totalPages"`
	TotalResults int      `json:"totalResults"`

	// PreviousOffset and NextOffset are nil when there is no
	// previous/next page.
	PreviousOffset *int `json:"previousOffset,omitempty"`
	NextOffset     *int `json:"nextOffset,omitempty"`

	// PageLinks covers every page 1..TotalPages regardless of how many
	// hops were actually taken.
	PageLinks []PageLink `json:"pageLinks"`

	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// PaginatedResults serves "page at offset, pageSize records" against the
// cursor-only API by hopping through whole batches until the one holding
// the target offset, then slicing it.
//
// pageSize must be one of {10, 20, 50}; anything else silently falls
// back to 10 so UI callers stay robust to bad input. A negative offset
// is clamped to 0.
//
// Failures after the initial count probe degrade to an empty-records
// PageView with the navigation metadata intact; only the probe itself
// and context cancellation surface as errors.
func (c *Client) PaginatedResults(ctx context.Context, query string, offset, pageSize int, opts Options) (*PageView, error) {
	pageSize = normalizePageSize(pageSize)
	if offset < 0 {
		offset = 0
	}

	total, err := c.TotalCount(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	view := &PageView{
		Offset:       offset,
		PageSize:     pageSize,
		CurrentPage:  offset/pageSize + 1,
		TotalResults: total,
		// The previous-page affordance follows the offset alone, even
		// when the page itself is empty.
		HasPreviousPage: offset >= pageSize,
	}
	if view.HasPreviousPage {
		prev := offset - pageSize
		view.PreviousOffset = &prev
	}

	if total == 0 {
		pageViewsTotal.WithLabelValues("empty").Inc()
		return view, nil
	}

	view.TotalPages = (total + pageSize - 1) / pageSize
	view.PageLinks = buildPageLinks(view.TotalPages, pageSize)
	if next := offset + pageSize; next < total {
		view.NextOffset = &next
		view.HasNextPage = true
	}

	if offset >= total {
		pageViewsTotal.WithLabelValues("empty").Inc()
		return view, nil
	}

	records, err := c.collectWindow(ctx, query, offset, pageSize, opts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		// Mid-pagination failures degrade to an empty page rather than
		// aborting a navigation UI.
		c.logger.Warn().
			Err(err).
			Str("query", query).
			Int("offset", offset).
			Msg("Pagination degraded to empty page")
		pageViewsTotal.WithLabelValues("degraded").Inc()
		return view, nil
	}

	view.Records = records
	pageViewsTotal.WithLabelValues("ok").Inc()
	return view, nil
}

// collectWindow fetches the batch containing offset by hopping through
// the preceding batches, then slices out the requested window. Hop
// batches are discarded unread; only their Link header matters.
func (c *Client) collectWindow(ctx context.Context, query string, offset, pageSize int, opts Options) ([]Record, error) {
	batchOpts := opts
	batchOpts.Size = c.batchSize
	batchOpts.Cursor = ""
	batchOpts.Format = FormatJSON

	completeBatches := offset / c.batchSize
	offsetInBatch := offset % c.batchSize

	resp, err := c.transport.Get(ctx, c.searchURL(query, batchOpts), nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, transport.NewAPIError(resp)
	}

	hops := 0
	for i := 0; i < completeBatches; i++ {
		nextURL, ok := NextPageURL(resp.Header)
		if !ok {
			// Cursor chain ended before the target batch. Slice what we
			// have; the result carries fewer records than expected.
			c.logger.Warn().
				Str("query", query).
				Int("offset", offset).
				Int("hops", hops).
				Msg("Cursor chain ended early")
			break
		}

		if err := c.hopWait(ctx); err != nil {
			return nil, err
		}

		resp, err = c.transport.Get(ctx, nextURL, nil)
		if err != nil {
			return nil, err
		}
		if !resp.IsSuccess() {
			return nil, transport.NewAPIError(resp)
		}

		hops++
		cursorHopsTotal.Inc()
	}

	records, err := parseBatch(resp.Body)
	if err != nil {
		return nil, err
	}

	if offsetInBatch >= len(records) {
		return nil, nil
	}
	end := offsetInBatch + pageSize
	if end > len(records) {
		end = len(records)
	}

	c.logger.Debug().
		Str("query", query).
		Int("offset", offset).
		Int("hops", hops).
		Int("records", end-offsetInBatch).
		Msg("Offset window collected")

	return records[offsetInBatch:end], nil
}

// hopWait pauses between cursor hops. The delay runs unconditionally
// between every hop, not as a backoff.
func (c *Client) hopWait(ctx context.Context) error {
	if c.hopDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.hopDelay):
		return nil
	}
}

// normalizePageSize snaps the page size to the fixed menu, falling back
// to DefaultPageSize for anything off-menu.
func normalizePageSize(size int) int {
	for _, allowed := range allowedPageSizes {
		if size == allowed {
			return size
		}
	}
	return DefaultPageSize
}

// buildPageLinks populates the full page-number -> offset table.
func buildPageLinks(totalPages, pageSize int) []PageLink {
	links := make([]PageLink, 0, totalPages)
	for page := 1; page <= totalPages; page++ {
		links = append(links, PageLink{
			Page:   page,
			Offset: (page - 1) * pageSize,
		})
	}
	return links
}
