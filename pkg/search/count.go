package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/seqworks/uniprot-client/pkg/transport"
)

// TotalCount estimates the total number of records matching query by
// issuing a size-1 probe request and reading the x-total-results header.
// When the header is missing or unparseable it falls back to counting
// the probe body's results array.
//
// Transport failures and HTTP application errors are returned; a
// structurally valid response never fails.
func (c *Client) TotalCount(ctx context.Context, query string, opts Options) (int, error) {
	if strings.TrimSpace(query) == "" {
		return 0, ErrEmptyQuery
	}

	probe := opts
	probe.Size = 1
	probe.Cursor = ""
	probe.Format = FormatJSON

	resp, err := c.transport.Get(ctx, c.searchURL(query, probe), nil)
	if err != nil {
		return 0, err
	}
	if !resp.IsSuccess() {
		return 0, transport.NewAPIError(resp)
	}

	// Header wins over body count. Header-name casing is not guaranteed.
	if v := headerValue(resp.Header, totalResultsHeader); v != "" {
		if total, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return total, nil
		}
		c.logger.Warn().
			Str("header", v).
			Msg("Unparseable x-total-results header, counting probe body")
	}

	records, err := parseBatch(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse count probe response: %w", err)
	}

	return len(records), nil
}
