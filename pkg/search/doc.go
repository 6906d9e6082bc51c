// Package search implements the cursor-based pagination engine for the
// UniProt search endpoint.
//
// UniProt paginates natively with opaque, server-issued cursors delivered
// through RFC 5988 Link headers. The package exposes three views over that
// protocol:
//
//   - SearchResults: a lazy, forward-only iterator over every matching
//     record, following cursors transparently at batch boundaries.
//   - PaginatedResults: a user-facing (offset, pageSize) view emulated on
//     top of the cursor protocol by hopping through discarded batches.
//   - TotalCount: a minimal-size probe reading the x-total-results header.
//
// Cursors are never parsed or reconstructed: the rel="next" URL from the
// Link header is used verbatim as the next request URL.
package search
