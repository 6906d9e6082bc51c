// Package metrics provides the centralized Prometheus metrics registry for
// the UniProt client. All metrics are defined in their respective packages
// (transport, cache, ratelimit, search, entry, idmapping) to maintain
// modularity and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the UniProt client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Request Metrics (pkg/transport):
//   - uniprot_requests_total{endpoint, status} (Counter): Total requests by endpoint and HTTP status
//   - uniprot_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - uniprot_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Retry Metrics (pkg/transport):
//   - uniprot_retries_total{error_class} (Counter): Retry attempts by error class
//   - uniprot_retry_backoff_seconds{error_class} (Histogram): Backoff duration by error class
//   - uniprot_retry_exhausted_total{error_class} (Counter): Requests that exhausted max retries
//
// Cache Metrics (pkg/cache):
//   - uniprot_cache_hits_total{layer="redis"} (Counter): Cache hits by layer
//   - uniprot_cache_misses_total (Counter): Cache misses
//   - uniprot_cache_size_bytes{layer="redis"} (Gauge): Current cache size in bytes
//   - uniprot_304_responses_total (Counter): 304 Not Modified responses
//   - uniprot_conditional_requests_total (Counter): Conditional requests sent with If-None-Match
//   - uniprot_cache_errors_total{operation} (Counter): Cache operation errors
//
// Rate Limit Metrics (pkg/ratelimit):
//   - uniprot_rate_limit_waits_total (Counter): Requests delayed by the token bucket
//   - uniprot_rate_limit_wait_seconds (Histogram): Time spent waiting for a token
//
// Pagination Metrics (pkg/search):
//   - uniprot_search_batches_total (Counter): Batches consumed by iterators
//   - uniprot_cursor_hops_total (Counter): Cursor hops taken to reach offset windows
//   - uniprot_page_views_total{outcome} (Counter): Offset page views by outcome (ok, empty, degraded)
//
// Endpoint Metrics (pkg/entry, pkg/idmapping):
//   - uniprot_entry_fetches_total{format, result} (Counter): Single-entry fetches
//   - uniprot_idmapping_jobs_total{outcome} (Counter): ID-mapping jobs by outcome
//   - uniprot_idmapping_polls_total (Counter): Job status polls
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(uniprot_cache_hits_total[5m])) /
//   (sum(rate(uniprot_cache_hits_total[5m])) + sum(rate(uniprot_cache_misses_total[5m])))
//
//   # Request Error Rate
//   rate(uniprot_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(uniprot_request_duration_seconds_bucket[5m]))
//
//   # Hops per Page View
//   rate(uniprot_cursor_hops_total[5m]) / rate(uniprot_page_views_total[5m])
//
//   # 304 Response Rate
//   rate(uniprot_304_responses_total[5m]) / rate(uniprot_requests_total[5m])
