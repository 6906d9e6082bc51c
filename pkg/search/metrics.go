package search

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the pagination engine.
var (
	searchBatchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniprot_search_batches_total",
		Help: "Total search batches fetched by the unbounded iterator",
	})

	cursorHopsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uniprot_cursor_hops_total",
		Help: "Total cursor hops taken by the offset-paginated view",
	})

	pageViewsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniprot_page_views_total",
		Help: "Total offset-paginated views by outcome",
	}, []string{"outcome"}) // "ok", "empty", "degraded"
)
