package search

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seqworks/uniprot-client/pkg/transport"
)

const searchPath = "/uniprotkb/search"

// Validation errors raised before any network call.
var (
	// ErrEmptyQuery is returned for an empty or blank search expression.
	ErrEmptyQuery = errors.New("search query cannot be empty")

	// ErrTransportRequired is returned when no transport is configured.
	ErrTransportRequired = errors.New("transport is required")
)

// Config holds the search client configuration.
type Config struct {
	// Transport performs the HTTP exchanges. Required.
	Transport transport.Transport

	// BaseURL of the UniProt REST API.
	BaseURL string

	// HopDelay is the pause inserted between cursor hops in the
	// offset-paginated view, a courtesy to the upstream API. Zero
	// disables the delay.
	HopDelay time.Duration

	// BatchSize used for cursor hops, capped at the API maximum (500).
	BatchSize int
}

// DefaultConfig returns the default configuration for the given transport.
func DefaultConfig(tr transport.Transport) Config {
	return Config{
		Transport: tr,
		BaseURL:   "https://rest.uniprot.org",
		HopDelay:  500 * time.Millisecond,
		BatchSize: MaxBatchSize,
	}
}

// Client runs searches against the UniProt search endpoint.
// A Client is safe to reuse across searches; each SearchResults instance
// carries its own iteration state and is not safe for concurrent use.
type Client struct {
	transport transport.Transport
	baseURL   string
	hopDelay  time.Duration
	batchSize int
	logger    zerolog.Logger
}

// New creates a new search client.
func New(cfg Config) (*Client, error) {
	if cfg.Transport == nil {
		return nil, ErrTransportRequired
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://rest.uniprot.org"
	}
	if cfg.BatchSize <= 0 || cfg.BatchSize > MaxBatchSize {
		cfg.BatchSize = MaxBatchSize
	}
	if cfg.HopDelay < 0 {
		cfg.HopDelay = 0
	}

	return &Client{
		transport: cfg.Transport,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		hopDelay:  cfg.HopDelay,
		batchSize: cfg.BatchSize,
		logger:    log.With().Str("component", "search").Logger(),
	}, nil
}

// searchURL builds the initial request URL for a query. Follow-up URLs
// come verbatim from Link headers and are never rebuilt.
func (c *Client) searchURL(query string, opts Options) string {
	return c.baseURL + searchPath + "?" + opts.values(query).Encode()
}
