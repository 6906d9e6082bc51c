// Package entry retrieves single UniProtKB entries by accession.
//
// Entry payloads are returned as opaque blobs in the requested format;
// the package never interprets FASTA, XML or GFF content.
package entry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seqworks/uniprot-client/pkg/transport"
)

// Format selects the entry representation, mapped to a path extension.
type Format string

const (
	FormatJSON  Format = "json"
	FormatFASTA Format = "fasta"
	FormatTXT   Format = "txt"
	FormatXML   Format = "xml"
	FormatGFF   Format = "gff"
)

// Validation errors raised before any network call.
var (
	// ErrEmptyAccession is returned for an empty or blank accession.
	ErrEmptyAccession = errors.New("accession cannot be empty")

	// ErrInvalidAccession is returned when the accession does not look
	// like a UniProtKB accession.
	ErrInvalidAccession = errors.New("invalid accession format")

	// ErrTransportRequired is returned when no transport is configured.
	ErrTransportRequired = errors.New("transport is required")
)

// accessionPattern covers UniProtKB accessions (P01308, A0A024R161),
// optionally with an isoform suffix (P01308-2).
var accessionPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]{5,9}(-[0-9]+)?$`)

var fetchesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "uniprot_entry_fetches_total",
		Help: "Total number of single-entry fetches by format and result",
	},
	[]string{"format", "result"},
)

// Config holds the entry client configuration.
type Config struct {
	// Transport performs the HTTP exchanges. Required.
	Transport transport.Transport

	// BaseURL of the UniProt REST API.
	BaseURL string
}

// DefaultConfig returns the default configuration for the given transport.
func DefaultConfig(tr transport.Transport) Config {
	return Config{
		Transport: tr,
		BaseURL:   "https://rest.uniprot.org",
	}
}

// Client fetches entries from the UniProtKB entry endpoint.
type Client struct {
	transport transport.Transport
	baseURL   string
	logger    zerolog.Logger
}

// New creates a new entry client.
func New(cfg Config) (*Client, error) {
	if cfg.Transport == nil {
		return nil, ErrTransportRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://rest.uniprot.org"
	}

	return &Client{
		transport: cfg.Transport,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		logger:    log.With().Str("component", "entry").Logger(),
	}, nil
}

// Result is a fetched entry with its response headers.
type Result struct {
	Accession string
	Format    Format
	Body      []byte
	Header    http.Header
}

// Fetch retrieves a single entry in the given format. An empty format
// defaults to JSON. Non-success responses are returned as an APIError;
// a 404 for an unknown accession is a client-class APIError.
func (c *Client) Fetch(ctx context.Context, accession string, format Format) (*Result, error) {
	accession = strings.TrimSpace(accession)
	if accession == "" {
		return nil, ErrEmptyAccession
	}
	if !accessionPattern.MatchString(accession) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAccession, accession)
	}
	if format == "" {
		format = FormatJSON
	}

	url := fmt.Sprintf("%s/uniprotkb/%s.%s", c.baseURL, accession, format)

	resp, err := c.transport.Get(ctx, url, nil)
	if err != nil {
		fetchesTotal.WithLabelValues(string(format), "error").Inc()
		return nil, err
	}
	if !resp.IsSuccess() {
		fetchesTotal.WithLabelValues(string(format), "error").Inc()
		return nil, transport.NewAPIError(resp)
	}

	fetchesTotal.WithLabelValues(string(format), "success").Inc()
	c.logger.Debug().
		Str("accession", accession).
		Str("format", string(format)).
		Int("bytes", len(resp.Body)).
		Msg("Entry fetched")

	return &Result{
		Accession: accession,
		Format:    format,
		Body:      resp.Body,
		Header:    resp.Header,
	}, nil
}
