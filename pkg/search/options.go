package search

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// Format is the response format requested from the search endpoint.
type Format string

const (
	FormatJSON  Format = "json"
	FormatTSV   Format = "tsv"
	FormatFASTA Format = "fasta"
	FormatXML   Format = "xml"
	FormatList  Format = "list"
	FormatGFF   Format = "gff"
)

const (
	// MaxBatchSize is the largest batch the API serves per request.
	MaxBatchSize = 500

	// DefaultSize is the batch size used when none is given, matching
	// the API's own default.
	DefaultSize = 25
)

// Options configures a single search call. The zero value is usable.
// Options are passed by value and never mutated after a search starts.
type Options struct {
	// Size is the number of records per batch, clamped to [1, 500].
	Size int

	// Format of the response payload (default json). Only json bodies
	// are iterable; other formats are opaque blobs.
	Format Format

	// Fields restricts the returned columns, in order.
	Fields []string

	// Cursor is the opaque pagination token. Callers normally leave it
	// empty; the engine manages cursors through Link-header URLs.
	Cursor string

	// IncludeIsoform includes isoform entries in the results.
	IncludeIsoform bool

	// Compressed requests a gzip-compressed payload.
	Compressed bool
}

// normalized returns a copy with size clamped and defaults filled in.
func (o Options) normalized() Options {
	if o.Size <= 0 {
		o.Size = DefaultSize
	}
	if o.Size > MaxBatchSize {
		o.Size = MaxBatchSize
	}
	if o.Format == "" {
		o.Format = FormatJSON
	}
	return o
}

// values encodes the options together with the query expression as URL
// query parameters.
func (o Options) values(query string) url.Values {
	o = o.normalized()

	v := url.Values{}
	v.Set("query", query)
	v.Set("size", strconv.Itoa(o.Size))
	v.Set("format", string(o.Format))
	if len(o.Fields) > 0 {
		v.Set("fields", strings.Join(o.Fields, ","))
	}
	if o.Cursor != "" {
		v.Set("cursor", o.Cursor)
	}
	if o.IncludeIsoform {
		v.Set("includeIsoform", "true")
	}
	if o.Compressed {
		v.Set("compressed", "true")
	}
	return v
}

// Record is one search result entry. The engine treats it as an opaque
// JSON object and never interprets its fields.
type Record map[string]any

// parseBatch extracts the records from a batch-shaped payload
// ({"results": [...]}).
func parseBatch(body []byte) ([]Record, error) {
	var batch struct {
		Results []Record `json:"results"`
	}
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, err
	}
	return batch.Results, nil
}
