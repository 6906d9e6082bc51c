package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/seqworks/uniprot-client/pkg/transport"
)

// fakeTransport serves a scripted sequence of responses and records every
// request URL, so tests can assert both the payload flow and the exact
// number of upstream calls.
type fakeTransport struct {
	responses []*transport.Response
	errs      map[int]error
	calls     []string
}

func (f *fakeTransport) Get(ctx context.Context, rawURL string, header http.Header) (*transport.Response, error) {
	i := len(f.calls)
	f.calls = append(f.calls, rawURL)

	if err, ok := f.errs[i]; ok {
		return nil, err
	}
	if i >= len(f.responses) {
		return nil, fmt.Errorf("unexpected request %d: %s", i+1, rawURL)
	}
	return f.responses[i], nil
}

func (f *fakeTransport) PostForm(ctx context.Context, rawURL string, form url.Values, header http.Header) (*transport.Response, error) {
	return nil, fmt.Errorf("unexpected POST to %s", rawURL)
}

func newTestClient(t *testing.T, tr transport.Transport) *Client {
	t.Helper()

	cfg := DefaultConfig(tr)
	cfg.HopDelay = 0

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client
}

// batchBody builds a {"results": [...]} payload of count records whose
// accessions encode their global position, A000000 upwards.
func batchBody(t *testing.T, start, count int) []byte {
	t.Helper()

	records := make([]Record, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, Record{
			"primaryAccession": accessionAt(start + i),
		})
	}

	body, err := json.Marshal(map[string]any{"results": records})
	if err != nil {
		t.Fatalf("marshal batch body: %v", err)
	}
	return body
}

func accessionAt(i int) string {
	return fmt.Sprintf("A%06d", i)
}

// batchResponse builds a successful batch response. A non-empty nextURL
// is advertised through a Link header.
func batchResponse(t *testing.T, start, count int, nextURL string) *transport.Response {
	t.Helper()

	header := http.Header{}
	if nextURL != "" {
		header.Set("Link", fmt.Sprintf(`<%s>; rel="next"`, nextURL))
	}

	return &transport.Response{
		StatusCode: http.StatusOK,
		Body:       batchBody(t, start, count),
		Header:     header,
	}
}

// countResponse builds a size-1 probe response carrying the total in the
// x-total-results header.
func countResponse(t *testing.T, total int) *transport.Response {
	t.Helper()

	header := http.Header{}
	header.Set("X-Total-Results", strconv.Itoa(total))

	body := 0
	if total > 0 {
		body = 1
	}

	return &transport.Response{
		StatusCode: http.StatusOK,
		Body:       batchBody(t, 0, body),
		Header:     header,
	}
}

func statusResponse(status int, body string) *transport.Response {
	return &transport.Response{
		StatusCode: status,
		Body:       []byte(body),
		Header:     http.Header{},
	}
}

func recordAccession(t *testing.T, rec Record) string {
	t.Helper()

	acc, ok := rec["primaryAccession"].(string)
	if !ok {
		t.Fatalf("record has no primaryAccession: %v", rec)
	}
	return acc
}
