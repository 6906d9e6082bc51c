package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/seqworks/uniprot-client/pkg/transport"
)

const (
	hopURL1 = "https://rest.uniprot.org/uniprotkb/search?cursor=c1&format=json&query=insulin&size=500"
	hopURL2 = "https://rest.uniprot.org/uniprotkb/search?cursor=c2&format=json&query=insulin&size=500"
)

func TestSearch_EmptyQuery(t *testing.T) {
	fake := &fakeTransport{}
	client := newTestClient(t, fake)

	for _, query := range []string{"", "   ", "\t\n"} {
		if _, err := client.Search(context.Background(), query, Options{}); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("Search(%q) error = %v, want ErrEmptyQuery", query, err)
		}
	}

	if len(fake.calls) != 0 {
		t.Errorf("validation made %d requests, want 0", len(fake.calls))
	}
}

func TestSearchResults_LazyUntilFirstNext(t *testing.T) {
	fake := &fakeTransport{
		responses: []*transport.Response{batchResponse(t, 0, 3, "")},
	}
	client := newTestClient(t, fake)

	results, err := client.Search(context.Background(), "insulin", Options{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(fake.calls) != 0 {
		t.Fatalf("Search() made %d requests before Next, want 0", len(fake.calls))
	}
	if got := results.Index(); got != -1 {
		t.Errorf("Index() before first Next = %d, want -1", got)
	}

	if !results.Next() {
		t.Fatal("first Next() = false, want true")
	}
	if len(fake.calls) != 1 {
		t.Errorf("first Next() made %d requests, want 1", len(fake.calls))
	}
}

func TestSearchResults_IteratesAllBatchesInOrder(t *testing.T) {
	fake := &fakeTransport{
		responses: []*transport.Response{
			batchResponse(t, 0, 500, hopURL1),
			batchResponse(t, 500, 500, hopURL2),
			batchResponse(t, 1000, 37, ""),
		},
	}
	client := newTestClient(t, fake)

	results, err := client.Search(context.Background(), "insulin", Options{Size: 500})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	count := 0
	for results.Next() {
		want := accessionAt(count)
		if got := recordAccession(t, results.Record()); got != want {
			t.Fatalf("record %d accession = %q, want %q", count, got, want)
		}
		if got := results.Index(); got != count {
			t.Fatalf("Index() = %d, want %d", got, count)
		}
		count++
	}

	if err := results.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
	if count != 1037 {
		t.Errorf("iterated %d records, want 1037", count)
	}
	if len(fake.calls) != 3 {
		t.Errorf("made %d requests, want 3", len(fake.calls))
	}

	// The terminal batch has no next link; extra Next calls stay false
	// without touching the transport again.
	if results.Next() {
		t.Error("Next() after exhaustion = true, want false")
	}
	if len(fake.calls) != 3 {
		t.Errorf("post-exhaustion Next made extra requests, total %d, want 3", len(fake.calls))
	}

	if fake.calls[1] != hopURL1 {
		t.Errorf("second request URL = %q, want the Link URL %q", fake.calls[1], hopURL1)
	}
	if fake.calls[2] != hopURL2 {
		t.Errorf("third request URL = %q, want the Link URL %q", fake.calls[2], hopURL2)
	}
}

func TestSearchResults_EarlyStopFetchesNoFurtherBatches(t *testing.T) {
	fake := &fakeTransport{
		responses: []*transport.Response{
			batchResponse(t, 0, 500, hopURL1),
			batchResponse(t, 500, 500, hopURL2),
			batchResponse(t, 1000, 37, ""),
		},
	}
	client := newTestClient(t, fake)

	results, err := client.Search(context.Background(), "insulin", Options{Size: 500})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	seen := 0
	for results.Next() {
		seen++
		if seen == 600 {
			break
		}
	}

	if seen != 600 {
		t.Fatalf("iterated %d records, want 600", seen)
	}
	if len(fake.calls) != 2 {
		t.Errorf("made %d requests, want 2 (no read-ahead past record 600)", len(fake.calls))
	}
}

func TestSearchResults_FirstFetchErrors(t *testing.T) {
	t.Run("transport failure", func(t *testing.T) {
		wantErr := fmt.Errorf("connection refused")
		fake := &fakeTransport{errs: map[int]error{0: wantErr}}
		client := newTestClient(t, fake)

		results, err := client.Search(context.Background(), "insulin", Options{})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}

		if results.Next() {
			t.Fatal("Next() = true, want false")
		}
		if !errors.Is(results.Err(), wantErr) {
			t.Errorf("Err() = %v, want %v", results.Err(), wantErr)
		}
	})

	t.Run("server error status", func(t *testing.T) {
		fake := &fakeTransport{
			responses: []*transport.Response{statusResponse(http.StatusServiceUnavailable, "down")},
		}
		client := newTestClient(t, fake)

		results, err := client.Search(context.Background(), "insulin", Options{})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}

		if results.Next() {
			t.Fatal("Next() = true, want false")
		}

		var apiErr *transport.APIError
		if !errors.As(results.Err(), &apiErr) {
			t.Fatalf("Err() = %v, want *transport.APIError", results.Err())
		}
		if apiErr.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("APIError status = %d, want 503", apiErr.StatusCode)
		}
	})

	t.Run("unparseable first batch", func(t *testing.T) {
		fake := &fakeTransport{
			responses: []*transport.Response{statusResponse(http.StatusOK, "<html>oops</html>")},
		}
		client := newTestClient(t, fake)

		results, err := client.Search(context.Background(), "insulin", Options{})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}

		if results.Next() {
			t.Fatal("Next() = true, want false")
		}
		if results.Err() == nil || !strings.Contains(results.Err().Error(), "parse search results") {
			t.Errorf("Err() = %v, want parse error", results.Err())
		}
	})
}

func TestSearchResults_EmptyFirstBatch(t *testing.T) {
	fake := &fakeTransport{
		responses: []*transport.Response{batchResponse(t, 0, 0, "")},
	}
	client := newTestClient(t, fake)

	results, err := client.Search(context.Background(), "nomatch", Options{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if results.Next() {
		t.Fatal("Next() = true for empty result set, want false")
	}
	if err := results.Err(); err != nil {
		t.Errorf("Err() = %v, want nil for empty result set", err)
	}
}

func TestSearchResults_HopAnomaliesEndIterationSilently(t *testing.T) {
	tests := []struct {
		name string
		hop  *transport.Response
	}{
		{"non-success status", statusResponse(http.StatusBadGateway, "bad gateway")},
		{"unparseable body", statusResponse(http.StatusOK, "not json")},
		{"empty batch", batchResponse(t, 2, 0, hopURL2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeTransport{
				responses: []*transport.Response{
					batchResponse(t, 0, 2, hopURL1),
					tt.hop,
				},
			}
			client := newTestClient(t, fake)

			results, err := client.Search(context.Background(), "insulin", Options{})
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}

			count := 0
			for results.Next() {
				count++
			}

			if count != 2 {
				t.Errorf("iterated %d records, want 2", count)
			}
			if err := results.Err(); err != nil {
				t.Errorf("Err() = %v, want nil for a protocol anomaly", err)
			}
		})
	}
}

func TestSearchResults_HopTransportFailureSurfacesThroughErr(t *testing.T) {
	wantErr := fmt.Errorf("dial tcp: i/o timeout")
	fake := &fakeTransport{
		responses: []*transport.Response{batchResponse(t, 0, 2, hopURL1)},
		errs:      map[int]error{1: wantErr},
	}
	client := newTestClient(t, fake)

	results, err := client.Search(context.Background(), "insulin", Options{})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	count := 0
	for results.Next() {
		count++
	}

	if count != 2 {
		t.Errorf("iterated %d records, want 2", count)
	}
	if !errors.Is(results.Err(), wantErr) {
		t.Errorf("Err() = %v, want %v", results.Err(), wantErr)
	}
}

func TestFirstPage(t *testing.T) {
	t.Run("returns records and headers", func(t *testing.T) {
		fake := &fakeTransport{
			responses: []*transport.Response{batchResponse(t, 0, 5, hopURL1)},
		}
		client := newTestClient(t, fake)

		page, err := client.FirstPage(context.Background(), "insulin", Options{Size: 5})
		if err != nil {
			t.Fatalf("FirstPage() error = %v", err)
		}

		if len(page.Records) != 5 {
			t.Errorf("got %d records, want 5", len(page.Records))
		}
		if next, ok := NextPageURL(page.Header); !ok || next != hopURL1 {
			t.Errorf("NextPageURL(page.Header) = %q, %v; want %q, true", next, ok, hopURL1)
		}
		if !strings.Contains(fake.calls[0], "size=5") {
			t.Errorf("request URL = %q, want size=5", fake.calls[0])
		}
	})

	t.Run("non-success raises", func(t *testing.T) {
		fake := &fakeTransport{
			responses: []*transport.Response{statusResponse(http.StatusBadRequest, `{"messages":["bad query"]}`)},
		}
		client := newTestClient(t, fake)

		_, err := client.FirstPage(context.Background(), "insulin AND", Options{})
		var apiErr *transport.APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("FirstPage() error = %v, want *transport.APIError", err)
		}
	})

	t.Run("empty query", func(t *testing.T) {
		client := newTestClient(t, &fakeTransport{})
		if _, err := client.FirstPage(context.Background(), " ", Options{}); !errors.Is(err, ErrEmptyQuery) {
			t.Errorf("FirstPage() error = %v, want ErrEmptyQuery", err)
		}
	})
}
