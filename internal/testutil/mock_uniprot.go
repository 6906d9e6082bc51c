// Package testutil provides testing utilities for the UniProt client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock UniProt endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockUniProt is a configurable mock UniProt REST server for testing.
type MockUniProt struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount      int
	SearchCount       int
	ConditionalCount  int
	LastRequestHeader http.Header
}

// NewMockUniProt creates a new mock UniProt server.
func NewMockUniProt() *MockUniProt {
	mock := &MockUniProt{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		if r.URL.Path == "/uniprotkb/search" {
			mock.SearchCount++
		}
		mock.LastRequestHeader = r.Header.Clone()

		// Track conditional requests
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}
		mock.mu.Unlock()

		// Check for custom handler
		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		// Default handler
		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockUniProt) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockUniProt) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockUniProt) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.SearchCount = 0
	m.ConditionalCount = 0
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockUniProt) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockUniProt) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// ServeSearchDataset installs a cursor-paginated search handler backed by
// a synthetic dataset of total records. Records carry accessions A000000
// upwards; batches advertise the next batch through a Link header and
// every response carries x-total-results.
func (m *MockUniProt) ServeSearchDataset(total int) {
	m.SetHandler("/uniprotkb/search", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		size := 25
		if v, err := strconv.Atoi(q.Get("size")); err == nil && v > 0 {
			size = v
		}
		if size > 500 {
			size = 500
		}

		start := 0
		if cursor := q.Get("cursor"); cursor != "" {
			if v, err := strconv.Atoi(cursor); err == nil {
				start = v
			}
		}

		end := start + size
		if end > total {
			end = total
		}

		records := make([]map[string]any, 0, end-start)
		for i := start; i < end; i++ {
			records = append(records, map[string]any{
				"primaryAccession": fmt.Sprintf("A%06d", i),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Total-Results", strconv.Itoa(total))
		if end < total {
			next := fmt.Sprintf("%s/uniprotkb/search?cursor=%d&query=%s&size=%d",
				m.server.URL, end, q.Get("query"), size)
			w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
		}

		json.NewEncoder(w).Encode(map[string]any{"results": records})
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockUniProt) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetSearchCount returns the number of search endpoint requests.
func (m *MockUniProt) GetSearchCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.SearchCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockUniProt) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// defaultHandler provides default UniProt-like responses.
func (m *MockUniProt) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	// Handle conditional requests
	if r.Header.Get("If-None-Match") != "" {
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", `"default-etag"`)
	w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"results": []}`))
}

// NewHealthyResponse creates a standard 200 OK response with cache headers.
func NewHealthyResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"ETag":         `"test-etag-123"`,
			"Expires":      time.Now().Add(5 * time.Minute).Format(http.TimeFormat),
			"Content-Type": "application/json",
		},
	}
}

// NewNotModifiedResponse creates a 304 Not Modified response.
func NewNotModifiedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotModified,
		Headers: map[string]string{
			"Expires": time.Now().Add(5 * time.Minute).Format(http.TimeFormat),
		},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"messages": ["Rate limit exceeded"]}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Retry-After":  "30",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"messages": ["Internal server error"]}`,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	}
}

// NewConditionalHandler creates a handler that responds with 304 for
// matching conditional requests.
func NewConditionalHandler(etag string, data string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Header.Get("If-None-Match") == etag {
			w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("ETag", etag)
		w.Header().Set("Expires", time.Now().Add(5*time.Minute).Format(http.TimeFormat))
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(data))
	}
}
