// Package transport implements the HTTP boundary of the UniProt client:
// a minimal synchronous GET/POST contract with rate limiting, retries,
// and error classification.
//
// A non-2xx status is returned as a normal Response, never as an error;
// classification is left to the caller. Only network-level failures (and
// context cancellation) surface as errors.
package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seqworks/uniprot-client/pkg/ratelimit"
)

// Prometheus metrics for UniProt requests.
var (
	uniprotRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniprot_requests_total",
		Help: "Total UniProt requests by endpoint and status",
	}, []string{"endpoint", "status"})

	uniprotRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "uniprot_request_duration_seconds",
		Help:    "UniProt request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	uniprotErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uniprot_errors_total",
		Help: "Total UniProt errors by class",
	}, []string{"class"})
)

// Response is the result of a single HTTP exchange. The body is fully read
// and the connection released before the Response is returned.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// IsSuccess reports whether the response carries a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport performs one HTTP exchange against the UniProt REST API.
// Implementations must return non-2xx statuses as normal responses and
// reserve errors for transport-level failures.
type Transport interface {
	Get(ctx context.Context, rawURL string, header http.Header) (*Response, error)
	PostForm(ctx context.Context, rawURL string, form url.Values, header http.Header) (*Response, error)
}

// Config holds the transport configuration.
type Config struct {
	// User-Agent header. UniProt asks API consumers to identify
	// themselves, e.g. "AppName/Version (contact@example.com)".
	UserAgent string

	// Timeout per HTTP call.
	Timeout time.Duration

	// Retry
	MaxRetries     int
	InitialBackoff time.Duration

	// Courtesy rate limiting
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(userAgent string) Config {
	return Config{
		UserAgent:         userAgent,
		Timeout:           30 * time.Second,
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		RequestsPerSecond: 5,
		Burst:             2,
	}
}

// HTTPTransport is the production Transport backed by net/http.
type HTTPTransport struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	config     Config
	retry      RetryConfig
	logger     zerolog.Logger
}

// New creates a new HTTP transport.
func New(cfg Config) (*HTTPTransport, error) {
	if cfg.UserAgent == "" {
		return nil, ErrUserAgentRequired
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	logger := log.With().Str("component", "transport").Logger()

	retry := DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		retry.MaxAttempts = cfg.MaxRetries
	}
	if cfg.InitialBackoff > 0 {
		retry.InitialBackoff = cfg.InitialBackoff
	}

	return &HTTPTransport{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: ratelimit.NewLimiter(cfg.RequestsPerSecond, cfg.Burst, logger),
		config:  cfg,
		retry:   retry,
		logger:  logger,
	}, nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (t *HTTPTransport) SetHTTPClient(client *http.Client) {
	t.httpClient = client
}

// Get performs a GET request.
func (t *HTTPTransport) Get(ctx context.Context, rawURL string, header http.Header) (*Response, error) {
	return t.do(ctx, http.MethodGet, rawURL, header, "")
}

// PostForm performs a POST request with a URL-encoded form body.
func (t *HTTPTransport) PostForm(ctx context.Context, rawURL string, form url.Values, header http.Header) (*Response, error) {
	return t.do(ctx, http.MethodPost, rawURL, header, form.Encode())
}

// do executes a request with rate limiting and retry logic.
func (t *HTTPTransport) do(ctx context.Context, method, rawURL string, header http.Header, body string) (*Response, error) {
	endpoint := endpointLabel(rawURL)

	startTime := time.Now()
	defer func() {
		uniprotRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var resp *Response
	var lastErr error
	backoff := t.retry.InitialBackoff

	for attempt := 1; attempt <= t.retry.MaxAttempts; attempt++ {
		resp, lastErr = t.roundTrip(ctx, method, rawURL, header, body)

		var errClass ErrorClass
		if lastErr != nil {
			errClass = ErrorClassNetwork
			uniprotErrorsTotal.WithLabelValues(string(errClass)).Inc()
			uniprotRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()

			t.logger.Warn().
				Err(lastErr).
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Msg("UniProt request failed")
		} else {
			uniprotRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

			errClass = classifyStatus(resp.StatusCode)
			if errClass == "" || !shouldRetry(errClass) {
				// Success or a client error - classification is the
				// caller's job, hand the response back as-is.
				return resp, nil
			}

			uniprotErrorsTotal.WithLabelValues(string(errClass)).Inc()
			t.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(errClass)).
				Int("attempt", attempt).
				Msg("UniProt request error")
		}

		if attempt >= t.retry.MaxAttempts {
			break
		}

		if err := t.backoffWait(ctx, errClass, attempt, &backoff); err != nil {
			return nil, err
		}
	}

	if lastErr != nil {
		uniprotRetryExhaustedTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		return nil, &RetryError{Attempts: t.retry.MaxAttempts, Err: lastErr}
	}

	// Retriable status persisted through all attempts. Still a normal
	// response by contract.
	return resp, nil
}

// roundTrip performs a single HTTP exchange and drains the body.
func (t *HTTPTransport) roundTrip(ctx context.Context, method, rawURL string, header http.Header, body string) (*Response, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}

	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("User-Agent", t.config.UserAgent)
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	httpResp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       data,
		Header:     httpResp.Header.Clone(),
	}, nil
}

// backoffWait sleeps for the current backoff (with jitter) and advances it.
func (t *HTTPTransport) backoffWait(ctx context.Context, errClass ErrorClass, attempt int, backoff *time.Duration) error {
	uniprotRetriesTotal.WithLabelValues(string(errClass)).Inc()

	jitter := withJitter(*backoff)
	uniprotRetryBackoffSeconds.WithLabelValues(string(errClass)).Observe(jitter.Seconds())

	t.logger.Debug().
		Str("error_class", string(errClass)).
		Int("attempt", attempt).
		Dur("backoff", jitter).
		Msg("Retrying request after backoff")

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(jitter):
	}

	*backoff = time.Duration(float64(*backoff) * t.retry.BackoffMultiplier)
	if *backoff > t.retry.MaxBackoff {
		*backoff = t.retry.MaxBackoff
	}
	return nil
}

// endpointLabel reduces a request URL to a low-cardinality metric label.
func endpointLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid"
	}
	return u.Path
}
