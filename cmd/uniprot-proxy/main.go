// uniprot-proxy is a small HTTP proxy in front of the UniProt REST API.
// It exposes offset-paginated search, single-entry retrieval, a health
// check and Prometheus metrics, with Redis-backed response caching when
// a Redis instance is reachable.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/seqworks/uniprot-client/pkg/cache"
	"github.com/seqworks/uniprot-client/pkg/entry"
	"github.com/seqworks/uniprot-client/pkg/logging"
	"github.com/seqworks/uniprot-client/pkg/search"
	"github.com/seqworks/uniprot-client/pkg/transport"
)

func main() {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logCfg.Pretty = getEnv("LOG_PRETTY", "") == "true"
	logging.Setup(logCfg)

	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "8080")
	userAgent := getEnv("USER_AGENT", "uniprot-proxy/0.1.0 (ops@seqworks.dev)")
	baseURL := getEnv("UNIPROT_BASE_URL", "https://rest.uniprot.org")

	httpTransport, err := transport.New(transport.DefaultConfig(userAgent))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create transport")
	}

	// Caching is best effort: without Redis the proxy still serves, just
	// without conditional revalidation.
	var tr transport.Transport = httpTransport
	redisClient := redis.NewClient(&redis.Options{Addr: redisURL})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn().Err(err).Str("redis", redisURL).Msg("Redis unavailable, caching disabled")
	} else {
		log.Info().Str("redis", redisURL).Msg("Connected to Redis")
		tr = transport.NewCachedTransport(httpTransport, cache.NewManager(redisClient))
	}

	searchCfg := search.DefaultConfig(tr)
	searchCfg.BaseURL = baseURL
	searchClient, err := search.New(searchCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create search client")
	}

	entryClient, err := entry.New(entry.Config{Transport: tr, BaseURL: baseURL})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create entry client")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/search", searchHandler(searchClient))
	mux.HandleFunc("/entry/", entryHandler(entryClient))

	addr := ":" + port
	log.Info().Str("addr", addr).Str("upstream", baseURL).Msg("Starting UniProt proxy")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

// searchHandler serves GET /search?query=...&offset=0&pageSize=10 as an
// offset-paginated JSON page view.
func searchHandler(client *search.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("query")
		offset := intParam(r, "offset", 0)
		pageSize := intParam(r, "pageSize", search.DefaultPageSize)

		ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
		defer cancel()

		view, err := client.PaginatedResults(ctx, query, offset, pageSize, search.Options{})
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view); err != nil {
			log.Error().Err(err).Msg("Failed to write search response")
		}
	}
}

// entryHandler serves GET /entry/{accession}?format=fasta, passing the
// upstream payload through untouched.
func entryHandler(client *entry.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accession := strings.TrimPrefix(r.URL.Path, "/entry/")
		format := entry.Format(r.URL.Query().Get("format"))

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		result, err := client.Fetch(ctx, accession, format)
		if err != nil {
			writeError(w, err)
			return
		}

		if ct := result.Header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		if _, err := w.Write(result.Body); err != nil {
			log.Error().Err(err).Str("accession", accession).Msg("Failed to write entry response")
		}
	}
}

// writeError maps client errors to an HTTP status: upstream API errors
// keep their status, validation errors become 400, everything else 502.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway

	var apiErr *transport.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.StatusCode
	case isValidationError(err):
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		search.ErrEmptyQuery,
		entry.ErrEmptyAccession,
		entry.ErrInvalidAccession,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func intParam(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
