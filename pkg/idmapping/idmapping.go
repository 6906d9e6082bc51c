// Package idmapping submits and polls UniProt ID-mapping jobs.
//
// Jobs are asynchronous on the server side. The surface here is flat:
// submit a job, poll its status, fetch the results of a finished job.
package idmapping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seqworks/uniprot-client/pkg/transport"
)

// Job status values as reported by the status endpoint.
const (
	StatusNew      = "NEW"
	StatusRunning  = "RUNNING"
	StatusFinished = "FINISHED"
	StatusError    = "ERROR"
)

// Validation and job errors.
var (
	// ErrEmptyIDs is returned when no identifiers are given.
	ErrEmptyIDs = errors.New("id list cannot be empty")

	// ErrEmptyDatabase is returned when the from or to database is blank.
	ErrEmptyDatabase = errors.New("from and to databases are required")

	// ErrEmptyJobID is returned for a blank job ID.
	ErrEmptyJobID = errors.New("job id cannot be empty")

	// ErrJobFailed is returned when the server reports the job as failed.
	ErrJobFailed = errors.New("id mapping job failed")

	// ErrTransportRequired is returned when no transport is configured.
	ErrTransportRequired = errors.New("transport is required")
)

var (
	jobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "uniprot_idmapping_jobs_total",
			Help: "Total number of ID-mapping jobs by outcome",
		},
		[]string{"outcome"},
	)

	pollsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "uniprot_idmapping_polls_total",
			Help: "Total number of job status polls",
		},
	)
)

// Config holds the ID-mapping client configuration.
type Config struct {
	// Transport performs the HTTP exchanges. Required.
	Transport transport.Transport

	// BaseURL of the UniProt REST API.
	BaseURL string

	// PollInterval between status checks in Wait.
	PollInterval time.Duration
}

// DefaultConfig returns the default configuration for the given transport.
func DefaultConfig(tr transport.Transport) Config {
	return Config{
		Transport:    tr,
		BaseURL:      "https://rest.uniprot.org",
		PollInterval: 3 * time.Second,
	}
}

// Client drives ID-mapping jobs against the UniProt REST API.
type Client struct {
	transport    transport.Transport
	baseURL      string
	pollInterval time.Duration
	logger       zerolog.Logger
}

// New creates a new ID-mapping client.
func New(cfg Config) (*Client, error) {
	if cfg.Transport == nil {
		return nil, ErrTransportRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://rest.uniprot.org"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}

	return &Client{
		transport:    cfg.Transport,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		pollInterval: cfg.PollInterval,
		logger:       log.With().Str("component", "idmapping").Logger(),
	}, nil
}

// Submit starts a mapping job from one database namespace to another and
// returns the server-assigned job ID.
func (c *Client) Submit(ctx context.Context, from, to string, ids []string) (string, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return "", ErrEmptyDatabase
	}
	if len(ids) == 0 {
		return "", ErrEmptyIDs
	}

	form := url.Values{}
	form.Set("from", from)
	form.Set("to", to)
	form.Set("ids", strings.Join(ids, ","))

	resp, err := c.transport.PostForm(ctx, c.baseURL+"/idmapping/run", form, nil)
	if err != nil {
		jobsTotal.WithLabelValues("submit_error").Inc()
		return "", err
	}
	if !resp.IsSuccess() {
		jobsTotal.WithLabelValues("submit_error").Inc()
		return "", transport.NewAPIError(resp)
	}

	var submitted struct {
		JobID string `json:"jobId"`
	}
	if err := json.Unmarshal(resp.Body, &submitted); err != nil {
		jobsTotal.WithLabelValues("submit_error").Inc()
		return "", fmt.Errorf("parse job submission response: %w", err)
	}
	if submitted.JobID == "" {
		jobsTotal.WithLabelValues("submit_error").Inc()
		return "", fmt.Errorf("job submission response carries no jobId")
	}

	jobsTotal.WithLabelValues("submitted").Inc()
	c.logger.Info().
		Str("job_id", submitted.JobID).
		Str("from", from).
		Str("to", to).
		Int("ids", len(ids)).
		Msg("ID mapping job submitted")

	return submitted.JobID, nil
}

// Status returns the current job status. A finished job's status
// endpoint may answer with the results payload directly instead of a
// jobStatus field; that counts as FINISHED.
func (c *Client) Status(ctx context.Context, jobID string) (string, error) {
	if strings.TrimSpace(jobID) == "" {
		return "", ErrEmptyJobID
	}

	resp, err := c.transport.Get(ctx, c.baseURL+"/idmapping/status/"+url.PathEscape(jobID), nil)
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", transport.NewAPIError(resp)
	}

	pollsTotal.Inc()

	var status struct {
		JobStatus string          `json:"jobStatus"`
		Results   json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		return "", fmt.Errorf("parse job status response: %w", err)
	}

	if status.JobStatus == "" && len(status.Results) > 0 {
		return StatusFinished, nil
	}
	return status.JobStatus, nil
}

// Wait polls the job at the configured interval until it finishes.
// A FAILED or ERROR status returns ErrJobFailed; cancellation of ctx
// ends the wait with the context's error.
func (c *Client) Wait(ctx context.Context, jobID string) error {
	for {
		status, err := c.Status(ctx, jobID)
		if err != nil {
			return err
		}

		switch status {
		case StatusFinished:
			jobsTotal.WithLabelValues("finished").Inc()
			return nil
		case StatusError, "FAILED":
			jobsTotal.WithLabelValues("failed").Inc()
			return fmt.Errorf("%w: job %s", ErrJobFailed, jobID)
		}

		c.logger.Debug().
			Str("job_id", jobID).
			Str("status", status).
			Msg("ID mapping job still running")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// Mapping is one mapped identifier pair. To stays raw: the target shape
// depends on the destination database (a bare string for most, a full
// entry object for UniProtKB).
type Mapping struct {
	From string          `json:"from"`
	To   json.RawMessage `json:"to"`
}

// Results fetches the mappings of a finished job.
func (c *Client) Results(ctx context.Context, jobID string) ([]Mapping, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, ErrEmptyJobID
	}

	resp, err := c.transport.Get(ctx, c.baseURL+"/idmapping/results/"+url.PathEscape(jobID), nil)
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, transport.NewAPIError(resp)
	}

	var payload struct {
		Results []Mapping `json:"results"`
	}
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("parse job results: %w", err)
	}

	return payload.Results, nil
}
