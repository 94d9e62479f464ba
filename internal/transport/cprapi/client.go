// Package cprapi talks to the Climate Policy Radar search API: it builds the
// request payload, performs the HTTP call and parses the response into the
// search result model.
package cprapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kailas-cloud/cprsearch/internal/domain"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/request"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/result"
	"github.com/kailas-cloud/cprsearch/internal/metrics"
	"github.com/kailas-cloud/cprsearch/internal/version"
)

const (
	searchPath     = "/api/v1/searches"
	searchEndpoint = "searches"

	// maxErrorBody caps how much of a non-2xx body is quoted in the error.
	maxErrorBody = 4 << 10
)

// Config holds the API client settings.
type Config struct {
	// BaseURL is the API root, e.g. https://api.climatepolicyradar.org.
	BaseURL string
	// HTTPClient performs the request. Timeouts belong here. Defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Limiter throttles outbound searches. Nil means unlimited.
	Limiter *rate.Limiter
	Logger  *zap.Logger
}

// Client is a search API client. Safe for concurrent use.
type Client struct {
	baseURL   string
	searchURL string
	http      *http.Client
	limiter   *rate.Limiter
	logger    *zap.Logger
}

// New creates a search API client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		return nil, errors.New("cprapi: base url is required")
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("cprapi: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("cprapi: base url must be http(s), got %q", base)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL:   base,
		searchURL: base + searchPath,
		http:      httpClient,
		limiter:   cfg.Limiter,
		logger:    logger,
	}, nil
}

// SearchURL returns the endpoint searches are posted to.
func (c *Client) SearchURL() string { return c.searchURL }

// Search posts the parameters to the search endpoint and parses the response.
// Connection failures and non-2xx statuses return a *domain.QueryError; a
// response violating the API contract returns domain.ErrMalformedResponse.
// There are no retries.
func (c *Client) Search(ctx context.Context, p *request.Parameters) (result.Response, error) {
	body, err := json.Marshal(BuildPayload(p))
	if err != nil {
		return result.Response{}, fmt.Errorf("encode search payload: %w", err)
	}

	start := time.Now()
	raw, err := c.post(ctx, body)
	metrics.UpstreamRequestDuration.WithLabelValues(searchEndpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn("search request failed",
			zap.String("url", c.searchURL),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return result.Response{}, err
	}

	resp, err := ParseResponse(raw)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(searchEndpoint, "decode_error").Inc()
		return result.Response{}, fmt.Errorf("parse search response: %w", err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(searchEndpoint, "ok").Inc()
	observeHits(&resp)

	c.logger.Debug("search completed",
		zap.Int("total_hits", resp.TotalHits),
		zap.Int("families", len(resp.Families)),
		zap.Int("query_time_ms", resp.QueryTimeMS),
		zap.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

// HealthCheck reports whether the API host answers. Any status below 500 counts:
// the API exposes no dedicated health endpoint.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("search api unreachable: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("search api unhealthy: %s", resp.Status)
	}
	return nil
}

// post sends the JSON body and returns the 2xx response body.
func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(searchEndpoint, "rate_limited").Inc()
			return nil, domain.NewQueryError(0, fmt.Errorf("rate limit: %w", err))
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.searchURL, bytes.NewReader(body))
	if err != nil {
		return nil, domain.NewQueryError(0, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(searchEndpoint, "transport_error").Inc()
		return nil, domain.NewQueryError(0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues(searchEndpoint, "bad_status").Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, domain.NewQueryError(resp.StatusCode,
			fmt.Errorf("%s for url %s: %s", resp.Status, c.searchURL, bytes.TrimSpace(snippet)))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(searchEndpoint, "transport_error").Inc()
		return nil, domain.NewQueryError(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	return data, nil
}

func observeHits(resp *result.Response) {
	var docs, passages int
	for i := range resp.Families {
		for _, h := range resp.Families[i].Hits {
			switch h.Kind() {
			case result.KindDocument:
				docs++
			case result.KindPassage:
				passages++
			}
		}
	}
	metrics.UpstreamHitsReturned.WithLabelValues(string(result.KindDocument)).Observe(float64(docs))
	metrics.UpstreamHitsReturned.WithLabelValues(string(result.KindPassage)).Observe(float64(passages))
}
