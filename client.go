package cprsearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cprsearch/internal/domain/search/request"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/result"
	"github.com/kailas-cloud/cprsearch/internal/logger"
	"github.com/kailas-cloud/cprsearch/internal/transport/cprapi"
	healthuc "github.com/kailas-cloud/cprsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/cprsearch/internal/usecase/search"
)

const defaultHTTPTimeout = 30 * time.Second

// Client is the cprsearch SDK entry point. Safe for concurrent use.
type Client struct {
	searchSvc searchUseCase
	healthSvc healthUseCase
	logger    *zap.Logger
	obs       *observer
}

// searchUseCase is the internal interface for search operations.
type searchUseCase interface {
	Search(ctx context.Context, p *request.Parameters) (result.Response, error)
	GetByID(ctx context.Context, documentID string) (result.Hit, error)
}

// New creates a Client for the search API at WithAPIURL.
// No request is made until the first call.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.apiURL == "" {
		return nil, errors.New("cprsearch: api url required (use WithAPIURL)")
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	api, err := cprapi.New(cprapi.Config{
		BaseURL:    cfg.apiURL,
		HTTPClient: cfg.httpClient,
		Limiter:    cfg.limiter,
		Logger:     cfg.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("cprsearch: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		searchSvc: searchuc.New(api),
		healthSvc: healthuc.New(api, nil),
		logger:    cfg.logger,
		obs:       obs,
	}, nil
}

// Search runs one search. A nil p is an empty request.
//
// Transport failures and non-2xx statuses match ErrQuery; a response missing
// required keys matches ErrMalformedResponse.
func (c *Client) Search(ctx context.Context, p *SearchParameters) (resp SearchResponse, err error) {
	defer func(start time.Time) {
		c.obs.observe("search", start, err, zap.Int("hits", resp.HitCount()))
	}(time.Now())

	resp, err = c.searchSvc.Search(c.withLogger(ctx), p)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("cprsearch: %w", err)
	}
	return resp, nil
}

// GetByID always fails with ErrNotSupported: the API cannot fetch a single
// document.
func (c *Client) GetByID(ctx context.Context, documentID string) (Hit, error) {
	hit, err := c.searchSvc.GetByID(c.withLogger(ctx), documentID)
	if err != nil {
		return nil, fmt.Errorf("cprsearch: %w", err)
	}
	return hit, nil
}

func (c *Client) withLogger(ctx context.Context) context.Context {
	if c.logger == nil {
		return ctx
	}
	return logger.ContextWithLogger(ctx, c.logger)
}
