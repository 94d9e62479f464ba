package cprsearch

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	apiURL     string
	httpClient *http.Client
	limiter    *rate.Limiter

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithAPIURL sets the API root, e.g. https://api.climatepolicyradar.org.
// Required.
func WithAPIURL(u string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiURL = u
	})
}

// WithHTTPClient sets the HTTP client used for API calls.
// Timeouts and retries belong to it. Defaults to a client with a 30s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithRateLimiter throttles outbound searches. Search waits for a token
// and fails with ErrQuery when ctx ends first. Pass nil for no limit (default).
func WithRateLimiter(l *rate.Limiter) Option {
	return optionFunc(func(c *clientConfig) {
		c.limiter = l
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
