// Package chi exposes the search adapter over HTTP.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/cprsearch/internal/domain"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/request"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/result"
	"github.com/kailas-cloud/cprsearch/internal/render/markdown"
	healthuc "github.com/kailas-cloud/cprsearch/internal/usecase/health"
)

const maxRequestBody = 1 << 20

// ErrorCode identifies an error class in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest        ErrorCode = "bad_request"
	ErrorCodeValidationFailed  ErrorCode = "validation_failed"
	ErrorCodeUpstreamError     ErrorCode = "upstream_error"
	ErrorCodeMalformedUpstream ErrorCode = "malformed_upstream_response"
	ErrorCodeNotImplemented    ErrorCode = "not_implemented"
	ErrorCodeEmbeddingProvider ErrorCode = "embedding_provider_error"
	ErrorCodeInternalError     ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// SearchService runs searches.
type SearchService interface {
	Search(ctx context.Context, p *request.Parameters) (result.Response, error)
	GetByID(ctx context.Context, documentID string) (result.Hit, error)
}

// HealthService aggregates dependency checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search proxy endpoints.
type Server struct {
	search        SearchService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search SearchService, health HealthService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	// Order matters: a malformed response is checked before the generic query error.
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotSupported, http.StatusNotImplemented, ErrorCodeNotImplemented),
		sentinelHandler(domain.ErrMalformedResponse, http.StatusBadGateway, ErrorCodeMalformedUpstream),
		sentinelHandler(domain.ErrQuery, http.StatusBadGateway, ErrorCodeUpstreamError),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, ErrorCodeEmbeddingProvider),
	}
	return s
}

// Register mounts the endpoints on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/searches", s.Search)
		r.Post("/searches/markdown", s.SearchMarkdown)
		r.Get("/documents/{id}", s.GetDocument)
	})
}

// Search handles POST /api/v1/searches.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.runSearch(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SearchMarkdown handles POST /api/v1/searches/markdown.
func (s *Server) SearchMarkdown(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.runSearch(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(markdown.SearchResponse(&resp)))
}

// GetDocument handles GET /api/v1/documents/{id}.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	hit, err := s.search.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, hit)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// runSearch decodes the parameters and calls the search service. On failure
// the error response is already written.
func (s *Server) runSearch(w http.ResponseWriter, r *http.Request) (result.Response, bool) {
	p, err := decodeParameters(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return result.Response{}, false
	}
	if err := validateParameters(p); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return result.Response{}, false
	}

	resp, err := s.search.Search(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return result.Response{}, false
	}
	return resp, true
}

func decodeParameters(w http.ResponseWriter, r *http.Request) (*request.Parameters, error) {
	var p request.Parameters
	if r.ContentLength == 0 {
		return &p, nil
	}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&p)
	switch {
	case errors.Is(err, io.EOF):
		// Chunked or whitespace-only body with nothing in it.
		return &p, nil
	case err != nil:
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &p, nil
}

func validateParameters(p *request.Parameters) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Limit, validation.Min(0)),
		validation.Field(&p.MaxHitsPerFamily, validation.Min(0)),
		validation.Field(&p.SortOrder, validation.In("asc", "desc")),
		validation.Field(&p.YearRange, validation.By(orderedYearRange)),
	)
}

func orderedYearRange(value any) error {
	yr, _ := value.(*request.YearRange)
	if yr != nil && yr.From != nil && yr.To != nil && *yr.From > *yr.To {
		return fmt.Errorf("start %d is after end %d", *yr.From, *yr.To)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotSupported,
		domain.ErrMalformedResponse,
		domain.ErrQuery,
		domain.ErrEmbeddingProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
