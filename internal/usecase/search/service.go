package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/cprsearch/internal/domain"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/request"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/result"
	"github.com/kailas-cloud/cprsearch/internal/logger"
)

// Service runs searches through the remote API.
type Service struct {
	gateway Gateway
}

// New creates a search service.
func New(gateway Gateway) *Service {
	return &Service{gateway: gateway}
}

// Search executes one search. A nil p is treated as an empty request.
func (s *Service) Search(ctx context.Context, p *request.Parameters) (result.Response, error) {
	if p == nil {
		p = &request.Parameters{}
	}

	resp, err := s.gateway.Search(ctx, p)
	if err != nil {
		return result.Response{}, fmt.Errorf("search: %w", err)
	}

	logger.FromContext(ctx).Debug("search served",
		zap.String("query", p.QueryString),
		zap.Int("families", len(resp.Families)),
		zap.Int("hits", resp.HitCount()),
		zap.Int("total_family_hits", resp.TotalFamilyHits),
	)
	return resp, nil
}

// GetByID always fails: the search API has no single-document endpoint.
func (s *Service) GetByID(_ context.Context, documentID string) (result.Hit, error) {
	return nil, fmt.Errorf("get by id %q: %w", documentID, domain.ErrNotSupported)
}
