package search

import (
	"context"

	"github.com/kailas-cloud/cprsearch/internal/domain/search/request"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/result"
)

// Gateway executes a search against the remote API.
type Gateway interface {
	Search(ctx context.Context, p *request.Parameters) (result.Response, error)
}
