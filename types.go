package cprsearch

import (
	"github.com/kailas-cloud/cprsearch/internal/domain/search/request"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/result"
)

// Request model.
type (
	// SearchParameters is a structured search request. Zero fields are not sent.
	SearchParameters = request.Parameters
	// Filters holds keyword constraints. Geographies are slugified on the wire.
	Filters = request.Filters
	// YearRange bounds family publication years; a nil bound is open.
	YearRange = request.YearRange
)

// Response model.
type (
	SearchResponse = result.Response
	Family         = result.Family
	// Hit is either a Document or a Passage.
	Hit = result.Hit
	// HitAttributes are the family and document attributes shared by every hit.
	HitAttributes = result.Base
	Document      = result.Document
	Passage       = result.Passage
	HitKind       = result.Kind
)

// Hit kinds.
const (
	KindDocument = result.KindDocument
	KindPassage  = result.KindPassage
)

// NewYearRange creates a range; pass nil for an open bound.
func NewYearRange(from, to *int) (*YearRange, error) {
	return request.NewYearRange(from, to) //nolint:wrapcheck // constructor validation
}
