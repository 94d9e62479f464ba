package cprapi

import (
	"github.com/kailas-cloud/cprsearch/internal/domain/search/request"
	"github.com/kailas-cloud/cprsearch/internal/slug"
)

// Payload is the JSON body of POST /api/v1/searches.
type Payload map[string]any

// BuildPayload maps search parameters onto the API request schema.
//
// A key is present only when its source field is set. "Set" means non-zero:
// ExactMatch=false, Limit=0, MaxHitsPerFamily=0 and empty lists are dropped
// and the API applies its own defaults. Geography filters are slugified
// because the API matches countries by slug.
func BuildPayload(p *request.Parameters) Payload {
	out := Payload{}
	if p == nil {
		return out
	}

	if p.QueryString != "" {
		out["query_string"] = p.QueryString
	}
	if p.ExactMatch {
		out["exact_match"] = p.ExactMatch
	}
	if p.MaxHitsPerFamily != 0 {
		out["max_passages_per_doc"] = p.MaxHitsPerFamily
	}
	if len(p.FamilyIDs) > 0 {
		out["family_ids"] = p.FamilyIDs
	}
	if len(p.DocumentIDs) > 0 {
		out["document_ids"] = p.DocumentIDs
	}
	if p.YearRange != nil {
		out["year_range"] = *p.YearRange
	}
	if p.SortBy != "" {
		out["sort_field"] = p.SortBy
	}
	if p.SortOrder != "" {
		out["sort_order"] = p.SortOrder
	}
	if len(p.ContinuationTokens) > 0 {
		out["continuation_tokens"] = p.ContinuationTokens
	}
	if p.Limit != 0 {
		out["limit"] = p.Limit
	}

	if kf := keywordFilters(p.Filters); len(kf) > 0 {
		out["keyword_filters"] = kf
	}
	return out
}

func keywordFilters(f *request.Filters) map[string][]string {
	kf := map[string][]string{}
	if f == nil {
		return kf
	}
	if len(f.FamilySource) > 0 {
		kf["sources"] = f.FamilySource
	}
	if len(f.FamilyGeography) > 0 {
		countries := make([]string, len(f.FamilyGeography))
		for i, g := range f.FamilyGeography {
			countries[i] = slug.Slugify(g)
		}
		kf["countries"] = countries
	}
	if len(f.FamilyCategory) > 0 {
		kf["categories"] = f.FamilyCategory
	}
	if len(f.DocumentLanguages) > 0 {
		kf["languages"] = f.DocumentLanguages
	}
	return kf
}
