package cprapi

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/cprsearch/internal/domain"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/result"
)

// object is a JSON object with lazily decoded values, so key presence can be
// told apart from a null value.
type object map[string]json.RawMessage

// ParseResponse decodes a search API response body.
//
// The top-level keys and each family's structural keys are part of the API
// contract: a missing one fails the whole parse with domain.ErrMalformedResponse.
// Descriptive attributes (names, slugs, languages, passage details) are read
// best-effort; absent, null or mistyped values become nil.
func ParseResponse(body []byte) (result.Response, error) {
	var top object
	if err := json.Unmarshal(body, &top); err != nil {
		return result.Response{}, fmt.Errorf("%w: decode body: %w", domain.ErrMalformedResponse, err)
	}

	var (
		resp     result.Response
		families []object
	)
	fields := []struct {
		key string
		dst any
	}{
		{"hits", &resp.TotalHits},
		{"total_family_hits", &resp.TotalFamilyHits},
		{"query_time_ms", &resp.QueryTimeMS},
		{"total_time_ms", &resp.TotalTimeMS},
		{"families", &families},
		{"continuation_token", &resp.ContinuationToken},
		{"this_continuation_token", &resp.ThisContinuationToken},
		{"prev_continuation_token", &resp.PrevContinuationToken},
	}
	for _, f := range fields {
		if err := required(top, "response", f.key, f.dst); err != nil {
			return result.Response{}, err
		}
	}

	resp.Families = make([]result.Family, 0, len(families))
	for i, fam := range families {
		f, err := parseFamily(fam)
		if err != nil {
			return result.Response{}, fmt.Errorf("family %d: %w", i, err)
		}
		resp.Families = append(resp.Families, f)
	}
	return resp, nil
}

func parseFamily(fam object) (result.Family, error) {
	var (
		f         result.Family
		documents []object
	)
	fields := []struct {
		key string
		dst any
	}{
		{"family_slug", &f.ID},
		{"family_documents", &documents},
		{"total_passage_hits", &f.TotalPassageHits},
		{"continuation_token", &f.ContinuationToken},
		{"prev_continuation_token", &f.PrevContinuationToken},
	}
	for _, fd := range fields {
		if err := required(fam, "family", fd.key, fd.dst); err != nil {
			return result.Family{}, err
		}
	}
	f.ThisContinuationToken, _ = optional[*string](fam, "this_continuation_token")

	f.Hits = make([]result.Hit, 0, len(documents))
	for _, doc := range documents {
		f.Hits = append(f.Hits, parseHits(doc, fam)...)
	}
	return f, nil
}

// parseHits returns one Passage per passage match, or a single Document when
// the document carries no matches.
func parseHits(doc, fam object) []result.Hit {
	base := parseBase(doc, fam)

	matches, _ := optional[[]object](doc, "document_passage_matches")
	if len(matches) == 0 {
		return []result.Hit{result.Document{Base: base}}
	}

	hits := make([]result.Hit, len(matches))
	for i, m := range matches {
		hits[i] = parsePassage(m, base)
	}
	return hits
}

func parseBase(doc, fam object) result.Base {
	str := func(obj object, key string) *string {
		v, _ := optional[*string](obj, key)
		return v
	}
	languages, _ := optional[[]string](doc, "document_languages")

	return result.Base{
		FamilyName:          str(fam, "family_name"),
		FamilyDescription:   str(fam, "family_description"),
		FamilySource:        str(fam, "family_source"),
		FamilyImportID:      str(fam, "family_import_id"),
		FamilySlug:          str(fam, "family_slug"),
		FamilyCategory:      str(fam, "family_category"),
		FamilyPublicationTS: str(fam, "family_publication_ts"),
		FamilyGeography:     str(fam, "family_geography"),
		DocumentImportID:    str(doc, "document_import_id"),
		DocumentSlug:        str(doc, "document_slug"),
		DocumentLanguages:   languages,
		DocumentContentType: str(doc, "document_content_type"),
		DocumentCDNObject:   str(doc, "document_cdn_object"),
		DocumentSourceURL:   str(doc, "document_source_url"),
	}
}

func parsePassage(m object, base result.Base) result.Passage {
	text, _ := optional[string](m, "text")
	blockID, _ := optional[string](m, "text_block_id")
	coords, _ := optional[[][2]float64](m, "text_block_coords")

	var page *int
	if p, _ := optional[*float64](m, "text_block_page"); p != nil {
		n := int(*p)
		page = &n
	}

	return result.Passage{
		Base:            base,
		TextBlock:       text,
		TextBlockID:     blockID,
		TextBlockType:   result.TextBlockTypeText,
		TextBlockPage:   page,
		TextBlockCoords: coords,
	}
}

// required decodes obj[key] into dst, failing when the key is absent or its
// value has the wrong shape. A null value leaves dst at its zero value.
func required(obj object, name, key string, dst any) error {
	raw, ok := obj[key]
	if !ok {
		return &domain.MissingKeyError{Object: name, Key: key}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s.%s: %w", domain.ErrMalformedResponse, name, key, err)
	}
	return nil
}

// optional decodes obj[key] into a T. ok is false when the key is absent or
// the value does not decode; the zero T is returned then.
func optional[T any](obj object, key string) (T, bool) {
	var v T
	raw, ok := obj[key]
	if !ok {
		return v, false
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}
	return v, true
}
