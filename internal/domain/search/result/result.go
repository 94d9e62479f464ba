package result

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the two hit shapes.
type Kind string

// Hit kinds.
const (
	KindDocument Kind = "document"
	KindPassage  Kind = "passage"
)

// TextBlockTypeText is the only block type the remote API can report.
const TextBlockTypeText = "text"

// Hit is either a Document or a Passage. The set is closed: only this package
// can add implementations.
type Hit interface {
	Kind() Kind
	// Attrs returns the denormalized family and document attributes.
	Attrs() Base
	isHit()
}

// Base holds the family and document attributes copied onto every hit.
// A nil pointer (or nil slice) marks an attribute the API did not return.
type Base struct {
	FamilyName          *string  `json:"family_name"`
	FamilyDescription   *string  `json:"family_description"`
	FamilySource        *string  `json:"family_source"`
	FamilyImportID      *string  `json:"family_import_id"`
	FamilySlug          *string  `json:"family_slug"`
	FamilyCategory      *string  `json:"family_category"`
	FamilyPublicationTS *string  `json:"family_publication_ts"`
	FamilyGeography     *string  `json:"family_geography"`
	DocumentImportID    *string  `json:"document_import_id"`
	DocumentSlug        *string  `json:"document_slug"`
	DocumentLanguages   []string `json:"document_languages"`
	DocumentContentType *string  `json:"document_content_type"`
	DocumentCDNObject   *string  `json:"document_cdn_object"`
	DocumentSourceURL   *string  `json:"document_source_url"`
}

// Document is a hit on a whole document, with no passage-level match.
type Document struct {
	Base
}

// Kind implements Hit.
func (Document) Kind() Kind { return KindDocument }

// Attrs implements Hit.
func (d Document) Attrs() Base { return d.Base }

func (Document) isHit() {}

// MarshalJSON adds the "type" discriminator.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	b, err := json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindDocument, plain(d)})
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return b, nil
}

// Passage is a hit on one text block within a document.
type Passage struct {
	Base
	TextBlock       string       `json:"text_block"`
	TextBlockID     string       `json:"text_block_id"`
	TextBlockType   string       `json:"text_block_type"`
	TextBlockPage   *int         `json:"text_block_page"`
	TextBlockCoords [][2]float64 `json:"text_block_coords"`
}

// Kind implements Hit.
func (Passage) Kind() Kind { return KindPassage }

// Attrs implements Hit.
func (p Passage) Attrs() Base { return p.Base }

func (Passage) isHit() {}

// MarshalJSON adds the "type" discriminator.
func (p Passage) MarshalJSON() ([]byte, error) {
	type plain Passage
	b, err := json.Marshal(struct {
		Type Kind `json:"type"`
		plain
	}{KindPassage, plain(p)})
	if err != nil {
		return nil, fmt.Errorf("marshal passage: %w", err)
	}
	return b, nil
}

// Family groups the hits of related documents.
// Hits is flat: passages and documents in document order.
type Family struct {
	ID                    string  `json:"id"`
	Hits                  []Hit   `json:"hits"`
	TotalPassageHits      int     `json:"total_passage_hits"`
	ContinuationToken     *string `json:"continuation_token"`
	ThisContinuationToken *string `json:"this_continuation_token"`
	PrevContinuationToken *string `json:"prev_continuation_token"`
}

// Response is one page of search results.
type Response struct {
	TotalHits             int      `json:"total_hits"`
	TotalFamilyHits       int      `json:"total_family_hits"`
	QueryTimeMS           int      `json:"query_time_ms"`
	TotalTimeMS           int      `json:"total_time_ms"`
	Families              []Family `json:"families"`
	ContinuationToken     *string  `json:"continuation_token"`
	ThisContinuationToken *string  `json:"this_continuation_token"`
	PrevContinuationToken *string  `json:"prev_continuation_token"`
}

// HitCount returns the number of hits across all families.
func (r *Response) HitCount() int {
	n := 0
	for i := range r.Families {
		n += len(r.Families[i].Hits)
	}
	return n
}
