package cprapi

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kailas-cloud/cprsearch/internal/domain"
	"github.com/kailas-cloud/cprsearch/internal/domain/search/result"
)

type jsonObj = map[string]any

func passageMatch(text, id string, page int) jsonObj {
	return jsonObj{
		"text":              text,
		"text_block_id":     id,
		"text_block_page":   page,
		"text_block_coords": [][]float64{{10, 20}, {30, 40}},
	}
}

func documentEntry(slug string, matches ...jsonObj) jsonObj {
	doc := jsonObj{
		"document_import_id":    "CCLW.document." + slug,
		"document_slug":         slug,
		"document_languages":    []string{"English"},
		"document_content_type": "application/pdf",
		"document_cdn_object":   "cdn/" + slug + ".pdf",
		"document_source_url":   "https://example.org/" + slug,
	}
	if matches != nil {
		doc["document_passage_matches"] = matches
	}
	return doc
}

func familyEntry(slug string, docs ...jsonObj) jsonObj {
	return jsonObj{
		"family_slug":             slug,
		"family_name":             "Family " + slug,
		"family_description":      "About " + slug,
		"family_source":           "CCLW",
		"family_import_id":        "CCLW.family." + slug,
		"family_category":         "Legislative",
		"family_publication_ts":   "2021-05-01T00:00:00Z",
		"family_geography":        "GBR",
		"family_documents":        docs,
		"total_passage_hits":      3,
		"continuation_token":      "fam-next",
		"prev_continuation_token": nil,
	}
}

func responseEntry(families ...jsonObj) jsonObj {
	return jsonObj{
		"hits":                    42,
		"total_family_hits":       len(families),
		"query_time_ms":           12,
		"total_time_ms":           30,
		"families":                families,
		"continuation_token":      "next",
		"this_continuation_token": "this",
		"prev_continuation_token": nil,
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return b
}

func TestParseResponse_TopLevel(t *testing.T) {
	resp, err := ParseResponse(mustJSON(t, responseEntry(familyEntry("fam-a", documentEntry("doc-a")))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.TotalHits != 42 || resp.TotalFamilyHits != 1 {
		t.Errorf("hits = %d/%d", resp.TotalHits, resp.TotalFamilyHits)
	}
	if resp.QueryTimeMS != 12 || resp.TotalTimeMS != 30 {
		t.Errorf("timings = %d/%d", resp.QueryTimeMS, resp.TotalTimeMS)
	}
	if resp.ContinuationToken == nil || *resp.ContinuationToken != "next" {
		t.Errorf("ContinuationToken = %v", resp.ContinuationToken)
	}
	if resp.ThisContinuationToken == nil || *resp.ThisContinuationToken != "this" {
		t.Errorf("ThisContinuationToken = %v", resp.ThisContinuationToken)
	}
	if resp.PrevContinuationToken != nil {
		t.Errorf("PrevContinuationToken = %v, want nil", *resp.PrevContinuationToken)
	}
	if len(resp.Families) != 1 {
		t.Fatalf("got %d families, want 1", len(resp.Families))
	}

	fam := resp.Families[0]
	if fam.ID != "fam-a" || fam.TotalPassageHits != 3 {
		t.Errorf("family = %+v", fam)
	}
	if fam.ContinuationToken == nil || *fam.ContinuationToken != "fam-next" {
		t.Errorf("family ContinuationToken = %v", fam.ContinuationToken)
	}
	if fam.ThisContinuationToken != nil {
		t.Errorf("family ThisContinuationToken = %v, want nil", *fam.ThisContinuationToken)
	}
}

func TestParseResponse_FlattensInDocumentOrder(t *testing.T) {
	body := mustJSON(t, responseEntry(familyEntry("fam",
		documentEntry("a", passageMatch("a1", "b1", 1), passageMatch("a2", "b2", 2)),
		documentEntry("b"),
		documentEntry("c", passageMatch("c1", "b3", 7)),
	)))

	resp, err := ParseResponse(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hits := resp.Families[0].Hits

	type want struct {
		kind    result.Kind
		docSlug string
		text    string
	}
	expected := []want{
		{result.KindPassage, "a", "a1"},
		{result.KindPassage, "a", "a2"},
		{result.KindDocument, "b", ""},
		{result.KindPassage, "c", "c1"},
	}
	if len(hits) != len(expected) {
		t.Fatalf("got %d hits, want %d", len(hits), len(expected))
	}
	for i, w := range expected {
		h := hits[i]
		if h.Kind() != w.kind {
			t.Errorf("hit %d kind = %q, want %q", i, h.Kind(), w.kind)
		}
		if slug := h.Attrs().DocumentSlug; slug == nil || *slug != w.docSlug {
			t.Errorf("hit %d document slug = %v, want %q", i, slug, w.docSlug)
		}
		if p, ok := h.(result.Passage); ok && p.TextBlock != w.text {
			t.Errorf("hit %d text = %q, want %q", i, p.TextBlock, w.text)
		}
	}
}

func TestParseResponse_PassageCarriesFamilyAttributes(t *testing.T) {
	body := mustJSON(t, responseEntry(familyEntry("fam",
		documentEntry("a", passageMatch("one", "b1", 1), passageMatch("two", "b2", 2), passageMatch("three", "b3", 3)),
	)))

	resp, err := ParseResponse(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hits := resp.Families[0].Hits
	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3", len(hits))
	}

	for i, h := range hits {
		p, ok := h.(result.Passage)
		if !ok {
			t.Fatalf("hit %d is %T, want result.Passage", i, h)
		}
		a := p.Attrs()
		if a.FamilyName == nil || *a.FamilyName != "Family fam" {
			t.Errorf("hit %d FamilyName = %v", i, a.FamilyName)
		}
		if a.FamilyGeography == nil || *a.FamilyGeography != "GBR" {
			t.Errorf("hit %d FamilyGeography = %v", i, a.FamilyGeography)
		}
		if a.FamilySlug == nil || *a.FamilySlug != "fam" {
			t.Errorf("hit %d FamilySlug = %v", i, a.FamilySlug)
		}
		if len(a.DocumentLanguages) != 1 || a.DocumentLanguages[0] != "English" {
			t.Errorf("hit %d DocumentLanguages = %v", i, a.DocumentLanguages)
		}
		if p.TextBlockType != result.TextBlockTypeText {
			t.Errorf("hit %d TextBlockType = %q", i, p.TextBlockType)
		}
		if p.TextBlockPage == nil || *p.TextBlockPage != i+1 {
			t.Errorf("hit %d TextBlockPage = %v, want %d", i, p.TextBlockPage, i+1)
		}
		if len(p.TextBlockCoords) != 2 || p.TextBlockCoords[1] != [2]float64{30, 40} {
			t.Errorf("hit %d TextBlockCoords = %v", i, p.TextBlockCoords)
		}
	}
}

func TestParseResponse_DocumentWithoutMatches(t *testing.T) {
	emptyList := documentEntry("empty")
	emptyList["document_passage_matches"] = []any{}
	null := documentEntry("null")
	null["document_passage_matches"] = nil
	wrongType := documentEntry("wrong")
	wrongType["document_passage_matches"] = "not a list"

	tests := []struct {
		name string
		doc  jsonObj
	}{
		{"absent", documentEntry("absent")},
		{"empty list", emptyList},
		{"null", null},
		{"wrong type", wrongType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := ParseResponse(mustJSON(t, responseEntry(familyEntry("fam", tc.doc))))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			hits := resp.Families[0].Hits
			if len(hits) != 1 {
				t.Fatalf("got %d hits, want 1", len(hits))
			}
			if _, ok := hits[0].(result.Document); !ok {
				t.Errorf("hit is %T, want result.Document", hits[0])
			}
		})
	}
}

func TestParseResponse_PartialAttributesBecomeNil(t *testing.T) {
	fam := jsonObj{
		"family_slug":             "bare",
		"family_name":             42, // wrong type is treated as missing
		"family_documents":        []jsonObj{{"document_slug": nil}},
		"total_passage_hits":      0,
		"continuation_token":      nil,
		"prev_continuation_token": nil,
	}
	resp, err := ParseResponse(mustJSON(t, responseEntry(fam)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := resp.Families[0].Hits[0].Attrs()
	if a.FamilyName != nil {
		t.Errorf("FamilyName = %q, want nil", *a.FamilyName)
	}
	if a.FamilyGeography != nil || a.DocumentSlug != nil || a.DocumentSourceURL != nil {
		t.Errorf("expected nil attributes, got %+v", a)
	}
	if a.DocumentLanguages != nil {
		t.Errorf("DocumentLanguages = %v, want nil", a.DocumentLanguages)
	}
	if a.FamilySlug == nil || *a.FamilySlug != "bare" {
		t.Errorf("FamilySlug = %v, want bare", a.FamilySlug)
	}
}

func TestParseResponse_PartialPassage(t *testing.T) {
	doc := documentEntry("a", jsonObj{"text": "only text"})
	resp, err := ParseResponse(mustJSON(t, responseEntry(familyEntry("fam", doc))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, ok := resp.Families[0].Hits[0].(result.Passage)
	if !ok {
		t.Fatalf("hit is %T, want result.Passage", resp.Families[0].Hits[0])
	}
	if p.TextBlock != "only text" || p.TextBlockID != "" || p.TextBlockPage != nil || p.TextBlockCoords != nil {
		t.Errorf("unexpected passage %+v", p)
	}
}

func TestParseResponse_PassageWithoutText(t *testing.T) {
	doc := documentEntry("a", jsonObj{"text_block_id": "p_1_b_0"})
	resp, err := ParseResponse(mustJSON(t, responseEntry(familyEntry("fam", doc))))
	if err != nil {
		t.Fatalf("missing passage text must not be fatal: %v", err)
	}
	p, ok := resp.Families[0].Hits[0].(result.Passage)
	if !ok {
		t.Fatalf("hit is %T, want result.Passage", resp.Families[0].Hits[0])
	}
	if p.TextBlock != "" || p.TextBlockID != "p_1_b_0" {
		t.Errorf("unexpected passage %+v", p)
	}
}

func TestParseResponse_MissingTopLevelKey(t *testing.T) {
	keys := []string{
		"hits", "total_family_hits", "query_time_ms", "total_time_ms", "families",
		"continuation_token", "this_continuation_token", "prev_continuation_token",
	}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			body := responseEntry()
			delete(body, key)

			_, err := ParseResponse(mustJSON(t, body))
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
			var mk *domain.MissingKeyError
			if !errors.As(err, &mk) || mk.Key != key || mk.Object != "response" {
				t.Errorf("expected missing key %q on response, got %v", key, err)
			}
		})
	}
}

func TestParseResponse_MissingFamilyKey(t *testing.T) {
	keys := []string{
		"family_slug", "family_documents", "total_passage_hits",
		"continuation_token", "prev_continuation_token",
	}
	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			fam := familyEntry("fam", documentEntry("a"))
			delete(fam, key)

			_, err := ParseResponse(mustJSON(t, responseEntry(fam)))
			var mk *domain.MissingKeyError
			if !errors.As(err, &mk) || mk.Key != key || mk.Object != "family" {
				t.Errorf("expected missing key %q on family, got %v", key, err)
			}
		})
	}
}

func TestParseResponse_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>oops</html>"},
		{"array", "[]"},
		{"families not a list", `{"hits":1,"total_family_hits":1,"query_time_ms":1,"total_time_ms":1,` +
			`"families":"x","continuation_token":null,"this_continuation_token":null,"prev_continuation_token":null}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseResponse([]byte(tc.body))
			if !errors.Is(err, domain.ErrMalformedResponse) {
				t.Errorf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestParseResponse_NoFamilies(t *testing.T) {
	resp, err := ParseResponse(mustJSON(t, responseEntry()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Families == nil || len(resp.Families) != 0 {
		t.Errorf("Families = %#v, want empty non-nil slice", resp.Families)
	}
}
