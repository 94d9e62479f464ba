package markdown

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/cprsearch/internal/domain/search/result"
)

func strPtr(s string) *string { return &s }

func TestCPRURL(t *testing.T) {
	if got, want := CPRURL("climate-change-act_1a2b"), "https://app.climatepolicyradar.org/document/climate-change-act_1a2b"; got != want {
		t.Errorf("CPRURL() = %q, want %q", got, want)
	}
}

func TestSearchResponse_Empty(t *testing.T) {
	got := SearchResponse(&result.Response{})
	want := "| Family Title | Geography | PDF URL | Matched Passage |\n| --- | --- | --- | --- |"
	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestSearchResponse_SingleDocument(t *testing.T) {
	resp := &result.Response{Families: []result.Family{{
		ID: "uk-act",
		Hits: []result.Hit{result.Document{Base: result.Base{
			FamilyName:      strPtr("Climate Change Act"),
			FamilyGeography: strPtr("GBR"),
			FamilySlug:      strPtr("uk-act"),
		}}},
	}}}

	want := "| Family Title | Geography | PDF URL | Matched Passage |\n" +
		"| --- | --- | --- | --- |\n" +
		"| Climate Change Act | GBR | https://app.climatepolicyradar.org/document/uk-act |  |"
	if got := SearchResponse(resp); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestSearchResponse_RowsInFamilyThenHitOrder(t *testing.T) {
	fam := func(slug, name string, hits ...result.Hit) result.Family {
		for i, h := range hits {
			switch v := h.(type) {
			case result.Passage:
				v.FamilySlug, v.FamilyName = strPtr(slug), strPtr(name)
				hits[i] = v
			case result.Document:
				v.FamilySlug, v.FamilyName = strPtr(slug), strPtr(name)
				hits[i] = v
			}
		}
		return result.Family{ID: slug, Hits: hits}
	}
	resp := &result.Response{Families: []result.Family{
		fam("a", "Alpha", result.Passage{TextBlock: "first"}, result.Passage{TextBlock: "second"}),
		fam("b", "Beta", result.Document{}),
		fam("c", "Gamma", result.Passage{TextBlock: "third"}),
	}}

	lines := strings.Split(SearchResponse(resp), "\n")
	if len(lines) != 2+resp.HitCount() {
		t.Fatalf("got %d lines, want %d", len(lines), 2+resp.HitCount())
	}

	want := []string{
		"| Alpha |  | https://app.climatepolicyradar.org/document/a | first |",
		"| Alpha |  | https://app.climatepolicyradar.org/document/a | second |",
		"| Beta |  | https://app.climatepolicyradar.org/document/b |  |",
		"| Gamma |  | https://app.climatepolicyradar.org/document/c | third |",
	}
	for i, w := range want {
		if lines[i+2] != w {
			t.Errorf("row %d = %q, want %q", i, lines[i+2], w)
		}
	}
}

func TestSearchResponse_MissingAttributes(t *testing.T) {
	resp := &result.Response{Families: []result.Family{{Hits: []result.Hit{result.Document{}}}}}

	lines := strings.Split(SearchResponse(resp), "\n")
	if got, want := lines[2], "|  |  | https://app.climatepolicyradar.org/document/ |  |"; got != want {
		t.Errorf("row = %q, want %q", got, want)
	}
}
