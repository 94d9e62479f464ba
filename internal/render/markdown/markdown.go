// Package markdown renders search results as a markdown table.
package markdown

import (
	"strings"

	"github.com/kailas-cloud/cprsearch/internal/domain/search/result"
)

// cprDocumentURL is the web app page of a family, keyed by slug.
const cprDocumentURL = "https://app.climatepolicyradar.org/document/"

const header = "| Family Title | Geography | PDF URL | Matched Passage |\n| --- | --- | --- | --- |"

// CPRURL returns the Climate Policy Radar web app URL for a family slug.
func CPRURL(slug string) string {
	return cprDocumentURL + slug
}

// SearchResponse renders one table row per hit, families first, hits in
// order. The passage column is empty for document hits. Cell text is written
// as is: no escaping, sorting or truncation.
func SearchResponse(resp *result.Response) string {
	var b strings.Builder
	b.WriteString(header)

	for i := range resp.Families {
		for _, hit := range resp.Families[i].Hits {
			a := hit.Attrs()

			var passage string
			if p, ok := hit.(result.Passage); ok {
				passage = p.TextBlock
			}

			b.WriteString("\n| ")
			b.WriteString(deref(a.FamilyName))
			b.WriteString(" | ")
			b.WriteString(deref(a.FamilyGeography))
			b.WriteString(" | ")
			b.WriteString(CPRURL(deref(a.FamilySlug)))
			b.WriteString(" | ")
			b.WriteString(passage)
			b.WriteString(" |")
		}
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
