package cprsearch

import (
	"github.com/kailas-cloud/cprsearch/internal/render/markdown"
	"github.com/kailas-cloud/cprsearch/internal/slug"
)

// SearchResponseToMarkdown renders one table row per hit with the columns
// Family Title, Geography, PDF URL and Matched Passage.
func SearchResponseToMarkdown(resp *SearchResponse) string {
	return markdown.SearchResponse(resp)
}

// Slugify converts text to a lowercase, hyphenated ASCII token.
func Slugify(s string) string {
	return slug.Slugify(s)
}

// CPRURL returns the Climate Policy Radar app URL for a family slug.
func CPRURL(familySlug string) string {
	return markdown.CPRURL(familySlug)
}
