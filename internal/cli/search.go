package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/cprsearch"
)

// Output formats for search results.
const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatTable    = "table"
)

// searchFlags mirrors SearchParameters on the command line.
type searchFlags struct {
	exact              bool
	maxHitsPerFamily   int
	familyIDs          []string
	documentIDs        []string
	yearFrom           int
	yearTo             int
	sortBy             string
	sortOrder          string
	continuationTokens []string
	limit              int
	sources            []string
	geographies        []string
	categories         []string
	languages          []string
	format             string
}

func newSearchCmd(opts *options) *cobra.Command {
	return searchCommand(opts, &searchFlags{})
}

func searchCommand(opts *options, f *searchFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [QUERY...]",
		Short: "Run a search",
		Long: `Run a search against the Climate Policy Radar API.

The query words are joined with spaces. Filters may be repeated or
comma-separated. Geographies are slugified before they are sent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := f.parameters(cmd, args)
			if err != nil {
				return err
			}
			if err := opts.setup(); err != nil {
				return err
			}

			client, err := cprsearch.New(
				cprsearch.WithAPIURL(opts.cfg.API.URL),
				cprsearch.WithHTTPClient(opts.client()),
				cprsearch.WithLogger(opts.logger),
				cprsearch.WithRateLimiter(opts.cfg.API.Limiter()),
			)
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			resp, err := client.Search(cmd.Context(), p)
			if err != nil {
				return err //nolint:wrapcheck // already prefixed by the client
			}
			return writeSearchResponse(cmd.OutOrStdout(), f.format, &resp)
		},
	}

	fl := cmd.Flags()
	fl.BoolVar(&f.exact, "exact", false, "exact match instead of semantic search")
	fl.IntVar(&f.maxHitsPerFamily, "max-hits-per-family", 0, "passages per document")
	fl.StringSliceVar(&f.familyIDs, "family-id", nil, "restrict to family ids")
	fl.StringSliceVar(&f.documentIDs, "document-id", nil, "restrict to document ids")
	fl.IntVar(&f.yearFrom, "year-from", 0, "earliest publication year")
	fl.IntVar(&f.yearTo, "year-to", 0, "latest publication year")
	fl.StringVar(&f.sortBy, "sort-by", "", "sort field")
	fl.StringVar(&f.sortOrder, "sort-order", "", "asc or desc")
	fl.StringSliceVar(&f.continuationTokens, "continuation-token", nil, "page tokens from a previous response")
	fl.IntVar(&f.limit, "limit", 0, "maximum families")
	fl.StringSliceVar(&f.sources, "source", nil, "family source filter")
	fl.StringSliceVar(&f.geographies, "geography", nil, "geography filter (names are slugified)")
	fl.StringSliceVar(&f.categories, "category", nil, "family category filter")
	fl.StringSliceVar(&f.languages, "language", nil, "document language filter")
	fl.StringVarP(&f.format, "format", "o", formatMarkdown, "output format: markdown, json or table")

	return cmd
}

// parameters builds the request from flags and positional query words.
func (f *searchFlags) parameters(cmd *cobra.Command, args []string) (*cprsearch.SearchParameters, error) {
	switch f.format {
	case formatMarkdown, formatJSON, formatTable:
	default:
		return nil, fmt.Errorf("unknown format %q (want markdown, json or table)", f.format)
	}

	p := &cprsearch.SearchParameters{
		QueryString:        joinArgs(args),
		ExactMatch:         f.exact,
		MaxHitsPerFamily:   f.maxHitsPerFamily,
		FamilyIDs:          f.familyIDs,
		DocumentIDs:        f.documentIDs,
		SortBy:             f.sortBy,
		SortOrder:          f.sortOrder,
		ContinuationTokens: f.continuationTokens,
		Limit:              f.limit,
	}

	var from, to *int
	if cmd.Flags().Changed("year-from") {
		from = &f.yearFrom
	}
	if cmd.Flags().Changed("year-to") {
		to = &f.yearTo
	}
	if from != nil || to != nil {
		yr, err := cprsearch.NewYearRange(from, to)
		if err != nil {
			return nil, err //nolint:wrapcheck // message names the bounds
		}
		p.YearRange = yr
	}

	filters := &cprsearch.Filters{
		FamilySource:      f.sources,
		FamilyGeography:   f.geographies,
		FamilyCategory:    f.categories,
		DocumentLanguages: f.languages,
	}
	if !filters.IsEmpty() {
		p.Filters = filters
	}
	return p, nil
}

func writeSearchResponse(w io.Writer, format string, resp *cprsearch.SearchResponse) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		return nil
	case formatTable:
		t := newTable(w, []string{"Family", "Geography", "Type", "Page", "Text"})
		for i := range resp.Families {
			for _, hit := range resp.Families[i].Hits {
				t.AddRow(hitRow(hit))
			}
		}
		if err := t.Render(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "%d hits in %d of %d families (query %dms)\n",
			resp.HitCount(), len(resp.Families), resp.TotalFamilyHits, resp.QueryTimeMS)
		return err //nolint:wrapcheck // terminal write
	default:
		fprintln(w, cprsearch.SearchResponseToMarkdown(resp))
		return nil
	}
}

const maxCellRunes = 80

func hitRow(hit cprsearch.Hit) []string {
	a := hit.Attrs()
	row := []string{deref(a.FamilyName), deref(a.FamilyGeography), string(hit.Kind()), "", ""}
	if p, ok := hit.(cprsearch.Passage); ok {
		if p.TextBlockPage != nil {
			row[3] = strconv.Itoa(*p.TextBlockPage)
		}
		row[4] = truncate(p.TextBlock, maxCellRunes)
	}
	return row
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
