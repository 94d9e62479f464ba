// Package cprsearch is a Go client for the Climate Policy Radar search API.
//
// It turns a structured search request into the API's query payload, performs
// the call and parses the nested response into families of document and
// passage hits.
//
//	client, _ := cprsearch.New(cprsearch.WithAPIURL("https://api.climatepolicyradar.org"))
//	resp, err := client.Search(ctx, &cprsearch.SearchParameters{
//	    QueryString: "flood defence",
//	    Filters:     &cprsearch.Filters{FamilyGeography: []string{"United Kingdom"}},
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cprsearch.SearchResponseToMarkdown(&resp))
//
// Errors can be matched with errors.Is against ErrQuery, ErrNotSupported and
// ErrMalformedResponse.
package cprsearch
