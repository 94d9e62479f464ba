package request

import (
	"encoding/json"
	"fmt"
)

// Parameters is a structured search request.
// Every field is optional; the zero value means "not set".
type Parameters struct {
	QueryString        string     `json:"query_string,omitempty"`
	ExactMatch         bool       `json:"exact_match,omitempty"`
	MaxHitsPerFamily   int        `json:"max_hits_per_family,omitempty"`
	FamilyIDs          []string   `json:"family_ids,omitempty"`
	DocumentIDs        []string   `json:"document_ids,omitempty"`
	YearRange          *YearRange `json:"year_range,omitempty"`
	SortBy             string     `json:"sort_by,omitempty"`
	SortOrder          string     `json:"sort_order,omitempty"`
	ContinuationTokens []string   `json:"continuation_tokens,omitempty"`
	Limit              int        `json:"limit,omitempty"`
	Filters            *Filters   `json:"filters,omitempty"`
}

// Filters holds keyword (categorical) constraints.
type Filters struct {
	FamilySource      []string `json:"family_source,omitempty"`
	FamilyGeography   []string `json:"family_geography,omitempty"`
	FamilyCategory    []string `json:"family_category,omitempty"`
	DocumentLanguages []string `json:"document_languages,omitempty"`
}

// IsEmpty reports whether no filter list is populated.
func (f *Filters) IsEmpty() bool {
	return f == nil ||
		len(f.FamilySource) == 0 && len(f.FamilyGeography) == 0 &&
			len(f.FamilyCategory) == 0 && len(f.DocumentLanguages) == 0
}

// YearRange bounds family publication years. A nil bound is open.
// On the wire it is a two-element array: [from, to].
type YearRange struct {
	From *int
	To   *int
}

// NewYearRange creates a range; pass nil for an open bound.
func NewYearRange(from, to *int) (*YearRange, error) {
	if from != nil && to != nil && *from > *to {
		return nil, fmt.Errorf("year range start %d is after end %d", *from, *to)
	}
	return &YearRange{From: from, To: to}, nil
}

// MarshalJSON encodes the range as [from, to].
func (y YearRange) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal([2]*int{y.From, y.To})
	if err != nil {
		return nil, fmt.Errorf("marshal year range: %w", err)
	}
	return b, nil
}

// UnmarshalJSON decodes [from, to]; either element may be null.
func (y *YearRange) UnmarshalJSON(data []byte) error {
	var pair []*int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("year range: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("year range must have 2 elements, got %d", len(pair))
	}
	y.From, y.To = pair[0], pair[1]
	return nil
}
