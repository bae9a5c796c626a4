package domain

// SourceAFilter is the sparse predicate set understood by the Source A
// adapter. A nil field imposes no constraint on that dimension. The date
// range only exists here: Source A records carry listing dates that the
// tabular Source B vocabulary does not filter on.
//
// The two filter types are deliberately not unified; their asymmetry
// (date range vs. bedroom range) is part of each source's contract.
type SourceAFilter struct {
	MinPrice       *float64 `json:"min_price,omitempty"`
	MaxPrice       *float64 `json:"max_price,omitempty"`
	PropertyTypes  []string `json:"property_types,omitempty"`
	Locations      []string `json:"locations,omitempty"`
	MinListingDate *string  `json:"min_listing_date,omitempty"`
	MaxListingDate *string  `json:"max_listing_date,omitempty"`
}

// SourceBFilter is the sparse predicate set understood by the Source B
// adapter. The bedroom range only exists here.
type SourceBFilter struct {
	MinPrice      *float64 `json:"min_price,omitempty"`
	MaxPrice      *float64 `json:"max_price,omitempty"`
	PropertyTypes []string `json:"property_types,omitempty"`
	Locations     []string `json:"locations,omitempty"`
	MinBedrooms   *int     `json:"min_bedrooms,omitempty"`
	MaxBedrooms   *int     `json:"max_bedrooms,omitempty"`
}
