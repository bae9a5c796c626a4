package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/proplane/estatehub-api/internal/domain"
)

// ARecord is the native record shape of the Source A dataset, a
// record-oriented JSON document.
type ARecord struct {
	PropertyID   string  `json:"property_id"`
	Location     string  `json:"location"`
	PropertyType string  `json:"property_type"`
	Price        float64 `json:"price"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	SquareFeet   float64 `json:"square_feet"`
	ListingDate  string  `json:"listing_date"`
	Description  string  `json:"description"`
}

// SourceA reads and filters the record-oriented JSON dataset. The dataset
// is read-only from the pipeline's perspective; Fetch never mutates it.
type SourceA struct {
	path string
}

// NewSourceA creates a Source A adapter over the dataset at path.
func NewSourceA(path string) *SourceA {
	return &SourceA{path: path}
}

// Fetch loads the dataset and returns the records passing every present
// filter predicate. A nil filter returns the whole dataset. Read or parse
// failures surface as ErrSourceUnavailable with no partial result.
func (s *SourceA) Fetch(ctx context.Context, filter *domain.SourceAFilter) ([]ARecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: source_a: %v", ErrSourceUnavailable, err)
	}

	var records []ARecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: source_a: malformed dataset: %v", ErrSourceUnavailable, err)
	}

	if filter == nil {
		return records, nil
	}

	filtered := make([]ARecord, 0, len(records))
	for _, rec := range records {
		if matchARecord(rec, filter) {
			filtered = append(filtered, rec)
		}
	}

	return filtered, nil
}

// matchARecord applies AND-of-present-predicates semantics. The listing
// date range compares ISO date strings lexicographically, which is exact
// for the fixed-width zero-padded format.
func matchARecord(rec ARecord, filter *domain.SourceAFilter) bool {
	if filter.MinPrice != nil && rec.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && rec.Price > *filter.MaxPrice {
		return false
	}
	if len(filter.PropertyTypes) > 0 && !slices.Contains(filter.PropertyTypes, rec.PropertyType) {
		return false
	}
	if len(filter.Locations) > 0 && !slices.Contains(filter.Locations, rec.Location) {
		return false
	}
	if filter.MinListingDate != nil && rec.ListingDate < *filter.MinListingDate {
		return false
	}
	if filter.MaxListingDate != nil && rec.ListingDate > *filter.MaxListingDate {
		return false
	}
	return true
}
