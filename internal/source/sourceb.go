package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/proplane/estatehub-api/internal/domain"
)

// BRow is the native row shape of the Source B dataset, a tabular CSV
// file with a fixed header.
type BRow struct {
	PropertyID   string
	Location     string
	PropertyType string
	Price        float64
	Bedrooms     int
	Bathrooms    float64
	SquareFeet   float64
	ListingDate  string
	Description  string
}

// bHeader is the expected Source B column order.
var bHeader = []string{
	"property_id", "location", "property_type", "price", "bedrooms",
	"bathrooms", "square_feet", "listing_date", "description",
}

// SourceB reads and filters the tabular CSV dataset.
type SourceB struct {
	path string
}

// NewSourceB creates a Source B adapter over the dataset at path.
func NewSourceB(path string) *SourceB {
	return &SourceB{path: path}
}

// Fetch loads the dataset and returns the rows passing every present
// filter predicate. A nil filter returns the whole dataset. Read or parse
// failures surface as ErrSourceUnavailable with no partial result.
func (s *SourceB) Fetch(ctx context.Context, filter *domain.SourceBFilter) ([]BRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: source_b: %v", ErrSourceUnavailable, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(bHeader)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: source_b: malformed dataset: %v", ErrSourceUnavailable, err)
	}
	if len(records) == 0 || !slices.Equal(records[0], bHeader) {
		return nil, fmt.Errorf("%w: source_b: unexpected header", ErrSourceUnavailable)
	}

	rows := make([]BRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := parseBRow(rec)
		if err != nil {
			// A single bad row poisons the whole fetch; partial results
			// are never returned.
			return nil, fmt.Errorf("%w: source_b: row %d: %v", ErrSourceUnavailable, i+2, err)
		}
		if filter == nil || matchBRow(row, filter) {
			rows = append(rows, row)
		}
	}

	return rows, nil
}

// parseBRow converts one CSV record into a typed row.
func parseBRow(rec []string) (BRow, error) {
	price, err := strconv.ParseFloat(rec[3], 64)
	if err != nil {
		return BRow{}, fmt.Errorf("price: %v", err)
	}
	bedrooms, err := strconv.Atoi(rec[4])
	if err != nil {
		return BRow{}, fmt.Errorf("bedrooms: %v", err)
	}
	bathrooms, err := strconv.ParseFloat(rec[5], 64)
	if err != nil {
		return BRow{}, fmt.Errorf("bathrooms: %v", err)
	}
	squareFeet, err := strconv.ParseFloat(rec[6], 64)
	if err != nil {
		return BRow{}, fmt.Errorf("square_feet: %v", err)
	}

	return BRow{
		PropertyID:   rec[0],
		Location:     rec[1],
		PropertyType: rec[2],
		Price:        price,
		Bedrooms:     bedrooms,
		Bathrooms:    bathrooms,
		SquareFeet:   squareFeet,
		ListingDate:  rec[7],
		Description:  rec[8],
	}, nil
}

// matchBRow applies AND-of-present-predicates semantics. The bedroom
// range is the predicate unique to this source's vocabulary.
func matchBRow(row BRow, filter *domain.SourceBFilter) bool {
	if filter.MinPrice != nil && row.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && row.Price > *filter.MaxPrice {
		return false
	}
	if len(filter.PropertyTypes) > 0 && !slices.Contains(filter.PropertyTypes, row.PropertyType) {
		return false
	}
	if len(filter.Locations) > 0 && !slices.Contains(filter.Locations, row.Location) {
		return false
	}
	if filter.MinBedrooms != nil && row.Bedrooms < *filter.MinBedrooms {
		return false
	}
	if filter.MaxBedrooms != nil && row.Bedrooms > *filter.MaxBedrooms {
		return false
	}
	return true
}
