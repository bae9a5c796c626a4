// Package analytics computes on-demand grouped statistics over a
// completed task's listing set. Aggregation is a pure function of its
// input: nothing is cached and nothing is read incrementally.
package analytics

import (
	"sort"
	"strconv"

	"github.com/proplane/estatehub-api/internal/domain"
)

// bucketFiveOrMore is the catch-all bedroom bucket key.
const bucketFiveOrMore = "5+"

// MonthCount is one entry of the month grouping. A slice keeps the
// ascending month ordering through JSON encoding, which a map would not.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// Summary is the analytics body for one task. All fields are empty for
// an empty listing set, so the whole struct encodes as an empty object.
type Summary struct {
	AvgPriceByLocation  map[string]float64 `json:"avg_price_by_location,omitempty"`
	AvgPriceByType      map[string]float64 `json:"avg_price_by_type,omitempty"`
	ListingsByMonth     []MonthCount       `json:"listings_by_month,omitempty"`
	BedroomDistribution map[string]int     `json:"bedroom_distribution,omitempty"`
}

// Aggregate computes the summary for the given listings. An empty input
// yields a zero-value Summary, not an error; the caller is responsible
// for only aggregating completed tasks.
func Aggregate(listings []*domain.Listing) Summary {
	if len(listings) == 0 {
		return Summary{}
	}

	priceSumByLocation := make(map[string]float64)
	countByLocation := make(map[string]int)
	priceSumByType := make(map[string]float64)
	countByType := make(map[string]int)
	countByMonth := make(map[string]int)

	// Buckets 1-4 and "5+" are always reported, even when empty. A
	// 0-bedroom listing is a data-quality edge case and gets its own
	// bucket rather than disappearing into a neighbor.
	bedrooms := map[string]int{
		"1": 0, "2": 0, "3": 0, "4": 0, bucketFiveOrMore: 0,
	}

	for _, l := range listings {
		priceSumByLocation[l.Location] += l.Price
		countByLocation[l.Location]++

		priceSumByType[l.PropertyType] += l.Price
		countByType[l.PropertyType]++

		countByMonth[l.ListingMonth()]++

		if l.Bedrooms >= 5 {
			bedrooms[bucketFiveOrMore]++
		} else {
			bedrooms[strconv.Itoa(l.Bedrooms)]++
		}
	}

	avgByLocation := make(map[string]float64, len(priceSumByLocation))
	for loc, sum := range priceSumByLocation {
		avgByLocation[loc] = sum / float64(countByLocation[loc])
	}

	avgByType := make(map[string]float64, len(priceSumByType))
	for typ, sum := range priceSumByType {
		avgByType[typ] = sum / float64(countByType[typ])
	}

	months := make([]MonthCount, 0, len(countByMonth))
	for month, count := range countByMonth {
		months = append(months, MonthCount{Month: month, Count: count})
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })

	return Summary{
		AvgPriceByLocation:  avgByLocation,
		AvgPriceByType:      avgByType,
		ListingsByMonth:     months,
		BedroomDistribution: bedrooms,
	}
}
