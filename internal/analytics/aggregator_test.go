package analytics

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listing(location, propertyType string, price float64, bedrooms int, date string) *domain.Listing {
	return &domain.Listing{
		ID:           uuid.New(),
		PropertyID:   "X-0001",
		TaskID:       uuid.New(),
		DataSource:   domain.SourceTagA,
		Location:     location,
		PropertyType: propertyType,
		Price:        price,
		Bedrooms:     bedrooms,
		Bathrooms:    1.0,
		SquareFeet:   1000,
		ListingDate:  date,
	}
}

func TestAggregate_Empty(t *testing.T) {
	summary := Aggregate(nil)

	assert.Empty(t, summary.AvgPriceByLocation)
	assert.Empty(t, summary.AvgPriceByType)
	assert.Empty(t, summary.ListingsByMonth)
	assert.Empty(t, summary.BedroomDistribution)

	// The empty summary must serialize as an empty body, not null groups.
	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
}

func TestAggregate_AveragePrices(t *testing.T) {
	listings := []*domain.Listing{
		listing("Seattle", "Condo", 400000, 1, "2024-01-10"),
		listing("Seattle", "House", 800000, 3, "2024-02-05"),
		listing("Boston", "House", 600000, 2, "2024-02-20"),
	}

	summary := Aggregate(listings)

	assert.InDelta(t, 600000, summary.AvgPriceByLocation["Seattle"], 0.001)
	assert.InDelta(t, 600000, summary.AvgPriceByLocation["Boston"], 0.001)
	assert.InDelta(t, 400000, summary.AvgPriceByType["Condo"], 0.001)
	assert.InDelta(t, 700000, summary.AvgPriceByType["House"], 0.001)
}

func TestAggregate_MonthsSortedAscending(t *testing.T) {
	listings := []*domain.Listing{
		listing("Seattle", "Condo", 1, 1, "2024-11-01"),
		listing("Seattle", "Condo", 1, 1, "2022-03-15"),
		listing("Seattle", "Condo", 1, 1, "2024-11-28"),
		listing("Seattle", "Condo", 1, 1, "2023-07-04"),
	}

	summary := Aggregate(listings)

	require.Len(t, summary.ListingsByMonth, 3)
	assert.Equal(t, MonthCount{Month: "2022-03", Count: 1}, summary.ListingsByMonth[0])
	assert.Equal(t, MonthCount{Month: "2023-07", Count: 1}, summary.ListingsByMonth[1])
	assert.Equal(t, MonthCount{Month: "2024-11", Count: 2}, summary.ListingsByMonth[2])
}

func TestAggregate_BedroomBuckets(t *testing.T) {
	var listings []*domain.Listing
	for _, beds := range []int{1, 2, 3, 4, 5, 7} {
		listings = append(listings, listing("Austin", "House", 1, beds, "2024-06-01"))
	}

	summary := Aggregate(listings)

	assert.Equal(t, map[string]int{
		"1": 1, "2": 1, "3": 1, "4": 1, "5+": 2,
	}, summary.BedroomDistribution)
}

func TestAggregate_ZeroBedroomsGetsOwnBucket(t *testing.T) {
	listings := []*domain.Listing{
		listing("Denver", "Apartment", 1, 0, "2024-06-01"),
		listing("Denver", "Apartment", 1, 2, "2024-06-01"),
	}

	summary := Aggregate(listings)

	assert.Equal(t, 1, summary.BedroomDistribution["0"])
	assert.Equal(t, 1, summary.BedroomDistribution["2"])
	// A studio never inflates the 1-bedroom bucket.
	assert.Equal(t, 0, summary.BedroomDistribution["1"])
}

func TestAggregate_EmptyBucketsAlwaysReported(t *testing.T) {
	summary := Aggregate([]*domain.Listing{
		listing("Denver", "Apartment", 1, 2, "2024-06-01"),
	})

	for _, key := range []string{"1", "2", "3", "4", "5+"} {
		_, ok := summary.BedroomDistribution[key]
		assert.True(t, ok, "bucket %q missing", key)
	}
	_, ok := summary.BedroomDistribution["0"]
	assert.False(t, ok, "bucket 0 reported with no 0-bedroom listings")
}
