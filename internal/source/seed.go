package source

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
)

// Sample dataset value pools. Each source draws from its own regions so
// demo analytics group visibly by provenance.
var (
	sourceALocations = []string{"San Francisco", "New York", "Boston", "Chicago", "Seattle", "Austin", "Denver"}
	sourceATypes     = []string{"Apartment", "House", "Condo", "Townhouse", "Duplex"}

	sourceBLocations = []string{"Los Angeles", "Miami", "Portland", "Dallas", "Atlanta", "San Diego", "Phoenix"}
	sourceBTypes     = []string{"Apartment", "House", "Condo", "Townhouse", "Loft"}

	bathroomSteps = []float64{1.0, 1.5, 2.0, 2.5, 3.0, 3.5, 4.0}
)

// EnsureSampleData generates demo datasets for both sources when the
// files do not already exist. Existing files are never overwritten.
func EnsureSampleData(sourceAPath, sourceBPath string, records int) error {
	if _, err := os.Stat(sourceAPath); os.IsNotExist(err) {
		if err := writeSampleJSON(sourceAPath, records); err != nil {
			return fmt.Errorf("failed to seed source A dataset: %w", err)
		}
	}

	if _, err := os.Stat(sourceBPath); os.IsNotExist(err) {
		if err := writeSampleCSV(sourceBPath, records); err != nil {
			return fmt.Errorf("failed to seed source B dataset: %w", err)
		}
	}

	return nil
}

// writeSampleJSON creates the Source A dataset.
func writeSampleJSON(path string, count int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	records := make([]ARecord, 0, count)
	for i := 1; i <= count; i++ {
		records = append(records, ARecord{
			PropertyID:   fmt.Sprintf("A-%04d", i),
			Location:     sourceALocations[rand.Intn(len(sourceALocations))],
			PropertyType: sourceATypes[rand.Intn(len(sourceATypes))],
			Price:        roundCents(300000 + rand.Float64()*1700000),
			Bedrooms:     1 + rand.Intn(6),
			Bathrooms:    bathroomSteps[rand.Intn(len(bathroomSteps))],
			SquareFeet:   math.Round(500 + rand.Float64()*3500),
			ListingDate:  randomListingDate(),
			Description:  fmt.Sprintf("Sample property %d from Source A. This is a great property with amazing features.", i),
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// writeSampleCSV creates the Source B dataset.
func writeSampleCSV(path string, count int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(bHeader); err != nil {
		return err
	}

	for i := 1; i <= count; i++ {
		row := []string{
			fmt.Sprintf("B-%04d", i),
			sourceBLocations[rand.Intn(len(sourceBLocations))],
			sourceBTypes[rand.Intn(len(sourceBTypes))],
			strconv.FormatFloat(roundCents(250000+rand.Float64()*1550000), 'f', 2, 64),
			strconv.Itoa(1 + rand.Intn(6)),
			strconv.FormatFloat(bathroomSteps[rand.Intn(len(bathroomSteps))], 'f', 1, 64),
			strconv.FormatFloat(math.Round(600+rand.Float64()*3200), 'f', 0, 64),
			randomListingDate(),
			fmt.Sprintf("Sample property %d from Source B. Located in a prime area with great amenities.", i),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// randomListingDate returns an ISO date in 2022-2025, days capped at 28
// so every month is valid.
func randomListingDate() string {
	year := 2022 + rand.Intn(4)
	month := 1 + rand.Intn(12)
	day := 1 + rand.Intn(28)
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
