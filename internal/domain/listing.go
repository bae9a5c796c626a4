package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SourceTag identifies which external dataset a listing came from.
type SourceTag string

// Known data sources.
const (
	SourceTagA SourceTag = "source_a"
	SourceTagB SourceTag = "source_b"
)

// listingDateLayout is the fixed-width ISO form all listing dates use.
const listingDateLayout = "2006-01-02"

// Common validation errors for Listing
var (
	ErrEmptyListingID         = errors.New("listing ID cannot be empty")
	ErrEmptyListingPropertyID = errors.New("listing property ID cannot be empty")
	ErrEmptyListingTaskID     = errors.New("listing task ID cannot be empty")
	ErrNegativeListingPrice   = errors.New("listing price cannot be negative")
	ErrNegativeBedrooms       = errors.New("listing bedroom count cannot be negative")
	ErrNegativeBathrooms      = errors.New("listing bathroom count cannot be negative")
	ErrNonPositiveSquareFeet  = errors.New("listing square feet must be positive")
	ErrInvalidListingDate     = errors.New("listing date must be an ISO calendar date")
)

// Listing represents one normalized property record attributed to the
// task that fetched it and the source it came from. Listings are written
// in bulk during task processing and are immutable afterwards; they only
// go away when their task is deleted.
type Listing struct {
	ID           uuid.UUID `json:"id"`
	PropertyID   string    `json:"property_id"`
	TaskID       uuid.UUID `json:"task_id"`
	DataSource   SourceTag `json:"data_source"`
	Location     string    `json:"location"`
	PropertyType string    `json:"property_type"`
	Price        float64   `json:"price"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    float64   `json:"bathrooms"`
	SquareFeet   float64   `json:"square_feet"`
	ListingDate  string    `json:"listing_date"`
	Description  string    `json:"description,omitempty"`
}

// Validate checks if the Listing has valid data.
// Returns an error if any field fails validation.
func (l *Listing) Validate() error {
	if l.ID == uuid.Nil {
		return ErrEmptyListingID
	}

	if l.PropertyID == "" {
		return ErrEmptyListingPropertyID
	}

	if l.TaskID == uuid.Nil {
		return ErrEmptyListingTaskID
	}

	if l.DataSource != SourceTagA && l.DataSource != SourceTagB {
		return ErrInvalidSourceTag
	}

	if l.Price < 0 {
		return ErrNegativeListingPrice
	}

	if l.Bedrooms < 0 {
		return ErrNegativeBedrooms
	}

	if l.Bathrooms < 0 {
		return ErrNegativeBathrooms
	}

	if l.SquareFeet <= 0 {
		return ErrNonPositiveSquareFeet
	}

	if _, err := time.Parse(listingDateLayout, l.ListingDate); err != nil {
		return ErrInvalidListingDate
	}

	return nil
}

// ListingMonth returns the year-month grouping key ("2006-01") for the
// listing date. The date must already have passed Validate.
func (l *Listing) ListingMonth() string {
	if len(l.ListingDate) < 7 {
		return l.ListingDate
	}
	return l.ListingDate[:7]
}
