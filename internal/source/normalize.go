package source

import (
	"github.com/google/uuid"
	"github.com/proplane/estatehub-api/internal/domain"
)

// This file is the single place that couples the two native source
// schemas to the canonical Listing shape. Field renames or type
// reconciliations between a source and the unified schema belong here
// and nowhere else.

// NormalizeARecord maps a Source A record into a canonical Listing
// attributed to the given task.
func NormalizeARecord(taskID uuid.UUID, rec ARecord) *domain.Listing {
	return &domain.Listing{
		ID:           uuid.New(),
		PropertyID:   rec.PropertyID,
		TaskID:       taskID,
		DataSource:   domain.SourceTagA,
		Location:     rec.Location,
		PropertyType: rec.PropertyType,
		Price:        rec.Price,
		Bedrooms:     rec.Bedrooms,
		Bathrooms:    rec.Bathrooms,
		SquareFeet:   rec.SquareFeet,
		ListingDate:  rec.ListingDate,
		Description:  rec.Description,
	}
}

// NormalizeBRow maps a Source B row into a canonical Listing attributed
// to the given task.
func NormalizeBRow(taskID uuid.UUID, row BRow) *domain.Listing {
	return &domain.Listing{
		ID:           uuid.New(),
		PropertyID:   row.PropertyID,
		TaskID:       taskID,
		DataSource:   domain.SourceTagB,
		Location:     row.Location,
		PropertyType: row.PropertyType,
		Price:        row.Price,
		Bedrooms:     row.Bedrooms,
		Bathrooms:    row.Bathrooms,
		SquareFeet:   row.SquareFeet,
		ListingDate:  row.ListingDate,
		Description:  row.Description,
	}
}
