package tourRepo

import (
	"context"
	"errors"

	"schooltrip/models"
)

// ErrNotFound is returned by Update and Delete when no tour matches.
var ErrNotFound = errors.New("tour not found")

// TourRepository defines methods for tour data access.
type TourRepository interface {
	// GetAll retrieves every tour.
	GetAll(ctx context.Context) ([]models.Tour, error)
	// GetByID returns nil, nil when the tour does not exist.
	GetByID(ctx context.Context, id string) (*models.Tour, error)
	// GetByIDs resolves many references at once; missing ids are absent from the map.
	GetByIDs(ctx context.Context, ids []string) (map[string]models.Tour, error)
	// Create inserts a new tour.
	Create(ctx context.Context, tour *models.Tour) error
	// Update replaces the editable fields of an existing tour.
	Update(ctx context.Context, tour *models.Tour) error
	// Delete removes a tour. Bookings referencing it are left alone.
	Delete(ctx context.Context, id string) error
	// ReplaceAll drops every tour and inserts the given set.
	ReplaceAll(ctx context.Context, tours []models.Tour) error
}
