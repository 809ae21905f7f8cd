package busRepo

import (
	"context"

	"schooltrip/models"
)

// BusRepository defines methods for bus data access.
type BusRepository interface {
	// GetAll retrieves buses seating at least minCapacity; 0 disables the filter.
	GetAll(ctx context.Context, minCapacity int) ([]models.Bus, error)
	// GetByID returns nil, nil when the bus does not exist.
	GetByID(ctx context.Context, id string) (*models.Bus, error)
	// ReplaceAll drops every bus and inserts the given set.
	ReplaceAll(ctx context.Context, buses []models.Bus) error
}
