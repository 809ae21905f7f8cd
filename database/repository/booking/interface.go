package bookingRepo

import (
	"context"
	"errors"

	"schooltrip/models"
)

var ErrNotFound = errors.New("booking not found")

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID returns nil, nil when the booking does not exist.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// List returns bookings newest first.
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	// ApplyPatch writes only the fields set on patch and returns the updated document.
	ApplyPatch(ctx context.Context, id string, patch models.BookingPatch) (*models.Booking, error)
}
