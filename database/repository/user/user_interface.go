package userRepo

import (
	"context"
	"errors"

	"schooltrip/models"
)

var ErrNotFound = errors.New("user not found")

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID returns nil, nil when the user does not exist.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail returns nil, nil when no user holds the email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Create inserts a new user record.
	Create(ctx context.Context, user *models.User) error
	// Update modifies an existing user record.
	Update(ctx context.Context, user *models.User) error
}
