package userRepo

import (
	"context"

	"sahara/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its internal ID. Returns repository.ErrNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Upsert creates the user for in.FirebaseUID or updates the non-nil fields of
	// the existing one. With in.Replace every profile field is overwritten.
	Upsert(ctx context.Context, in models.UserSync) (*models.User, error)
	// Update applies the non-nil fields of upd. Returns repository.ErrNotFound when absent.
	Update(ctx context.Context, id string, upd models.UserUpdateRequest) (*models.User, error)
}
