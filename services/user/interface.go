package user

import (
	"context"
	"errors"

	userRepo "sahara/database/repository/user"
	"sahara/models"
)

// ErrUserNotFound is returned by Update when the id does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrMissingFirebaseUID is returned by Sync when the subject id is empty.
var ErrMissingFirebaseUID = errors.New("firebaseUid is required")

// UserService defines business logic for user operations.
type UserService interface {
	// Sync upserts a user by firebase uid. Nil fields leave stored values unchanged.
	Sync(ctx context.Context, in models.UserSync) (*models.User, error)
	// GetByID returns the user, or nil when it does not exist.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Update applies a partial profile update.
	Update(ctx context.Context, id string, upd models.UserUpdateRequest) (*models.User, error)
}

// DefaultUserService is the production implementation.
type DefaultUserService struct {
	Repo userRepo.UserRepository
}
