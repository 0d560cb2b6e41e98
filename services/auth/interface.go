package auth

import (
	"context"
	"errors"

	userRepo "sahara/database/repository/user"
	"sahara/models"
)

// ErrUnauthorized covers every verification or provisioning failure.
var ErrUnauthorized = errors.New("unauthorized")

// Claims are the identity-provider attributes the service relies on.
type Claims struct {
	Subject     string
	Email       string
	PhoneNumber string
	Name        string
}

// Verifier checks a bearer token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// AuthService turns a bearer token into a provisioned, sanitized identity.
type AuthService interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, error)
}

// DefaultAuthService is the production implementation.
type DefaultAuthService struct {
	Verifier Verifier
	Users    userRepo.UserRepository
}
