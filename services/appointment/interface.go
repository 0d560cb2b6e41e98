package appointment

import (
	"context"
	"errors"
	"time"

	appointmentRepo "sahara/database/repository/appointment"
	userRepo "sahara/database/repository/user"
	"sahara/models"
)

var (
	// ErrUserNotFound is returned when the appointment's user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidInput is returned for missing userId / serviceType or a bad date.
	ErrInvalidInput = errors.New("invalid appointment input")
)

// AppointmentService defines appointment booking operations.
type AppointmentService interface {
	Create(ctx context.Context, in models.AppointmentInput) (*models.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
}

// DefaultAppointmentService is the production implementation.
type DefaultAppointmentService struct {
	Repo  appointmentRepo.AppointmentRepository
	Users userRepo.UserRepository
	// Now is overridable in tests.
	Now func() time.Time
}
