package appointmentRepo

import (
	"context"

	"sahara/models"
)

// AppointmentRepository defines methods for appointment data access.
type AppointmentRepository interface {
	// Create inserts a single appointment.
	Create(ctx context.Context, appt *models.Appointment) error
	// ListByUser returns the user's appointments ordered by date ascending.
	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
}
