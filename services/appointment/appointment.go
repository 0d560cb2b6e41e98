package appointment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sahara/database/repository"
	"sahara/models"
	"sahara/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate accepts an RFC 3339 instant or a calendar date (UTC midnight).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date %q", ErrInvalidInput, s)
}

func (s *DefaultAppointmentService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create books an appointment for an existing user.
func (s *DefaultAppointmentService) Create(ctx context.Context, in models.AppointmentInput) (*models.Appointment, error) {
	if strings.TrimSpace(in.UserID) == "" || strings.TrimSpace(in.ServiceType) == "" {
		return nil, fmt.Errorf("%w: userId and serviceType are required", ErrInvalidInput)
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return nil, err
	}

	if _, err := s.Users.GetByID(ctx, in.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	appt := &models.Appointment{
		ID:          uuid.NewString(),
		UserID:      in.UserID,
		ServiceType: in.ServiceType,
		Date:        date,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, appt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	utils.GetLogger().Info("appointment created",
		zap.String("appointmentID", appt.ID),
		zap.String("userID", appt.UserID),
		zap.String("serviceType", appt.ServiceType))
	return appt, nil
}

// ListByUser returns the user's appointments ordered by date ascending.
func (s *DefaultAppointmentService) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	appts, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	return appts, nil
}
