package appointmentRepo

import (
	"context"
	"sort"
	"sync"

	"sahara/models"
)

// MemoryAppointmentRepo keeps appointments in insertion order.
type MemoryAppointmentRepo struct {
	mu    sync.RWMutex
	items []models.Appointment
}

func NewMemoryAppointmentRepo() *MemoryAppointmentRepo {
	return &MemoryAppointmentRepo{}
}

func (r *MemoryAppointmentRepo) Create(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, *appt)
	return nil
}

func (r *MemoryAppointmentRepo) ListByUser(_ context.Context, userID string) ([]models.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Appointment{}
	for _, a := range r.items {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// Len returns the total number of stored appointments.
func (r *MemoryAppointmentRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}
